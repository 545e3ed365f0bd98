// Stress test comparing all-pairs, grid and GPU broad phases, and full scene steps
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"physics3d/internal/compute"
	"physics3d/internal/physics"
	"strconv"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	countsFlag := flag.String("counts", "100,500,1000,2000,5000", "comma separated object counts")
	useGPU := flag.Bool("gpu", true, "include the GPU broad phase")
	steps := flag.Int("steps", 10, "scene steps timed per configuration")
	flag.Parse()

	counts, err := parseCounts(*countsFlag)
	if err != nil {
		log.Fatalf("Bad -counts: %v", err)
	}

	gpuReady := false
	if *useGPU {
		info, err := compute.Initialize()
		if err != nil {
			log.Printf("Compute: GPU unavailable, skipping GPU runs: %v", err)
		} else {
			fmt.Printf("GPU: %s\n\n", info)
			gpuReady = true
		}
	}

	fmt.Println("Broad phase (candidate pairs per frame)")
	for _, count := range counts {
		testBroadPhase(count, gpuReady)
	}

	fmt.Println("\nScene.Update")
	for _, count := range counts {
		testSceneUpdate(count, *steps, gpuReady)
	}
}

func parseCounts(s string) ([]int, error) {
	var counts []int
	for _, field := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, err
		}
		if n > 0 {
			counts = append(counts, n)
		}
	}
	return counts, nil
}

// populate scatters spheres and boxes in a cube whose size grows with count to keep density reasonable
func populate(scene *physics.Scene, count int) {
	rng := rand.New(rand.NewSource(42)) // Consistent results
	spawnSize := float32(50.0) + float32(count)/100.0

	scene.AddPlaneStatic(rl.Vector3{Y: 1}, -spawnSize/2)
	for i := 0; i < count; i++ {
		pos := rl.Vector3{
			X: rng.Float32()*spawnSize - spawnSize/2,
			Y: rng.Float32()*spawnSize - spawnSize/2,
			Z: rng.Float32()*spawnSize - spawnSize/2,
		}
		size := 0.5 + rng.Float32()*0.5 // 0.5 to 1.0
		if i%2 == 0 {
			scene.AddSphereDynamic(pos, size, 1, rl.Vector3Zero())
		} else {
			scene.AddAABBDynamic(pos, rl.Vector3{X: size, Y: size, Z: size}, 1, rl.Vector3Zero())
		}
	}
}

func boundsOf(scene *physics.Scene) []physics.Bounds {
	bounds := make([]physics.Bounds, 0, scene.Len())
	for _, obj := range scene.Objects() {
		bounds = append(bounds, physics.BoundsOf(obj))
	}
	return bounds
}

func timePairs(bp physics.BroadPhase, bounds []physics.Bounds) (time.Duration, int, error) {
	// Warm up
	if _, err := bp.Pairs(bounds); err != nil {
		return 0, 0, err
	}

	const iterations = 10
	var pairs []physics.Pair
	start := time.Now()
	for i := 0; i < iterations; i++ {
		var err error
		if pairs, err = bp.Pairs(bounds); err != nil {
			return 0, 0, err
		}
	}
	return time.Since(start) / iterations, len(pairs), nil
}

func newGPUBroadPhase(count int) (*compute.BroadPhase, error) {
	maxPairs := uint32(count * 20) // Generous pair buffer
	bp, err := compute.NewBroadPhase(uint32(count+1), maxPairs)
	if err != nil {
		return nil, err
	}
	bp.Threshold = 0 // Always on the GPU for measurement
	return bp, nil
}

func testBroadPhase(count int, gpuReady bool) {
	scene := physics.NewScene(physics.DefaultConfig())
	populate(scene, count)
	bounds := boundsOf(scene)

	allTime, allPairs, _ := timePairs(physics.AllPairs{}, bounds)
	gridTime, gridPairs, _ := timePairs(physics.NewGrid(physics.DefaultCellSize), bounds)

	line := fmt.Sprintf("%5d objects: all %10v (%7d) | grid %8v (%5d) | %.1fx",
		count, allTime.Round(time.Microsecond), allPairs,
		gridTime.Round(time.Microsecond), gridPairs, float64(allTime)/float64(gridTime))

	if gpuReady {
		bp, err := newGPUBroadPhase(count)
		if err != nil {
			line += fmt.Sprintf(" | GPU ERROR: %v", err)
		} else {
			gpuTime, gpuPairs, err := timePairs(bp, bounds)
			if err != nil {
				line += fmt.Sprintf(" | GPU ERROR: %v", err)
			} else {
				line += fmt.Sprintf(" | gpu %8v (%5d) | %.1fx",
					gpuTime.Round(time.Microsecond), gpuPairs, float64(allTime)/float64(gpuTime))
			}
			bp.Release()
		}
	}
	fmt.Println(line)
}

func timeUpdate(bp physics.BroadPhase, count, steps int) (time.Duration, int) {
	scene := physics.NewScene(physics.DefaultConfig())
	scene.SetBroadPhase(bp)
	populate(scene, count)

	contacts := 0
	start := time.Now()
	for i := 0; i < steps; i++ {
		scene.Update(1.0 / 60.0)
		contacts += scene.ContactCount()
	}
	return time.Since(start) / time.Duration(steps), contacts
}

func testSceneUpdate(count, steps int, gpuReady bool) {
	if steps <= 0 {
		return
	}
	line := fmt.Sprintf("%5d objects:", count)

	// All pairs gets slow fast; skip it past a few thousand
	if count <= 2000 {
		d, contacts := timeUpdate(nil, count, steps)
		line += fmt.Sprintf(" none %10v (%d contacts) |", d.Round(time.Microsecond), contacts)
	}

	d, contacts := timeUpdate(physics.NewGrid(physics.DefaultCellSize), count, steps)
	line += fmt.Sprintf(" grid %8v (%d contacts)", d.Round(time.Microsecond), contacts)

	if gpuReady {
		if bp, err := newGPUBroadPhase(count); err == nil {
			d, contacts := timeUpdate(bp, count, steps)
			line += fmt.Sprintf(" | gpu %8v (%d contacts)", d.Round(time.Microsecond), contacts)
			bp.Release()
		}
	}
	fmt.Println(line)
}
