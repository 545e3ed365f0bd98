// GPU broad phase check: every overlapping pair found on the CPU must also come back from the GPU
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"physics3d/internal/compute"
	"physics3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	count := flag.Int("n", 2000, "number of objects")
	seed := flag.Int64("seed", 7, "random seed")
	flag.Parse()

	info, err := compute.Initialize()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init compute: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Using GPU: %s\n", info)

	bounds := randomBounds(*count, *seed)

	bp, err := compute.NewBroadPhase(uint32(len(bounds)), uint32(len(bounds)*20))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create broad phase: %v\n", err)
		os.Exit(1)
	}
	defer bp.Release()
	bp.Threshold = 0

	gpuPairs, err := bp.Pairs(bounds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "GPU pairs failed: %v\n", err)
		os.Exit(1)
	}

	found := make(map[physics.Pair]bool, len(gpuPairs))
	for _, p := range gpuPairs {
		found[p] = true
	}

	// Brute force reference
	missing, overlapping := 0, 0
	for i := range bounds {
		for j := i + 1; j < len(bounds); j++ {
			if !overlaps(bounds[i], bounds[j]) {
				continue
			}
			overlapping++
			if !found[physics.Pair{A: i, B: j}] {
				missing++
				if missing <= 10 {
					fmt.Printf("  missing pair (%d, %d)\n", i, j)
				}
			}
		}
	}

	fmt.Printf("%d objects: %d overlapping, %d from GPU, %d missing\n", len(bounds), overlapping, len(gpuPairs), missing)
	if missing > 0 {
		fmt.Println("FAIL")
		os.Exit(1)
	}
	fmt.Println("OK")
}

func overlaps(a, b physics.Bounds) bool {
	if a.Unbounded || b.Unbounded {
		return true
	}
	r := a.Radius + b.Radius
	return rl.Vector3Distance(a.Center, b.Center) <= r
}

// randomBounds scatters spheres in a cube and adds one unbounded plane
func randomBounds(count int, seed int64) []physics.Bounds {
	rng := rand.New(rand.NewSource(seed))
	size := float32(50.0) + float32(count)/100.0

	bounds := make([]physics.Bounds, 0, count+1)
	bounds = append(bounds, physics.Bounds{Unbounded: true})
	for i := 0; i < count; i++ {
		bounds = append(bounds, physics.Bounds{
			Center: rl.Vector3{
				X: rng.Float32()*size - size/2,
				Y: rng.Float32()*size - size/2,
				Z: rng.Float32()*size - size/2,
			},
			Radius: 0.5 + rng.Float32()*0.5,
		})
	}
	return bounds
}
