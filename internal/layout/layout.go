// Package layout builds common scene arrangements on any engine.Scene backend.
package layout

import (
	"math/rand"
	"physics3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// TableSize is the side length of the default play area
const TableSize = 30

// Boundary surrounds a tableSize x tableSize area with four static walls resting on the ground.
// Walls are two units thick and borderHeight tall.
func Boundary(scene engine.Scene, tableSize, borderHeight float32) {
	half := tableSize / 2
	h := borderHeight / 2

	scene.AddAABBStatic(rl.Vector3{X: 0, Y: h, Z: half + 1}, rl.Vector3{X: half, Y: h, Z: 1})
	scene.AddAABBStatic(rl.Vector3{X: 0, Y: h, Z: -half - 1}, rl.Vector3{X: half, Y: h, Z: 1})
	scene.AddAABBStatic(rl.Vector3{X: half + 1, Y: h, Z: 0}, rl.Vector3{X: 1, Y: h, Z: half})
	scene.AddAABBStatic(rl.Vector3{X: -half - 1, Y: h, Z: 0}, rl.Vector3{X: 1, Y: h, Z: half})
}

// gridPositions lays count points on a square grid centered over the origin at height y
func gridPositions(count int, spacing, y float32) []rl.Vector3 {
	if count <= 0 {
		return nil
	}

	side := 1
	for side*side < count {
		side++
	}
	start := -float32(side-1) * spacing / 2

	positions := make([]rl.Vector3, 0, count)
	for i := 0; i < count; i++ {
		row, col := i/side, i%side
		positions = append(positions, rl.Vector3{
			X: start + float32(col)*spacing,
			Y: y,
			Z: start + float32(row)*spacing,
		})
	}
	return positions
}

// Spheres drops a grid of unit-mass spheres of radius 1
func Spheres(scene engine.Scene, count int, spacing float32) {
	for _, p := range gridPositions(count, spacing, 10) {
		scene.AddSphereDynamic(p, 1, 1, rl.Vector3Zero())
	}
}

// AABBs drops a grid of unit-mass unit boxes
func AABBs(scene engine.Scene, count int, spacing float32) {
	for _, p := range gridPositions(count, spacing, 12) {
		scene.AddAABBDynamic(p, rl.Vector3{X: 1, Y: 1, Z: 1}, 1, rl.Vector3Zero())
	}
}

const (
	DefaultEmitInterval = 0.5 // seconds
	EmitRange           = 20
	EmitHeight          = 15
)

// Emitter drops a sphere at a random spot over the table every Interval seconds
type Emitter struct {
	Interval float32
	Radius   float32
	Mass     float32
	Enabled  bool

	timer   float32
	emitted int
	rng     *rand.Rand
}

func NewEmitter(seed int64) *Emitter {
	return &Emitter{
		Interval: DefaultEmitInterval,
		Radius:   0.5,
		Mass:     1,
		Enabled:  true,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Update advances the timer and emits into scene when it runs out. Returns how many spheres were added.
func (e *Emitter) Update(scene engine.Scene, deltaTime float32) int {
	if !e.Enabled || e.Interval <= 0 || deltaTime <= 0 {
		return 0
	}

	n := 0
	e.timer += deltaTime
	for e.timer >= e.Interval {
		e.timer -= e.Interval
		e.Emit(scene)
		n++
	}
	return n
}

// Emit adds one sphere now, uniform over -EmitRange..EmitRange in X and Z
func (e *Emitter) Emit(scene engine.Scene) rl.Vector3 {
	p := rl.Vector3{
		X: e.rng.Float32()*2*EmitRange - EmitRange,
		Y: EmitHeight,
		Z: e.rng.Float32()*2*EmitRange - EmitRange,
	}
	scene.AddSphereDynamic(p, e.Radius, e.Mass, rl.Vector3Zero())
	e.emitted++
	return p
}

// Emitted returns the total number of spheres added
func (e *Emitter) Emitted() int {
	return e.emitted
}
