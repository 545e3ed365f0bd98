package compute

import (
	"physics3d/internal/physics"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestPackSpheres(t *testing.T) {
	bounds := []physics.Bounds{
		{Unbounded: true},
		{Center: rl.Vector3{X: 1, Y: 2, Z: 3}, Radius: 0.5},
		{Center: rl.Vector3{X: -1}, Radius: 2},
		{Unbounded: true},
	}

	spheres, indices, unbounded := packSpheres(bounds, nil, nil)

	if len(spheres) != 2 {
		t.Fatalf("Expected 2 spheres, got %d", len(spheres))
	}
	if spheres[0] != (Sphere{X: 1, Y: 2, Z: 3, Radius: 0.5}) {
		t.Errorf("Unexpected first sphere %+v", spheres[0])
	}
	if indices[0] != 1 || indices[1] != 2 {
		t.Errorf("Expected indices [1 2], got %v", indices)
	}
	if len(unbounded) != 2 || unbounded[0] != 0 || unbounded[1] != 3 {
		t.Errorf("Expected unbounded [0 3], got %v", unbounded)
	}
}

func TestMergePairs(t *testing.T) {
	// Scene: 0 plane, 1 sphere, 2 sphere, 3 plane, 4 sphere
	indices := []int{1, 2, 4}
	unbounded := []int{0, 3}
	raw := []gpuPair{{A: 0, B: 2}, {A: 9, B: 0}}

	pairs := mergePairs(raw, indices, unbounded, 5)

	set := make(map[physics.Pair]int)
	for _, p := range pairs {
		if p.A >= p.B {
			t.Errorf("Pair %v is not ordered", p)
		}
		set[p]++
	}

	want := []physics.Pair{
		{A: 1, B: 4},
		{A: 0, B: 1}, {A: 0, B: 2}, {A: 0, B: 3}, {A: 0, B: 4},
		{A: 1, B: 3}, {A: 2, B: 3}, {A: 3, B: 4},
	}
	for _, p := range want {
		if set[p] != 1 {
			t.Errorf("Expected pair %v exactly once, got %d", p, set[p])
		}
	}
	if len(pairs) != len(want) {
		t.Errorf("Expected %d pairs, got %d: %v", len(want), len(pairs), pairs)
	}
}

func TestNewBroadPhaseWithoutDevice(t *testing.T) {
	if Get() != nil {
		t.Skip("GPU initialized elsewhere")
	}
	if _, err := NewBroadPhase(16, 64); err != ErrNoDevice {
		t.Errorf("Expected ErrNoDevice, got %v", err)
	}
}
