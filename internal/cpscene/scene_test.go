package cpscene

import (
	"physics3d/internal/engine"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestSphereStaysAboveGround(t *testing.T) {
	scene := NewScene(DefaultConfig())
	scene.AddPlaneStatic(rl.Vector3{Y: 1}, 0)
	scene.AddSphereDynamic(rl.Vector3{Y: 10}, 1, 1, rl.Vector3Zero())

	for i := 0; i < 300; i++ {
		scene.Update(1.0 / 60.0)
		if y := scene.Position(1).Y; y < 0.5 {
			t.Fatalf("Sphere fell through the ground at step %d: y=%f", i, y)
		}
	}

	if y := scene.Position(1).Y; y > 10 {
		t.Errorf("Sphere should have fallen, y=%f", y)
	}
}

func TestStaticObjectsStayPut(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Offset = rl.Vector3{X: 50, Z: 3}
	scene := NewScene(cfg)
	scene.AddSphereStatic(rl.Vector3{Y: 2}, 1)
	scene.AddAABBStatic(rl.Vector3{X: 4, Y: 2}, rl.Vector3{X: 1, Y: 1, Z: 1})
	scene.AddAABBDynamic(rl.Vector3{Y: 5}, rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5}, 1, rl.Vector3Zero())

	for i := 0; i < 120; i++ {
		scene.Update(1.0 / 60.0)
	}

	if scene.Position(0) != (rl.Vector3{X: 50, Y: 2, Z: 3}) {
		t.Errorf("Static sphere moved to %v", scene.Position(0))
	}
	if scene.Position(1) != (rl.Vector3{X: 54, Y: 2, Z: 3}) {
		t.Errorf("Static box moved to %v", scene.Position(1))
	}
	if scene.Velocity(0) != rl.Vector3Zero() {
		t.Error("Static objects report zero velocity")
	}
	// Box lands on the static sphere
	if y := scene.Position(2).Y; y < 2.4 {
		t.Errorf("Dynamic box passed through the static sphere: y=%f", y)
	}
	if scene.Position(2).Z != 3 {
		t.Errorf("Z should be carried through, got %f", scene.Position(2).Z)
	}
}

func TestDynamicPlaneIsStatic(t *testing.T) {
	scene := NewScene(DefaultConfig())
	scene.AddPlaneDynamic(rl.Vector3{Y: 1}, 0, 5, rl.Vector3{Y: 10})
	scene.AddPlaneStatic(rl.Vector3{Z: 1}, 0)

	if scene.Len() != 1 {
		t.Fatalf("Expected 1 object (Z-facing plane skipped), got %d", scene.Len())
	}
	scene.Update(1)
	if scene.Position(0) != rl.Vector3Zero() {
		t.Errorf("Plane moved to %v", scene.Position(0))
	}
}

func TestDraw(t *testing.T) {
	scene := NewScene(DefaultConfig())
	scene.AddPlaneStatic(rl.Vector3{Y: 2}, 1)
	scene.AddSphereDynamic(rl.Vector3{Y: 5}, 0.5, 1, rl.Vector3Zero())
	scene.AddAABBStatic(rl.Vector3{X: 3}, rl.Vector3{X: 1, Y: 1, Z: 1})

	scene.Draw()

	var calls int
	scene.SetDrawer(engine.DrawFunc{
		Plane: func(origin, normal rl.Vector3) {
			calls++
			if origin != (rl.Vector3{Y: 1}) || normal != (rl.Vector3{Y: 1}) {
				t.Errorf("Unexpected plane %v %v", origin, normal)
			}
		},
		Sphere: func(center rl.Vector3, radius float32) {
			calls++
			if center != (rl.Vector3{Y: 5}) || radius != 0.5 {
				t.Errorf("Unexpected sphere %v %f", center, radius)
			}
		},
		AABB: func(center, extents rl.Vector3) { calls++ },
	})
	scene.Draw()

	if calls != 3 {
		t.Errorf("Expected 3 draw calls, got %d", calls)
	}
}

func TestSetGravity(t *testing.T) {
	scene := NewScene(DefaultConfig())
	scene.AddSphereDynamic(rl.Vector3{Y: 10}, 1, 1, rl.Vector3Zero())
	scene.SetGravity(rl.Vector3{Y: 5})

	for i := 0; i < 30; i++ {
		scene.Update(1.0 / 60.0)
	}

	if y := scene.Position(0).Y; y <= 10 {
		t.Errorf("Sphere should rise under upward gravity, y=%f", y)
	}
}
