package camera

import (
	"testing"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

func near(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func vecNear(a, b rl.Vector3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestLookAt(t *testing.T) {
	c := New(rl.Vector3{X: 10, Y: 10, Z: 10})
	c.LookAt(rl.Vector3Zero())

	forward, _ := c.Directions()
	want := rl.Vector3Normalize(rl.Vector3{X: -1, Y: -1, Z: -1})
	if !vecNear(forward, want) {
		t.Errorf("Expected forward %v, got %v", want, forward)
	}

	cam := c.GetRaylibCamera()
	if !vecNear(rl.Vector3Subtract(cam.Target, cam.Position), want) {
		t.Errorf("Raylib camera should look along forward, got target %v", cam.Target)
	}
}

func TestLookAtClampsPitch(t *testing.T) {
	c := New(rl.Vector3{Y: 10})
	c.LookAt(rl.Vector3Zero())

	if c.Pitch != -89 {
		t.Errorf("Expected pitch clamped to -89, got %f", c.Pitch)
	}
}

func TestDirectionsAreOrthogonal(t *testing.T) {
	c := New(rl.Vector3Zero())
	for _, yaw := range []float32{0, 45, 90, -135, 270} {
		c.Yaw = yaw
		forward, right := c.Directions()
		if !near(rl.Vector3DotProduct(forward, right), 0) {
			t.Errorf("Yaw %f: forward and right not orthogonal", yaw)
		}
		if right.Y != 0 || !near(rl.Vector3Length(right), 1) {
			t.Errorf("Yaw %f: right should be a horizontal unit vector, got %v", yaw, right)
		}
	}
}

func TestApplyMoves(t *testing.T) {
	c := New(rl.Vector3Zero())
	c.Yaw, c.Pitch = 0, 0

	c.Apply(Input{Forward: true}, 1)
	if !vecNear(c.Position, rl.Vector3{X: c.MoveSpeed}) {
		t.Errorf("Expected to move forward along +X, got %v", c.Position)
	}

	c.Position = rl.Vector3Zero()
	c.Apply(Input{Forward: true, Right: true}, 1)
	if !near(rl.Vector3Length(c.Position), c.MoveSpeed) {
		t.Errorf("Diagonal movement should not be faster, moved %f", rl.Vector3Length(c.Position))
	}

	c.Position = rl.Vector3Zero()
	c.Apply(Input{Up: true, Fast: true}, 0.5)
	if !vecNear(c.Position, rl.Vector3{Y: c.MoveSpeed * c.FastMultiplier * 0.5}) {
		t.Errorf("Expected a fast climb, got %v", c.Position)
	}

	c.Position = rl.Vector3Zero()
	c.Apply(Input{Forward: true, Back: true}, 1)
	if c.Position != rl.Vector3Zero() {
		t.Errorf("Opposite keys should cancel, got %v", c.Position)
	}
}

func TestApplyLook(t *testing.T) {
	c := New(rl.Vector3Zero())
	c.Yaw, c.Pitch = 0, 0

	c.Apply(Input{Look: rl.Vector2{X: 100, Y: 5000}}, 1)
	if !near(c.Yaw, 100*c.LookSpeed) {
		t.Errorf("Expected yaw %f, got %f", 100*c.LookSpeed, c.Yaw)
	}
	if c.Pitch != -89 {
		t.Errorf("Expected pitch clamped to -89, got %f", c.Pitch)
	}
}
