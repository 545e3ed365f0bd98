package physics

import (
	"testing"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const epsilon = 1e-5

func approx(a, b float32) bool {
	return math32.Abs(a-b) <= epsilon
}

func vecApprox(a, b rl.Vector3) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Z, b.Z)
}

func TestIntegrateAppliesGravityOnce(t *testing.T) {
	body := NewRigidBody(2, rl.Vector3Zero())
	dt := float32(1.0 / 60.0)

	delta := body.Integrate(dt, rl.Vector3{Y: -9.8})

	if !approx(body.Velocity().Y, -9.8/60) {
		t.Errorf("Expected velocity.Y %f, got %f", -9.8/60, body.Velocity().Y)
	}
	if !approx(delta.Y, -9.8/3600*0.5) {
		t.Errorf("Expected delta.Y %f, got %f", -9.8/3600*0.5, delta.Y)
	}
	if delta.X != 0 || delta.Z != 0 {
		t.Errorf("Expected no horizontal movement, got %v", delta)
	}
}

func TestIntegrateConsumesForce(t *testing.T) {
	body := NewRigidBody(2, rl.Vector3Zero())
	body.AddForce(rl.Vector3{X: 4})

	delta := body.Integrate(0.5, rl.Vector3Zero())

	// a = 2, v = 1, midpoint delta = 0.5 * (0 + 1) * 0.5
	if !approx(body.Velocity().X, 1) {
		t.Errorf("Expected velocity.X 1, got %f", body.Velocity().X)
	}
	if !approx(delta.X, 0.25) {
		t.Errorf("Expected delta.X 0.25, got %f", delta.X)
	}
	if body.Force() != rl.Vector3Zero() {
		t.Errorf("Force should be reset after Integrate, got %v", body.Force())
	}

	// Second step has no force left, only the carried velocity
	delta = body.Integrate(0.5, rl.Vector3Zero())
	if !approx(delta.X, 0.5) {
		t.Errorf("Expected delta.X 0.5 on second step, got %f", delta.X)
	}
}

func TestIntegrateZeroDeltaTime(t *testing.T) {
	body := NewRigidBody(1, rl.Vector3{X: 3})
	body.AddForce(rl.Vector3{Y: 10})

	delta := body.Integrate(0, rl.Vector3{Y: -9.8})

	if delta != rl.Vector3Zero() {
		t.Errorf("Expected zero delta, got %v", delta)
	}
	if body.Velocity() != (rl.Vector3{X: 3}) {
		t.Errorf("Velocity should be unchanged, got %v", body.Velocity())
	}
	if body.Force() != rl.Vector3Zero() {
		t.Error("Force should still be consumed")
	}
}

func TestRigidBodyMomentum(t *testing.T) {
	body := NewRigidBody(2, rl.Vector3{X: 1, Y: -1})

	if body.Momentum() != (rl.Vector3{X: 2, Y: -2}) {
		t.Errorf("Expected momentum (2,-2,0), got %v", body.Momentum())
	}

	body.AddMomentum(rl.Vector3{X: 4})
	if body.Velocity() != (rl.Vector3{X: 3, Y: -1}) {
		t.Errorf("Expected velocity (3,-1,0), got %v", body.Velocity())
	}

	body.AddVelocity(rl.Vector3{Z: 5})
	if body.Velocity().Z != 5 {
		t.Errorf("Expected velocity.Z 5, got %f", body.Velocity().Z)
	}

	body.Stop()
	if body.Velocity() != rl.Vector3Zero() {
		t.Errorf("Stop should zero velocity, got %v", body.Velocity())
	}
	if body.Mass() != 2 {
		t.Error("Mass should never change")
	}
}

func TestStaticObjectIgnoresDynamics(t *testing.T) {
	obj := NewObject(rl.Vector3{Y: 3}, NewSphere(1), nil)

	obj.AddForce(rl.Vector3{X: 100})
	obj.AddVelocity(rl.Vector3{X: 100})
	obj.AddMomentum(rl.Vector3{X: 100})
	obj.Update(1, rl.Vector3{Y: -9.8})

	if obj.Position() != (rl.Vector3{Y: 3}) {
		t.Errorf("Static object moved to %v", obj.Position())
	}
	if obj.Velocity() != rl.Vector3Zero() {
		t.Errorf("Static object has velocity %v", obj.Velocity())
	}
	if obj.EffectiveMass() != StaticMass {
		t.Errorf("Expected StaticMass, got %f", obj.EffectiveMass())
	}
	if obj.InverseMass() != 0 {
		t.Errorf("Expected inverse mass 0, got %f", obj.InverseMass())
	}
	if !obj.IsStatic() || obj.Body() != nil {
		t.Error("Object without a body should be static")
	}
}

func TestObjectCenterIncludesOffset(t *testing.T) {
	sphere := Sphere{Radius: 1, Offset: rl.Vector3{Y: 2}}
	obj := NewObject(rl.Vector3{X: 1}, sphere, NewRigidBody(1, rl.Vector3Zero()))

	if obj.Center() != (rl.Vector3{X: 1, Y: 2}) {
		t.Errorf("Expected center (1,2,0), got %v", obj.Center())
	}

	box := NewObject(rl.Vector3{}, AABB{Extents: rl.Vector3{X: 1, Y: 1, Z: 1}, Offset: rl.Vector3{Z: -1}}, nil)
	if box.Center() != (rl.Vector3{Z: -1}) {
		t.Errorf("Expected center (0,0,-1), got %v", box.Center())
	}
}
