package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// RigidBody is the dynamics state of a non-rotating point mass.
// Forces accumulate between integration steps and are consumed by Integrate.
type RigidBody struct {
	// Constants
	mass float32

	// Derived data
	velocity rl.Vector3

	// Accumulated data
	force rl.Vector3
}

// NewRigidBody creates a body with the given mass and initial velocity.
// Mass must be positive and finite; callers validate it.
func NewRigidBody(mass float32, velocity rl.Vector3) *RigidBody {
	return &RigidBody{
		mass:     mass,
		velocity: velocity,
	}
}

func (r *RigidBody) Mass() float32 {
	return r.mass
}

func (r *RigidBody) Velocity() rl.Vector3 {
	return r.velocity
}

// Force returns the force accumulated since the last Integrate
func (r *RigidBody) Force() rl.Vector3 {
	return r.force
}

func (r *RigidBody) Momentum() rl.Vector3 {
	return rl.Vector3Scale(r.velocity, r.mass)
}

func (r *RigidBody) AddForce(force rl.Vector3) {
	r.force = rl.Vector3Add(r.force, force)
}

func (r *RigidBody) AddVelocity(velocity rl.Vector3) {
	r.velocity = rl.Vector3Add(r.velocity, velocity)
}

func (r *RigidBody) AddMomentum(momentum rl.Vector3) {
	r.AddVelocity(rl.Vector3Scale(momentum, 1/r.mass))
}

// Stop zeroes the velocity. Accumulated force is kept.
func (r *RigidBody) Stop() {
	r.velocity = rl.Vector3Zero()
}

// Integrate advances the body by deltaTime and returns how far it moved.
// Gravity is applied once here; accumulated force is consumed and reset.
// Position uses the midpoint of the old and new velocity.
func (r *RigidBody) Integrate(deltaTime float32, gravity rl.Vector3) rl.Vector3 {
	acceleration := rl.Vector3Scale(r.force, 1/r.mass)
	oldVelocity := r.velocity

	r.velocity = rl.Vector3Add(r.velocity, rl.Vector3Scale(rl.Vector3Add(acceleration, gravity), deltaTime))

	positionDelta := rl.Vector3Scale(rl.Vector3Add(oldVelocity, r.velocity), 0.5*deltaTime)

	r.force = rl.Vector3Zero()
	return positionDelta
}
