package engine

import rl "github.com/gen2brain/raylib-go/raylib"

// DefaultGravity returns the gravity every scene starts with unless configured otherwise.
func DefaultGravity() rl.Vector3 {
	return rl.Vector3{X: 0, Y: -9.8, Z: 0}
}

// Scene is the contract shared by every physics backend.
// The application builds scenes through the Add* factories and drives them once per frame.
// Static objects never move; dynamic objects take a mass and an initial velocity.
type Scene interface {
	Update(deltaTime float32)
	Draw()
	SetDrawer(d Drawer)

	AddPlaneStatic(normal rl.Vector3, distance float32)
	AddSphereStatic(position rl.Vector3, radius float32)
	AddAABBStatic(position, extents rl.Vector3)

	AddPlaneDynamic(normal rl.Vector3, distance, mass float32, velocity rl.Vector3)
	AddSphereDynamic(position rl.Vector3, radius, mass float32, velocity rl.Vector3)
	AddAABBDynamic(position, extents rl.Vector3, mass float32, velocity rl.Vector3)
}
