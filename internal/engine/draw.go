package engine

import rl "github.com/gen2brain/raylib-go/raylib"

// Drawer is implemented by render layers that visualize a scene.
// Scenes call one method per live object each frame with its current world-space geometry,
// so the physics side never depends on a renderer.
type Drawer interface {
	// DrawPlane draws an infinite plane through origin facing normal (unit length)
	DrawPlane(origin, normal rl.Vector3)
	DrawSphere(center rl.Vector3, radius float32)
	// DrawAABB draws an axis-aligned box; extents are half sizes
	DrawAABB(center, extents rl.Vector3)
}

// DrawFunc adapts three plain functions into a Drawer. Nil members are skipped.
type DrawFunc struct {
	Plane  func(origin, normal rl.Vector3)
	Sphere func(center rl.Vector3, radius float32)
	AABB   func(center, extents rl.Vector3)
}

func (d DrawFunc) DrawPlane(origin, normal rl.Vector3) {
	if d.Plane != nil {
		d.Plane(origin, normal)
	}
}

func (d DrawFunc) DrawSphere(center rl.Vector3, radius float32) {
	if d.Sphere != nil {
		d.Sphere(center, radius)
	}
}

func (d DrawFunc) DrawAABB(center, extents rl.Vector3) {
	if d.AABB != nil {
		d.AABB(center, extents)
	}
}
