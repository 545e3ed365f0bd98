package physics

import (
	"physics3d/internal/engine"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// StaticMass is the effective mass reported for objects without a rigid body
const StaticMass = math32.MaxFloat32

// Object couples a world position with a shape and an optional rigid body.
// An object without a body is static: it never moves and absorbs no momentum.
type Object struct {
	Name string

	position rl.Vector3
	shape    Shape
	body     *RigidBody
}

// NewObject creates an object. Pass a nil body for a static object.
func NewObject(position rl.Vector3, shape Shape, body *RigidBody) *Object {
	return &Object{
		position: position,
		shape:    shape,
		body:     body,
	}
}

func (o *Object) Position() rl.Vector3 {
	return o.position
}

func (o *Object) Shape() Shape {
	return o.shape
}

// Body returns the rigid body, or nil for static objects
func (o *Object) Body() *RigidBody {
	return o.body
}

func (o *Object) IsStatic() bool {
	return o.body == nil
}

func (o *Object) Velocity() rl.Vector3 {
	if o.body == nil {
		return rl.Vector3Zero()
	}
	return o.body.Velocity()
}

// EffectiveMass returns the body's mass, or StaticMass for static objects
func (o *Object) EffectiveMass() float32 {
	if o.body == nil {
		return StaticMass
	}
	return o.body.Mass()
}

// InverseMass returns 1/mass, or exactly 0 for static objects
func (o *Object) InverseMass() float32 {
	if o.body == nil {
		return 0
	}
	return 1 / o.body.Mass()
}

func (o *Object) Momentum() rl.Vector3 {
	if o.body == nil {
		return rl.Vector3Zero()
	}
	return o.body.Momentum()
}

func (o *Object) Translate(delta rl.Vector3) {
	o.position = rl.Vector3Add(o.position, delta)
}

func (o *Object) AddForce(force rl.Vector3) {
	if o.body != nil {
		o.body.AddForce(force)
	}
}

func (o *Object) AddVelocity(velocity rl.Vector3) {
	if o.body != nil {
		o.body.AddVelocity(velocity)
	}
}

func (o *Object) AddMomentum(momentum rl.Vector3) {
	if o.body != nil {
		o.body.AddMomentum(momentum)
	}
}

func (o *Object) Stop() {
	if o.body != nil {
		o.body.Stop()
	}
}

// Update integrates the body, if any, and moves the object by the result
func (o *Object) Update(deltaTime float32, gravity rl.Vector3) {
	if o.body == nil {
		return
	}
	o.Translate(o.body.Integrate(deltaTime, gravity))
}

// Center returns the world-space center of the object's shape
func (o *Object) Center() rl.Vector3 {
	switch s := o.shape.(type) {
	case Sphere:
		return rl.Vector3Add(o.position, s.Offset)
	case AABB:
		return rl.Vector3Add(o.position, s.Offset)
	}
	return o.position
}

// planeEquation returns the world-space normal and distance of a plane shape
func (o *Object) planeEquation(p Plane) (rl.Vector3, float32) {
	return p.Normal, p.Distance + rl.Vector3DotProduct(o.position, p.Normal)
}

// Draw hands the object's current geometry to d
func (o *Object) Draw(d engine.Drawer) {
	switch s := o.shape.(type) {
	case Plane:
		// Any point on the plane will do; use the one nearest the owner's position
		d.DrawPlane(rl.Vector3Add(o.position, rl.Vector3Scale(s.Normal, s.Distance)), s.Normal)
	case Sphere:
		d.DrawSphere(o.Center(), s.Radius)
	case AABB:
		d.DrawAABB(o.Center(), s.Extents)
	}
}
