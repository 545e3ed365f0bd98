package physics

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ShapeTag identifies a shape kind in the collision dispatch table.
// Tags are dense and start at 0 so a pair of tags maps to a single table index.
type ShapeTag uint8

const (
	TagPlane ShapeTag = iota
	TagSphere
	TagAABB

	ShapeTagCount = int(iota)
)

func (t ShapeTag) String() string {
	switch t {
	case TagPlane:
		return "Plane"
	case TagSphere:
		return "Sphere"
	case TagAABB:
		return "AABB"
	}
	return fmt.Sprintf("ShapeTag(%d)", uint8(t))
}

// Shape is the closed set of collidable primitives: Plane, Sphere and AABB.
// Shapes are plain values; an Object owns its shape and never changes it.
type Shape interface {
	Tag() ShapeTag
	sealed()
}

// Plane is an infinite plane dot(x, Normal) = Distance, relative to its owner's position.
// Normal must be unit length.
type Plane struct {
	Normal   rl.Vector3
	Distance float32
}

// Sphere is a ball of Radius centered at the owner's position plus Offset.
type Sphere struct {
	Radius float32
	Offset rl.Vector3
}

// AABB is an axis-aligned box. Extents are half sizes along X, Y and Z.
type AABB struct {
	Extents rl.Vector3
	Offset  rl.Vector3
}

func (Plane) Tag() ShapeTag  { return TagPlane }
func (Sphere) Tag() ShapeTag { return TagSphere }
func (AABB) Tag() ShapeTag   { return TagAABB }

func (Plane) sealed()  {}
func (Sphere) sealed() {}
func (AABB) sealed()   {}

// NewPlane builds a plane, normalizing the given normal.
// A zero normal falls back to world up.
func NewPlane(normal rl.Vector3, distance float32) Plane {
	return Plane{Normal: normalizeOr(normal, fallbackAxis), Distance: distance}
}

func NewSphere(radius float32) Sphere {
	return Sphere{Radius: radius}
}

func NewAABB(extents rl.Vector3) AABB {
	return AABB{Extents: extents}
}

// Min returns the box's minimum corner for a box centered at center
func (b AABB) Min(center rl.Vector3) rl.Vector3 {
	return rl.Vector3Subtract(center, b.Extents)
}

// Max returns the box's maximum corner for a box centered at center
func (b AABB) Max(center rl.Vector3) rl.Vector3 {
	return rl.Vector3Add(center, b.Extents)
}
