// Package render draws scenes with raylib debug primitives.
package render

import (
	"physics3d/internal/engine"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// PlaneHalfSize is how far a plane quad reaches from its origin
const PlaneHalfSize = 25

// Renderer implements engine.Drawer. Must be used between rl.BeginMode3D and rl.EndMode3D.
type Renderer struct {
	PlaneColor  rl.Color
	SphereColor rl.Color
	AABBColor   rl.Color
	WireColor   rl.Color
	Wires       bool

	// Tint, when set, replaces the fill colors so two scenes can be told apart
	Tint *rl.Color

	drawn int
}

var _ engine.Drawer = (*Renderer)(nil)

func New() *Renderer {
	return &Renderer{
		PlaneColor:  rl.NewColor(80, 80, 80, 255),
		SphereColor: rl.Red,
		AABBColor:   rl.SkyBlue,
		WireColor:   rl.DarkGray,
		Wires:       true,
	}
}

func (r *Renderer) fill(c rl.Color) rl.Color {
	if r.Tint != nil {
		return *r.Tint
	}
	return c
}

// BeginFrame resets the per-frame primitive count
func (r *Renderer) BeginFrame() {
	r.drawn = 0
}

// Drawn returns how many primitives were drawn since BeginFrame
func (r *Renderer) Drawn() int {
	return r.drawn
}

func (r *Renderer) DrawPlane(origin, normal rl.Vector3) {
	corners := PlaneQuad(origin, normal, PlaneHalfSize)
	c := r.PlaneColor

	// Both windings so the plane is visible from either side
	rl.DrawTriangle3D(corners[0], corners[1], corners[2], c)
	rl.DrawTriangle3D(corners[0], corners[2], corners[3], c)
	rl.DrawTriangle3D(corners[2], corners[1], corners[0], c)
	rl.DrawTriangle3D(corners[3], corners[2], corners[0], c)

	if r.Wires {
		for i := range corners {
			rl.DrawLine3D(corners[i], corners[(i+1)%4], r.WireColor)
		}
		rl.DrawLine3D(origin, rl.Vector3Add(origin, normal), rl.Yellow)
	}
	r.drawn++
}

func (r *Renderer) DrawSphere(center rl.Vector3, radius float32) {
	rl.DrawSphere(center, radius, r.fill(r.SphereColor))
	if r.Wires {
		rl.DrawSphereWires(center, radius, 8, 8, r.WireColor)
	}
	r.drawn++
}

func (r *Renderer) DrawAABB(center, extents rl.Vector3) {
	w, h, l := extents.X*2, extents.Y*2, extents.Z*2
	rl.DrawCube(center, w, h, l, r.fill(r.AABBColor))
	if r.Wires {
		rl.DrawCubeWires(center, w, h, l, r.WireColor)
	}
	r.drawn++
}

// PlaneBasis returns two unit vectors spanning the plane with the given normal.
// The normal is assumed to be unit length.
func PlaneBasis(normal rl.Vector3) (u, v rl.Vector3) {
	// Cross with the world axis least aligned with the normal
	axis := rl.Vector3{X: 1}
	if math32.Abs(normal.X) > 0.9 {
		axis = rl.Vector3{Y: 1}
	}
	u = rl.Vector3Normalize(rl.Vector3CrossProduct(normal, axis))
	v = rl.Vector3CrossProduct(normal, u)
	return u, v
}

// PlaneQuad returns the four corners of a square patch of the plane around origin
func PlaneQuad(origin, normal rl.Vector3, halfSize float32) [4]rl.Vector3 {
	u, v := PlaneBasis(normal)
	u = rl.Vector3Scale(u, halfSize)
	v = rl.Vector3Scale(v, halfSize)

	return [4]rl.Vector3{
		rl.Vector3Add(rl.Vector3Add(origin, u), v),
		rl.Vector3Add(rl.Vector3Subtract(origin, u), v),
		rl.Vector3Subtract(rl.Vector3Subtract(origin, u), v),
		rl.Vector3Subtract(rl.Vector3Add(origin, u), v),
	}
}

// DrawGrid draws the reference floor grid around center, slices lines one unit apart
func DrawGrid(center rl.Vector3, slices int) {
	half := float32(slices) / 2
	for i := 0; i <= slices; i++ {
		offset := float32(i) - half
		c := rl.Black
		if i == slices/2 {
			c = rl.White
		}
		rl.DrawLine3D(
			rl.Vector3{X: center.X + offset, Y: center.Y - 0.01, Z: center.Z - half},
			rl.Vector3{X: center.X + offset, Y: center.Y - 0.01, Z: center.Z + half}, c)
		rl.DrawLine3D(
			rl.Vector3{X: center.X - half, Y: center.Y - 0.01, Z: center.Z + offset},
			rl.Vector3{X: center.X + half, Y: center.Y - 0.01, Z: center.Z + offset}, c)
	}
}
