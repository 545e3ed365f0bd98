// Package cpscene runs the engine.Scene contract on the Chipmunk2D port.
// Objects live in the XY plane; Z is carried through untouched for drawing.
package cpscene

import (
	"log"
	"physics3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jakecoffman/cp"
)

// planeHalfLength is how far a plane's segment reaches either side of its origin
const planeHalfLength = 10000

// planeThickness is the segment radius used for planes; the segment sits behind the surface
const planeThickness = 1

type Config struct {
	Gravity    rl.Vector3
	Offset     rl.Vector3
	Elasticity float64
	Friction   float64
	Iterations uint
}

func DefaultConfig() Config {
	return Config{
		Gravity:    engine.DefaultGravity(),
		Elasticity: 0.9,
		Iterations: 10,
	}
}

type kind int

const (
	kindPlane kind = iota
	kindSphere
	kindBox
)

type object struct {
	kind  kind
	body  *cp.Body // nil for static shapes
	shape *cp.Shape

	// Static placement, or the initial one for bodies
	center  rl.Vector3
	radius  float32
	extents rl.Vector3
	normal  rl.Vector3
}

// Scene is an engine.Scene backed by a cp.Space
type Scene struct {
	space      *cp.Space
	offset     rl.Vector3
	elasticity float64
	friction   float64

	objects []*object
	drawer  engine.Drawer

	warnedDynamicPlane bool
	warnedFlatPlane    bool
}

var _ engine.Scene = (*Scene)(nil)

func NewScene(cfg Config) *Scene {
	space := cp.NewSpace()
	space.SetGravity(toVector(cfg.Gravity))
	if cfg.Iterations > 0 {
		space.Iterations = cfg.Iterations
	}
	return &Scene{
		space:      space,
		offset:     cfg.Offset,
		elasticity: cfg.Elasticity,
		friction:   cfg.Friction,
	}
}

func toVector(v rl.Vector3) cp.Vector {
	return cp.Vector{X: float64(v.X), Y: float64(v.Y)}
}

func (s *Scene) Len() int {
	return len(s.objects)
}

// Position returns the current world position of object i
func (s *Scene) Position(i int) rl.Vector3 {
	return s.objects[i].position()
}

// Velocity returns the current velocity of object i; static objects report zero
func (s *Scene) Velocity(i int) rl.Vector3 {
	o := s.objects[i]
	if o.body == nil {
		return rl.Vector3Zero()
	}
	v := o.body.Velocity()
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y)}
}

func (o *object) position() rl.Vector3 {
	if o.body == nil {
		return o.center
	}
	p := o.body.Position()
	return rl.Vector3{X: float32(p.X), Y: float32(p.Y), Z: o.center.Z}
}

// SetGravity changes gravity for every body; the Z component is ignored
func (s *Scene) SetGravity(gravity rl.Vector3) {
	s.space.SetGravity(toVector(gravity))
}

func (s *Scene) SetDrawer(d engine.Drawer) {
	s.drawer = d
}

func (s *Scene) Update(deltaTime float32) {
	if deltaTime <= 0 {
		return
	}
	s.space.Step(float64(deltaTime))
}

func (s *Scene) Draw() {
	if s.drawer == nil {
		return
	}
	for _, o := range s.objects {
		switch o.kind {
		case kindPlane:
			s.drawer.DrawPlane(o.center, o.normal)
		case kindSphere:
			s.drawer.DrawSphere(o.position(), o.radius)
		case kindBox:
			s.drawer.DrawAABB(o.position(), o.extents)
		}
	}
}

func (s *Scene) finishShape(shape *cp.Shape) *cp.Shape {
	shape.SetElasticity(s.elasticity)
	shape.SetFriction(s.friction)
	return s.space.AddShape(shape)
}

// newBody creates a body that never rotates, matching the engine's point-mass model
func (s *Scene) newBody(position rl.Vector3, mass float32, velocity rl.Vector3) *cp.Body {
	body := s.space.AddBody(cp.NewBody(float64(mass), cp.INFINITY))
	body.SetPosition(toVector(position))
	body.SetVelocityVector(toVector(velocity))
	return body
}

func (s *Scene) AddPlaneStatic(normal rl.Vector3, distance float32) {
	// Only the XY part of the normal exists in this scene
	flat := rl.Vector3{X: normal.X, Y: normal.Y}
	length := rl.Vector3Length(flat)
	if length < 1e-6 {
		if !s.warnedFlatPlane {
			s.warnedFlatPlane = true
			log.Printf("CP: plane with normal %v has no XY component, skipped", normal)
		}
		return
	}
	n := rl.Vector3Scale(flat, 1/length)
	origin := rl.Vector3Add(s.offset, rl.Vector3Scale(n, distance))

	// Push the segment back so its front face lies on the plane
	center := rl.Vector3Subtract(origin, rl.Vector3Scale(n, planeThickness))
	along := rl.Vector3{X: -n.Y, Y: n.X}
	a := rl.Vector3Add(center, rl.Vector3Scale(along, planeHalfLength))
	b := rl.Vector3Subtract(center, rl.Vector3Scale(along, planeHalfLength))

	shape := s.finishShape(cp.NewSegment(s.space.StaticBody, toVector(a), toVector(b), planeThickness))
	s.objects = append(s.objects, &object{kind: kindPlane, shape: shape, center: origin, normal: n})
}

func (s *Scene) AddSphereStatic(position rl.Vector3, radius float32) {
	center := rl.Vector3Add(position, s.offset)
	shape := s.finishShape(cp.NewCircle(s.space.StaticBody, float64(radius), toVector(center)))
	s.objects = append(s.objects, &object{kind: kindSphere, shape: shape, center: center, radius: radius})
}

func (s *Scene) AddAABBStatic(position, extents rl.Vector3) {
	center := rl.Vector3Add(position, s.offset)
	bb := cp.BB{
		L: float64(center.X - extents.X),
		B: float64(center.Y - extents.Y),
		R: float64(center.X + extents.X),
		T: float64(center.Y + extents.Y),
	}
	shape := s.finishShape(cp.NewBox2(s.space.StaticBody, bb, 0))
	s.objects = append(s.objects, &object{kind: kindBox, shape: shape, center: center, extents: extents})
}

// AddPlaneDynamic adds a static plane; cp has no moving half-spaces
func (s *Scene) AddPlaneDynamic(normal rl.Vector3, distance, mass float32, velocity rl.Vector3) {
	if !s.warnedDynamicPlane {
		s.warnedDynamicPlane = true
		log.Printf("CP: dynamic planes are not supported, adding as static")
	}
	s.AddPlaneStatic(normal, distance)
}

func (s *Scene) AddSphereDynamic(position rl.Vector3, radius, mass float32, velocity rl.Vector3) {
	center := rl.Vector3Add(position, s.offset)
	body := s.newBody(center, mass, velocity)
	shape := s.finishShape(cp.NewCircle(body, float64(radius), cp.Vector{}))
	s.objects = append(s.objects, &object{kind: kindSphere, body: body, shape: shape, center: center, radius: radius})
}

func (s *Scene) AddAABBDynamic(position, extents rl.Vector3, mass float32, velocity rl.Vector3) {
	center := rl.Vector3Add(position, s.offset)
	body := s.newBody(center, mass, velocity)
	shape := s.finishShape(cp.NewBox(body, float64(2*extents.X), float64(2*extents.Y), 0))
	s.objects = append(s.objects, &object{kind: kindBox, body: body, shape: shape, center: center, extents: extents})
}
