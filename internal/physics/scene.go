package physics

import (
	"log"
	"physics3d/internal/engine"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DefaultDamping is the drag coefficient scenes use unless configured otherwise
const DefaultDamping float32 = 0.5

// BroadPhaseMargin inflates every bounded object before the broad phase runs.
// An object pushed further than this during a frame is tested against every later partner.
const BroadPhaseMargin float32 = 0.05

// Config holds the values a Scene is created with
type Config struct {
	Gravity rl.Vector3
	// Offset is added once to every object created through the Add* factories
	Offset      rl.Vector3
	Damping     float32
	Restitution float32
}

func DefaultConfig() Config {
	return Config{
		Gravity:     engine.DefaultGravity(),
		Damping:     DefaultDamping,
		Restitution: DefaultRestitution,
	}
}

// Scene owns an ordered set of objects and steps them once per frame.
// Objects are only ever appended, so pair order within a frame is stable.
type Scene struct {
	gravity   rl.Vector3
	offset    rl.Vector3
	damping   float32
	collision Collision

	objects []*Object

	broadPhase       BroadPhase
	bounds           []Bounds
	broadPhaseFailed bool
	drifted          []bool
	driftedIdx       []int

	drawer engine.Drawer

	lastContacts int

	// OnContact fires once for every collision resolved during Update
	OnContact engine.EventWithArg[Contact]
}

var _ engine.Scene = (*Scene)(nil)

func NewScene(cfg Config) *Scene {
	return &Scene{
		gravity:   cfg.Gravity,
		offset:    cfg.Offset,
		damping:   cfg.Damping,
		collision: Collision{Restitution: cfg.Restitution},
	}
}

func (s *Scene) Gravity() rl.Vector3 {
	return s.gravity
}

func (s *Scene) SetGravity(gravity rl.Vector3) {
	s.gravity = gravity
}

func (s *Scene) Damping() float32 {
	return s.damping
}

func (s *Scene) SetDamping(damping float32) {
	s.damping = damping
}

func (s *Scene) Offset() rl.Vector3 {
	return s.offset
}

func (s *Scene) Restitution() float32 {
	return s.collision.Restitution
}

// SetBroadPhase installs a broad phase; nil restores the exhaustive sweep
func (s *Scene) SetBroadPhase(bp BroadPhase) {
	s.broadPhase = bp
	s.broadPhaseFailed = false
	if bp == nil {
		log.Printf("Physics: broad phase OFF (%d objects)", len(s.objects))
	} else {
		log.Printf("Physics: broad phase %T ON (%d objects)", bp, len(s.objects))
	}
}

func (s *Scene) SetDrawer(d engine.Drawer) {
	s.drawer = d
}

// Objects returns the live objects in insertion order. The slice must not be modified.
func (s *Scene) Objects() []*Object {
	return s.objects
}

func (s *Scene) Len() int {
	return len(s.objects)
}

// ContactCount returns how many collisions the last Update resolved
func (s *Scene) ContactCount() int {
	return s.lastContacts
}

// AddObject appends an already built object. Its position is used as is.
func (s *Scene) AddObject(o *Object) {
	s.objects = append(s.objects, o)
}

func (s *Scene) add(position rl.Vector3, shape Shape, body *RigidBody) *Object {
	o := NewObject(rl.Vector3Add(position, s.offset), shape, body)
	s.AddObject(o)
	return o
}

func (s *Scene) AddPlaneStatic(normal rl.Vector3, distance float32) {
	s.add(rl.Vector3Zero(), NewPlane(normal, distance), nil)
}

func (s *Scene) AddSphereStatic(position rl.Vector3, radius float32) {
	s.add(position, NewSphere(radius), nil)
}

func (s *Scene) AddAABBStatic(position, extents rl.Vector3) {
	s.add(position, NewAABB(extents), nil)
}

func (s *Scene) AddPlaneDynamic(normal rl.Vector3, distance, mass float32, velocity rl.Vector3) {
	s.add(rl.Vector3Zero(), NewPlane(normal, distance), NewRigidBody(mass, velocity))
}

func (s *Scene) AddSphereDynamic(position rl.Vector3, radius, mass float32, velocity rl.Vector3) {
	s.add(position, NewSphere(radius), NewRigidBody(mass, velocity))
}

func (s *Scene) AddAABBDynamic(position, extents rl.Vector3, mass float32, velocity rl.Vector3) {
	s.add(position, NewAABB(extents), NewRigidBody(mass, velocity))
}

// Update steps the scene by deltaTime seconds:
// damping force, integration, then one sequential sweep over object pairs.
// Each resolved pair is visible to the pairs tested after it.
func (s *Scene) Update(deltaTime float32) {
	// 1. Velocity-proportional drag
	for _, obj := range s.objects {
		if obj.IsStatic() {
			continue
		}
		obj.AddForce(rl.Vector3Scale(obj.Velocity(), -s.damping*deltaTime))
	}

	// 2. Integrate
	for _, obj := range s.objects {
		obj.Update(deltaTime, s.gravity)
	}

	// 3. Collisions
	s.lastContacts = 0
	if pairs, ok := s.candidatePairs(); ok {
		s.sweepCandidates(pairs)
		return
	}

	for i := 0; i < len(s.objects); i++ {
		for j := i + 1; j < len(s.objects); j++ {
			s.collide(s.objects[i], s.objects[j])
		}
	}
}

func (s *Scene) collide(a, b *Object) bool {
	contact, hit := s.collision.Collide(a, b)
	if !hit {
		return false
	}
	s.lastContacts++
	if s.OnContact.HasListeners() {
		s.OnContact.Invoke(contact)
	}
	return true
}

// sweepCandidates visits pairs in the same i<j order as the exhaustive sweep.
// Candidates come from frame-start bounds inflated by BroadPhaseMargin, so a
// pair outside them can only touch once one of its objects has drifted further
// than the margin. Pairs with a drifted object are tested too.
func (s *Scene) sweepCandidates(pairs []Pair) {
	n := len(s.objects)
	s.drifted = s.drifted[:0]
	for i := 0; i < n; i++ {
		s.drifted = append(s.drifted, false)
	}
	s.driftedIdx = s.driftedIdx[:0]

	next := 0
	for i := 0; i < n; i++ {
		start := next
		for next < len(pairs) && pairs[next].A == i {
			next++
		}
		row := pairs[start:next]

		j, k := i+1, 0
		for {
			for k < len(row) && row[k].B < j {
				k++
			}
			if !s.drifted[i] {
				j = s.nextPartner(j, row, k)
			}
			if j >= n {
				break
			}

			candidate := k < len(row) && row[k].B == j
			if candidate || s.mayTouch(i, j) {
				if s.collide(s.objects[i], s.objects[j]) {
					s.markDrift(i)
					s.markDrift(j)
				}
			}
			j++
		}
	}
}

// nextPartner returns the smallest index >= j that is a candidate in row
// (from k on) or has drifted. Returns len(s.objects) if there is none.
func (s *Scene) nextPartner(j int, row []Pair, k int) int {
	best := len(s.objects)
	if k < len(row) {
		best = row[k].B
	}
	if d := sort.SearchInts(s.driftedIdx, j); d < len(s.driftedIdx) && s.driftedIdx[d] < best {
		best = s.driftedIdx[d]
	}
	return best
}

// mayTouch compares current bounding spheres
func (s *Scene) mayTouch(i, j int) bool {
	a := BoundsOf(s.objects[i])
	b := BoundsOf(s.objects[j])
	if a.Unbounded || b.Unbounded {
		return true
	}
	return rl.Vector3Distance(a.Center, b.Center) <= a.Radius+b.Radius+BroadPhaseMargin
}

// markDrift records object i once it has moved further than the margin this frame
func (s *Scene) markDrift(i int) {
	if s.drifted[i] || s.bounds[i].Unbounded {
		return
	}
	if rl.Vector3Distance(s.objects[i].Center(), s.bounds[i].Center) <= BroadPhaseMargin {
		return
	}
	s.drifted[i] = true
	at := sort.SearchInts(s.driftedIdx, i)
	s.driftedIdx = append(s.driftedIdx, 0)
	copy(s.driftedIdx[at+1:], s.driftedIdx[at:])
	s.driftedIdx[at] = i
}

// candidatePairs asks the broad phase for pairs in sweep order.
// ok is false when there is no broad phase or it failed.
func (s *Scene) candidatePairs() ([]Pair, bool) {
	if s.broadPhase == nil {
		return nil, false
	}

	s.bounds = s.bounds[:0]
	for _, obj := range s.objects {
		b := BoundsOf(obj)
		if !b.Unbounded {
			b.Radius += BroadPhaseMargin
		}
		s.bounds = append(s.bounds, b)
	}

	pairs, err := s.broadPhase.Pairs(s.bounds)
	if err != nil {
		if !s.broadPhaseFailed {
			s.broadPhaseFailed = true
			log.Printf("Physics: broad phase failed, falling back to all pairs: %v", err)
		}
		return nil, false
	}
	if s.broadPhaseFailed {
		s.broadPhaseFailed = false
		log.Printf("Physics: broad phase recovered (%d objects)", len(s.objects))
	}

	// Drop anything malformed rather than index out of range
	valid := pairs[:0]
	for _, p := range pairs {
		if p.A >= 0 && p.A < p.B && p.B < len(s.objects) {
			valid = append(valid, p)
		}
	}
	sortPairs(valid)
	return valid, true
}

// Draw hands every object to the drawer in insertion order
func (s *Scene) Draw() {
	if s.drawer == nil {
		return
	}
	for _, obj := range s.objects {
		obj.Draw(s.drawer)
	}
}
