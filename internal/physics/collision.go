package physics

import (
	"fmt"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// DefaultRestitution is the coefficient of restitution used unless a scene overrides it
const DefaultRestitution float32 = 0.9

// Contact describes one resolved collision.
// Normal points from A to B; A and B are in the order the response was applied.
type Contact struct {
	A, B   *Object
	Normal rl.Vector3
	Depth  float32
	// RelativeSpeed is |(vB - vA) . Normal| before the impulse was applied
	RelativeSpeed float32
}

// pairTest checks two objects for overlap and returns the contact to resolve
type pairTest func(a, b *Object) (Contact, bool)

// pairTests is indexed by tagA*ShapeTagCount + tagB
var pairTests = buildPairTests()

// pairTestFor lists every ordered shape pair. Reversed pairs reuse the forward test.
// A nil entry means the pair is not supported and never collides.
func pairTestFor(a, b ShapeTag) pairTest {
	switch a {
	case TagPlane:
		switch b {
		case TagPlane:
			return nil
		case TagSphere:
			return planeToSphere
		case TagAABB:
			return planeToAABB
		}
	case TagSphere:
		switch b {
		case TagPlane:
			return swapped(planeToSphere)
		case TagSphere:
			return sphereToSphere
		case TagAABB:
			return sphereToAABB
		}
	case TagAABB:
		switch b {
		case TagPlane:
			return swapped(planeToAABB)
		case TagSphere:
			return swapped(sphereToAABB)
		case TagAABB:
			return aabbToAABB
		}
	}
	panic(fmt.Sprintf("physics: no collision entry for %v-%v", a, b))
}

func buildPairTests() [ShapeTagCount * ShapeTagCount]pairTest {
	var table [ShapeTagCount * ShapeTagCount]pairTest
	for a := 0; a < ShapeTagCount; a++ {
		for b := 0; b < ShapeTagCount; b++ {
			table[a*ShapeTagCount+b] = pairTestFor(ShapeTag(a), ShapeTag(b))
		}
	}

	// Both orderings of a pair must agree on whether the pair is supported
	for a := 0; a < ShapeTagCount; a++ {
		for b := a + 1; b < ShapeTagCount; b++ {
			if (table[a*ShapeTagCount+b] == nil) != (table[b*ShapeTagCount+a] == nil) {
				panic(fmt.Sprintf("physics: collision table asymmetric for %v-%v", ShapeTag(a), ShapeTag(b)))
			}
		}
	}
	return table
}

func swapped(test pairTest) pairTest {
	return func(a, b *Object) (Contact, bool) {
		return test(b, a)
	}
}

func lookupPairTest(a, b ShapeTag) pairTest {
	index := int(a)*ShapeTagCount + int(b)
	if int(a) >= ShapeTagCount || int(b) >= ShapeTagCount || index >= len(pairTests) {
		panic(fmt.Sprintf("physics: shape tags %v-%v outside collision table", a, b))
	}
	return pairTests[index]
}

// Collision resolves overlapping objects with a fixed coefficient of restitution
type Collision struct {
	Restitution float32
}

var defaultCollision = Collision{Restitution: DefaultRestitution}

// Detect tests a against b and resolves any overlap using DefaultRestitution.
// Returns true if a collision was found and resolved.
func Detect(a, b *Object) bool {
	return defaultCollision.Detect(a, b)
}

// Collide is Detect that also reports the resolved contact
func Collide(a, b *Object) (Contact, bool) {
	return defaultCollision.Collide(a, b)
}

// Resolve separates and impulses two objects using DefaultRestitution
func Resolve(a, b *Object, depth float32, normal rl.Vector3) {
	defaultCollision.Resolve(a, b, depth, normal)
}

func (c Collision) Detect(a, b *Object) bool {
	_, hit := c.Collide(a, b)
	return hit
}

func (c Collision) Collide(a, b *Object) (Contact, bool) {
	test := lookupPairTest(a.shape.Tag(), b.shape.Tag())
	if test == nil {
		return Contact{}, false
	}

	contact, hit := test(a, b)
	if !hit {
		return Contact{}, false
	}

	relative := rl.Vector3Subtract(contact.B.Velocity(), contact.A.Velocity())
	contact.RelativeSpeed = math32.Abs(rl.Vector3DotProduct(relative, contact.Normal))

	c.Resolve(contact.A, contact.B, contact.Depth, contact.Normal)
	return contact, true
}

// Resolve pushes a and b apart along normal by depth and applies the bounce impulse.
// The push is split by inverse mass so static objects never move.
// Each object's impulse is computed from its own momentum along the normal.
func (c Collision) Resolve(a, b *Object, depth float32, normal rl.Vector3) {
	invA := a.InverseMass()
	invB := b.InverseMass()

	if invSum := invA + invB; invSum > 0 {
		separation := rl.Vector3Scale(normal, depth)
		if invA > 0 {
			a.Translate(rl.Vector3Scale(separation, -invA/invSum))
		}
		if invB > 0 {
			b.Translate(rl.Vector3Scale(separation, invB/invSum))
		}
	}

	impulseA := -(1 + c.Restitution) * rl.Vector3DotProduct(a.Momentum(), normal)
	impulseB := -(1 + c.Restitution) * rl.Vector3DotProduct(b.Momentum(), normal)

	a.AddMomentum(rl.Vector3Scale(normal, impulseA))
	b.AddMomentum(rl.Vector3Scale(normal, impulseB))
}

// ---- Plane collisions ----

func planeToSphere(planeObj, sphereObj *Object) (Contact, bool) {
	plane := planeObj.shape.(Plane)
	sphere := sphereObj.shape.(Sphere)

	normal, distance := planeObj.planeEquation(plane)

	// Where the sphere center sits along the plane normal
	along := rl.Vector3DotProduct(sphereObj.Center(), normal)

	overlap := along - (distance + sphere.Radius)
	if overlap < 0 {
		return Contact{A: planeObj, B: sphereObj, Normal: normal, Depth: -overlap}, true
	}
	return Contact{}, false
}

func planeToAABB(planeObj, boxObj *Object) (Contact, bool) {
	plane := planeObj.shape.(Plane)
	box := boxObj.shape.(AABB)

	normal, distance := planeObj.planeEquation(plane)

	// Signed distance of the box corner nearest the plane
	reach := rl.Vector3DotProduct(absVector(normal), box.Extents)
	nearest := rl.Vector3DotProduct(boxObj.Center(), normal) - reach - distance

	if nearest < 0 {
		return Contact{A: planeObj, B: boxObj, Normal: normal, Depth: -nearest}, true
	}
	return Contact{}, false
}

// ---- Sphere collisions ----

func sphereToSphere(a, b *Object) (Contact, bool) {
	sphereA := a.shape.(Sphere)
	sphereB := b.shape.(Sphere)

	direction := rl.Vector3Subtract(b.Center(), a.Center())
	centerDistance := rl.Vector3Length(direction)

	overlap := centerDistance - (sphereA.Radius + sphereB.Radius)
	if overlap < 0 {
		return Contact{A: a, B: b, Normal: normalizeOr(direction, fallbackAxis), Depth: -overlap}, true
	}
	return Contact{}, false
}

// sphereToAABB reports the box as A and the sphere as B whatever the argument order.
// The normal runs from the closest box point to the sphere center.
func sphereToAABB(sphereObj, boxObj *Object) (Contact, bool) {
	sphere := sphereObj.shape.(Sphere)
	box := boxObj.shape.(AABB)

	relative := rl.Vector3Subtract(sphereObj.Center(), boxObj.Center())
	closest := clampVector(relative, box.Extents)
	toCenter := rl.Vector3Subtract(relative, closest)

	overlap := rl.Vector3Length(toCenter) - sphere.Radius
	if overlap < 0 {
		return Contact{A: boxObj, B: sphereObj, Normal: normalizeOr(toCenter, fallbackAxis), Depth: -overlap}, true
	}
	return Contact{}, false
}

// ---- AABB collisions ----

func aabbToAABB(a, b *Object) (Contact, bool) {
	boxA := a.shape.(AABB)
	boxB := b.shape.(AABB)

	delta := rl.Vector3Subtract(b.Center(), a.Center())
	combined := rl.Vector3Add(boxA.Extents, boxB.Extents)
	overlap := rl.Vector3Subtract(absVector(delta), combined)

	if overlap.X > 0 || overlap.Y > 0 || overlap.Z > 0 {
		return Contact{}, false
	}

	// Least penetration wins; Y and Z only compete when actually penetrating
	minOverlap := overlap.X
	if overlap.Y < 0 {
		minOverlap = math32.Max(minOverlap, overlap.Y)
	}
	if overlap.Z < 0 {
		minOverlap = math32.Max(minOverlap, overlap.Z)
	}

	var normal rl.Vector3
	switch minOverlap {
	case overlap.X:
		normal.X = signOf(delta.X)
	case overlap.Y:
		normal.Y = signOf(delta.Y)
	default:
		normal.Z = signOf(delta.Z)
	}

	return Contact{A: a, B: b, Normal: normal, Depth: -minOverlap}, true
}
