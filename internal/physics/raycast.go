package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type RaycastHit struct {
	Object   *Object
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
}

// Raycast checks every object in the scene and returns the closest hit within maxDistance
func (s *Scene) Raycast(origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	direction = normalizeOr(direction, rl.Vector3Zero())
	if direction == rl.Vector3Zero() {
		return RaycastHit{}, false
	}

	var closestHit RaycastHit
	closestHit.Distance = maxDistance
	hit := false

	for _, obj := range s.objects {
		hitInfo, ok := RaycastObject(obj, origin, direction, maxDistance)
		if ok && hitInfo.Distance < closestHit.Distance {
			closestHit = hitInfo
			hit = true
		}
	}

	return closestHit, hit
}

// RaycastObject intersects a ray with a single object. direction must be unit length.
func RaycastObject(obj *Object, origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	var (
		hitInfo RaycastHit
		ok      bool
	)
	switch s := obj.shape.(type) {
	case Plane:
		normal, distance := obj.planeEquation(s)
		hitInfo, ok = raycastPlane(origin, direction, normal, distance, maxDistance)
	case Sphere:
		hitInfo, ok = raycastSphere(origin, direction, obj.Center(), s.Radius, maxDistance)
	case AABB:
		hitInfo, ok = raycastBox(origin, direction, obj.Center(), s.Extents, maxDistance)
	}
	hitInfo.Object = obj
	return hitInfo, ok
}

func raycastPlane(origin, direction, normal rl.Vector3, distance, maxDistance float32) (RaycastHit, bool) {
	denom := rl.Vector3DotProduct(direction, normal)
	if math32.Abs(denom) < normalEpsilon {
		return RaycastHit{}, false
	}

	t := (distance - rl.Vector3DotProduct(origin, normal)) / denom
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	// Report the face the ray came from
	if denom > 0 {
		normal = rl.Vector3Negate(normal)
	}
	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}

// slab narrows [tmin, tmax] to where the ray is inside one axis slab
func slab(origin, direction, min, max float32, tmin, tmax *float32) bool {
	if direction == 0 {
		return origin >= min && origin <= max
	}
	t1 := (min - origin) / direction
	t2 := (max - origin) / direction
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > *tmin {
		*tmin = t1
	}
	if t2 < *tmax {
		*tmax = t2
	}
	return *tmin <= *tmax
}

func raycastBox(origin, direction, center, extents rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	min := rl.Vector3Subtract(center, extents)
	max := rl.Vector3Add(center, extents)

	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	if !slab(origin.X, direction.X, min.X, max.X, &tmin, &tmax) ||
		!slab(origin.Y, direction.Y, min.Y, max.Y, &tmin, &tmax) ||
		!slab(origin.Z, direction.Z, min.Z, max.Z, &tmin, &tmax) {
		return RaycastHit{}, false
	}

	if tmax < 0 || tmin > maxDistance {
		return RaycastHit{}, false
	}

	t := tmin
	if t < 0 {
		t = tmax
	}
	if t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))

	// Face normal: the axis where the hit point sits closest to a face
	local := rl.Vector3Subtract(point, center)
	var normal rl.Vector3
	best := float32(math32.MaxFloat32)
	for axis, gap := range [3]float32{
		extents.X - math32.Abs(local.X),
		extents.Y - math32.Abs(local.Y),
		extents.Z - math32.Abs(local.Z),
	} {
		if gap >= best {
			continue
		}
		best = gap
		switch axis {
		case 0:
			normal = rl.Vector3{X: signOf(local.X)}
		case 1:
			normal = rl.Vector3{Y: signOf(local.Y)}
		case 2:
			normal = rl.Vector3{Z: signOf(local.Z)}
		}
	}

	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}

func raycastSphere(origin, direction, center rl.Vector3, radius, maxDistance float32) (RaycastHit, bool) {
	oc := rl.Vector3Subtract(origin, center)
	a := rl.Vector3DotProduct(direction, direction)
	b := 2.0 * rl.Vector3DotProduct(oc, direction)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return RaycastHit{}, false
	}

	root := math32.Sqrt(discriminant)
	t := (-b - root) / (2 * a)
	if t < 0 {
		t = (-b + root) / (2 * a)
	}
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := normalizeOr(rl.Vector3Subtract(point, center), fallbackAxis)

	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}
