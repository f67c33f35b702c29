package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// triangleEpsilon rejects rays that are (nearly) parallel to a triangle's plane.
const triangleEpsilon = 1e-9

// Ray is a half-line starting at Origin. Direction does not need to be normalized, but Hit.Distance
// is expressed in multiples of its length.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit describes the nearest intersection of a ray with a SourceMesh.
type Hit struct {
	// Point is the intersection point in mesh space.
	Point mgl32.Vec3
	// Distance is the ray parameter of the intersection.
	Distance float32
	// Triangle is the index of the triangle that was hit.
	Triangle int
}

// IntersectTriangle runs the Möller–Trumbore test against triangle (a, b, c).
// Both faces are hit.
//
// Parameters:
//   - r: the ray
//   - a, b, c: the triangle corners
//
// Returns:
//   - float32: the ray parameter of the hit
//   - bool: true when the ray hits the triangle in front of its origin
func IntersectTriangle(r Ray, a, b, c mgl32.Vec3) (float32, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < triangleEpsilon {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Raycast returns the nearest intersection of r with the mesh surface.
// The bounding box is tested first so rays that miss the whole mesh cost one slab test.
//
// Parameters:
//   - r: the ray in mesh space
//
// Returns:
//   - Hit: the nearest hit, valid only when ok is true
//   - bool: true if any triangle was hit
func (m *SourceMesh) Raycast(r Ray) (Hit, bool) {
	if !m.bounds.IntersectRay(r) {
		return Hit{}, false
	}
	best := Hit{Distance: math32.Inf(1), Triangle: -1}
	for i, n := 0, m.TriangleCount(); i < n; i++ {
		a, b, c := m.Triangle(i)
		if t, ok := IntersectTriangle(r, a, b, c); ok && t < best.Distance {
			best.Distance = t
			best.Triangle = i
		}
	}
	if best.Triangle < 0 {
		return Hit{}, false
	}
	best.Point = r.At(best.Distance)
	return best, true
}
