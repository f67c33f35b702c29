package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box. An empty box has Min > Max on every axis.
type AABB struct {
	Min, Max mgl32.Vec3
}

// BoundsOf returns the smallest box containing every point.
// An empty input yields an empty box that no ray intersects.
func BoundsOf(points []mgl32.Vec3) AABB {
	inf := math32.Inf(1)
	b := AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
	for _, p := range points {
		for k := 0; k < 3; k++ {
			b.Min[k] = math32.Min(b.Min[k], p[k])
			b.Max[k] = math32.Max(b.Max[k], p[k])
		}
	}
	return b
}

// Empty reports whether the box contains no points.
func (b AABB) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// IntersectRay tests the ray against the box using the slab method.
//
// Parameters:
//   - r: the ray to test
//
// Returns:
//   - bool: true if the ray enters the box at a non-negative distance or starts inside it
func (b AABB) IntersectRay(r Ray) bool {
	if b.Empty() {
		return false
	}
	tMin := float32(0)
	tMax := math32.Inf(1)
	for k := 0; k < 3; k++ {
		d := r.Direction[k]
		if math32.Abs(d) < 1e-12 {
			if r.Origin[k] < b.Min[k] || r.Origin[k] > b.Max[k] {
				return false
			}
			continue
		}
		inv := 1 / d
		t0 := (b.Min[k] - r.Origin[k]) * inv
		t1 := (b.Max[k] - r.Origin[k]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = math32.Max(tMin, t0)
		tMax = math32.Min(tMax, t1)
		if tMin > tMax {
			return false
		}
	}
	return true
}
