// Package mesh holds the CPU-side geometry used by the brain sketch: the immutable SourceMesh
// read from the model file, the small per-instance geometries (cone, icosahedron, tetrahedron)
// and ray intersection against the source surface.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrIndexCount is returned when an index list is not a whole number of triangles.
	ErrIndexCount = errors.New("index count is not a multiple of 3")

	// ErrIndexRange is returned when an index refers past the end of the position list.
	ErrIndexRange = errors.New("index out of range")
)

// SourceMesh is the loaded surface the particle field is built from and the surface the pointer is
// tested against. It is immutable after construction; callers must not modify the returned slices.
type SourceMesh struct {
	name      string
	positions []mgl32.Vec3
	indices   []uint32
	bounds    AABB
}

// NewSourceMesh validates the index list and computes the bounds of a mesh.
// A nil index list means consecutive position triples form triangles; a trailing partial
// triple is ignored for hit-testing but still contributes vertices.
//
// Parameters:
//   - name: a display name, usually the glTF mesh name
//   - positions: vertex positions in mesh space
//   - indices: optional triangle indices into positions
//
// Returns:
//   - *SourceMesh: the mesh
//   - error: ErrIndexCount or ErrIndexRange when the index list is malformed
func NewSourceMesh(name string, positions []mgl32.Vec3, indices []uint32) (*SourceMesh, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("mesh %q: %w (%d)", name, ErrIndexCount, len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= len(positions) {
			return nil, fmt.Errorf("mesh %q: %w: indices[%d]=%d, %d vertices", name, ErrIndexRange, i, idx, len(positions))
		}
	}
	return &SourceMesh{
		name:      name,
		positions: positions,
		indices:   indices,
		bounds:    BoundsOf(positions),
	}, nil
}

// Name returns the mesh name.
func (m *SourceMesh) Name() string {
	return m.name
}

// VertexCount returns the number of vertex positions.
func (m *SourceMesh) VertexCount() int {
	return len(m.positions)
}

// Positions returns the vertex positions in file order.
func (m *SourceMesh) Positions() []mgl32.Vec3 {
	return m.positions
}

// Indices returns the triangle index list, or nil for a non-indexed mesh.
func (m *SourceMesh) Indices() []uint32 {
	return m.indices
}

// Bounds returns the axis-aligned bounding box of all positions.
func (m *SourceMesh) Bounds() AABB {
	return m.bounds
}

// TriangleCount returns the number of triangles available for hit-testing.
func (m *SourceMesh) TriangleCount() int {
	if m.indices != nil {
		return len(m.indices) / 3
	}
	return len(m.positions) / 3
}

// Triangle returns the three corners of triangle i.
//
// Parameters:
//   - i: triangle index in [0, TriangleCount())
//
// Returns:
//   - a, b, c: the triangle corners
func (m *SourceMesh) Triangle(i int) (a, b, c mgl32.Vec3) {
	if m.indices != nil {
		return m.positions[m.indices[3*i]], m.positions[m.indices[3*i+1]], m.positions[m.indices[3*i+2]]
	}
	return m.positions[3*i], m.positions[3*i+1], m.positions[3*i+2]
}
