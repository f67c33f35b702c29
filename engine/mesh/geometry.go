package mesh

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// GeometryKind names one of the small shapes drawn at every particle.
type GeometryKind string

const (
	GeometryCone        GeometryKind = "cone"
	GeometryIcosahedron GeometryKind = "icosahedron"
	GeometryTetrahedron GeometryKind = "tetrahedron"
)

// Vertex is the GPU vertex layout of an instance geometry. 24 bytes, matching the
// VertexInput struct of the brain shader.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// InstanceGeometry is the fixed shape repeated at every particle. Triangles drives the filled
// pipeline and Edges (unique, undirected, two indices per line) drives the wireframe pipeline.
type InstanceGeometry struct {
	Kind      GeometryKind
	Vertices  []Vertex
	Triangles []uint32
	Edges     []uint32
}

// GeometrySpec selects and sizes an instance geometry.
type GeometrySpec struct {
	Kind GeometryKind
	// Radius is the base radius of a cone or the circumradius of the polyhedra.
	Radius float32
	// Height is the cone height; ignored for polyhedra.
	Height float32
	// Segments is the cone's radial segment count; ignored for polyhedra.
	Segments int
	// Detail is the icosahedron subdivision level; ignored otherwise.
	Detail int
}

// NewGeometry builds the geometry described by spec.
//
// Parameters:
//   - spec: the kind and dimensions of the geometry
//
// Returns:
//   - *InstanceGeometry: the generated geometry
//   - error: error if the kind is unknown or a dimension is invalid
func NewGeometry(spec GeometrySpec) (*InstanceGeometry, error) {
	if spec.Radius <= 0 {
		return nil, fmt.Errorf("geometry %q: radius must be positive, got %v", spec.Kind, spec.Radius)
	}
	switch spec.Kind {
	case GeometryCone:
		if spec.Height <= 0 || spec.Segments < 3 {
			return nil, fmt.Errorf("cone: need height > 0 and at least 3 segments, got %v and %d", spec.Height, spec.Segments)
		}
		return Cone(spec.Radius, spec.Height, spec.Segments), nil
	case GeometryIcosahedron:
		if spec.Detail < 0 {
			return nil, fmt.Errorf("icosahedron: detail must be >= 0, got %d", spec.Detail)
		}
		return Icosahedron(spec.Radius, spec.Detail), nil
	case GeometryTetrahedron:
		return Tetrahedron(spec.Radius), nil
	default:
		return nil, fmt.Errorf("unknown geometry kind %q", spec.Kind)
	}
}

// Cone builds a closed cone centred on the origin with its apex on +Y.
//
// Parameters:
//   - radius: base radius
//   - height: apex-to-base height
//   - segments: number of radial segments
//
// Returns:
//   - *InstanceGeometry: the cone
func Cone(radius, height float32, segments int) *InstanceGeometry {
	half := height / 2
	positions := make([]mgl32.Vec3, 0, segments+2)
	for i := 0; i < segments; i++ {
		theta := float32(i) / float32(segments) * 2 * math32.Pi
		positions = append(positions, mgl32.Vec3{radius * math32.Sin(theta), -half, radius * math32.Cos(theta)})
	}
	apex := uint32(len(positions))
	positions = append(positions, mgl32.Vec3{0, half, 0})
	center := uint32(len(positions))
	positions = append(positions, mgl32.Vec3{0, -half, 0})

	tris := make([]uint32, 0, segments*6)
	for i := 0; i < segments; i++ {
		cur := uint32(i)
		next := uint32((i + 1) % segments)
		tris = append(tris, apex, cur, next)
		tris = append(tris, center, next, cur)
	}
	return finishGeometry(GeometryCone, positions, tris)
}

// icosahedronVertices and icosahedronFaces describe the unit icosahedron before normalization.
var (
	icosahedronVertices = func() []mgl32.Vec3 {
		t := (1 + math32.Sqrt(5)) / 2
		return []mgl32.Vec3{
			{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
			{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
			{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
		}
	}()
	icosahedronFaces = []uint32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}
	tetrahedronVertices = []mgl32.Vec3{{1, 1, 1}, {-1, -1, 1}, {-1, 1, -1}, {1, -1, -1}}
	tetrahedronFaces    = []uint32{2, 1, 0, 0, 3, 2, 1, 3, 0, 2, 3, 1}
)

// Icosahedron builds a geodesic sphere. Each face is split into (detail+1)^2 triangles and every
// vertex is pushed out to the circumscribed sphere.
//
// Parameters:
//   - radius: circumradius
//   - detail: subdivision level (0 is the plain icosahedron)
//
// Returns:
//   - *InstanceGeometry: the polyhedron
func Icosahedron(radius float32, detail int) *InstanceGeometry {
	positions, tris := subdivide(icosahedronVertices, icosahedronFaces, detail)
	return finishGeometry(GeometryIcosahedron, spherize(positions, radius), tris)
}

// Tetrahedron builds a regular tetrahedron.
//
// Parameters:
//   - radius: circumradius
//
// Returns:
//   - *InstanceGeometry: the polyhedron
func Tetrahedron(radius float32) *InstanceGeometry {
	positions := append([]mgl32.Vec3(nil), tetrahedronVertices...)
	tris := append([]uint32(nil), tetrahedronFaces...)
	return finishGeometry(GeometryTetrahedron, spherize(positions, radius), tris)
}

// subdivide splits every face into a triangular grid with detail+1 cells per edge.
// Grid points shared between neighbouring faces are welded.
func subdivide(base []mgl32.Vec3, faces []uint32, detail int) ([]mgl32.Vec3, []uint32) {
	if detail <= 0 {
		return append([]mgl32.Vec3(nil), base...), append([]uint32(nil), faces...)
	}
	w := newWelder()
	cols := detail + 1
	var tris []uint32
	for f := 0; f < len(faces); f += 3 {
		a, b, c := base[faces[f]], base[faces[f+1]], base[faces[f+2]]

		grid := make([][]uint32, cols+1)
		for i := 0; i <= cols; i++ {
			aj := lerp(a, c, float32(i)/float32(cols))
			bj := lerp(b, c, float32(i)/float32(cols))
			rows := cols - i
			grid[i] = make([]uint32, rows+1)
			for j := 0; j <= rows; j++ {
				if j == 0 && i == cols {
					grid[i][j] = w.index(aj)
				} else {
					grid[i][j] = w.index(lerp(aj, bj, float32(j)/float32(rows)))
				}
			}
		}
		for i := 0; i < cols; i++ {
			for j := 0; j < 2*(cols-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					tris = append(tris, grid[i][k+1], grid[i+1][k], grid[i][k])
				} else {
					tris = append(tris, grid[i][k+1], grid[i+1][k+1], grid[i+1][k])
				}
			}
		}
	}
	return w.positions, tris
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func spherize(positions []mgl32.Vec3, radius float32) []mgl32.Vec3 {
	for i, p := range positions {
		positions[i] = p.Normalize().Mul(radius)
	}
	return positions
}

// welder deduplicates positions that coincide up to float rounding.
type welder struct {
	positions []mgl32.Vec3
	seen      map[[3]int32]uint32
}

func newWelder() *welder {
	return &welder{seen: make(map[[3]int32]uint32)}
}

func (w *welder) index(p mgl32.Vec3) uint32 {
	const scale = 1e4
	key := [3]int32{
		int32(math32.Round(p[0] * scale)),
		int32(math32.Round(p[1] * scale)),
		int32(math32.Round(p[2] * scale)),
	}
	if idx, ok := w.seen[key]; ok {
		return idx
	}
	idx := uint32(len(w.positions))
	w.positions = append(w.positions, p)
	w.seen[key] = idx
	return idx
}

// finishGeometry computes smooth normals and the unique edge list.
func finishGeometry(kind GeometryKind, positions []mgl32.Vec3, tris []uint32) *InstanceGeometry {
	normals := make([]mgl32.Vec3, len(positions))
	for i := 0; i < len(tris); i += 3 {
		a, b, c := positions[tris[i]], positions[tris[i+1]], positions[tris[i+2]]
		n := b.Sub(a).Cross(c.Sub(a))
		normals[tris[i]] = normals[tris[i]].Add(n)
		normals[tris[i+1]] = normals[tris[i+1]].Add(n)
		normals[tris[i+2]] = normals[tris[i+2]].Add(n)
	}
	verts := make([]Vertex, len(positions))
	for i, p := range positions {
		n := normals[i]
		if n.Len() > 0 {
			n = n.Normalize()
		}
		verts[i] = Vertex{Position: p, Normal: n}
	}
	return &InstanceGeometry{
		Kind:      kind,
		Vertices:  verts,
		Triangles: tris,
		Edges:     UniqueEdges(tris),
	}
}

// UniqueEdges returns every undirected triangle edge exactly once, as index pairs sorted by
// (low, high) so output is deterministic.
//
// Parameters:
//   - tris: a triangle index list
//
// Returns:
//   - []uint32: a line-list index buffer
func UniqueEdges(tris []uint32) []uint32 {
	seen := make(map[[2]uint32]struct{}, len(tris))
	for i := 0; i+2 < len(tris); i += 3 {
		for _, e := range [3][2]uint32{{tris[i], tris[i+1]}, {tris[i+1], tris[i+2]}, {tris[i+2], tris[i]}} {
			if e[0] > e[1] {
				e[0], e[1] = e[1], e[0]
			}
			seen[e] = struct{}{}
		}
	}
	edges := make([][2]uint32, 0, len(seen))
	for e := range seen {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	out := make([]uint32, 0, 2*len(edges))
	for _, e := range edges {
		out = append(out, e[0], e[1])
	}
	return out
}
