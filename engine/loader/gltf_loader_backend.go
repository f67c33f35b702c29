package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-brain/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfLoaderBackendImpl reads glTF/GLB documents with qmuntal/gltf.
type gltfLoaderBackendImpl struct{}

var _ loaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - loaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend() loaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*mesh.SourceMesh, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, loadErr(path, ErrUnreadable, err)
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, loadErr(path, ErrMalformed, err)
	}
	return extractSourceMesh(doc, path)
}

func (b *gltfLoaderBackendImpl) LoadReader(name string, r io.Reader) (*mesh.SourceMesh, error) {
	var doc gltf.Document
	if err := gltf.NewDecoder(r).Decode(&doc); err != nil {
		return nil, loadErr(name, ErrMalformed, err)
	}
	return extractSourceMesh(&doc, name)
}

// extractSourceMesh picks the mesh to render and merges its triangle primitives into one
// SourceMesh. Node transforms are not applied.
func extractSourceMesh(doc *gltf.Document, source string) (*mesh.SourceMesh, error) {
	meshIdx, ok := selectMesh(doc)
	if !ok {
		return nil, loadErr(source, ErrNoMesh, nil)
	}
	gm := doc.Meshes[meshIdx]

	var (
		positions []mgl32.Vec3
		indices   []uint32
		indexed   bool
	)
	for _, prim := range gm.Primitives {
		if prim.Indices != nil {
			indexed = true
		}
	}

	for pi, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			return nil, loadErr(source, ErrMalformed, primitiveError(pi, "mode is not triangles"))
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			return nil, loadErr(source, ErrNoPositions, primitiveError(pi, "missing POSITION"))
		}
		if posIdx < 0 || posIdx >= len(doc.Accessors) {
			return nil, loadErr(source, ErrMalformed, primitiveError(pi, "POSITION accessor out of range"))
		}
		pos, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, loadErr(source, ErrMalformed, err)
		}

		base := uint32(len(positions))
		for _, p := range pos {
			positions = append(positions, mgl32.Vec3(p))
		}

		if !indexed {
			continue
		}
		if prim.Indices == nil {
			for i := range uint32(len(pos)) {
				indices = append(indices, base+i)
			}
			continue
		}
		if *prim.Indices < 0 || *prim.Indices >= len(doc.Accessors) {
			return nil, loadErr(source, ErrMalformed, primitiveError(pi, "index accessor out of range"))
		}
		idx, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, loadErr(source, ErrMalformed, err)
		}
		for _, i := range idx {
			indices = append(indices, base+i)
		}
	}

	name := gm.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}
	m, err := mesh.NewSourceMesh(name, positions, indices)
	if err != nil {
		return nil, loadErr(source, ErrMalformed, err)
	}
	return m, nil
}

// selectMesh returns the mesh of the first node, depth-first from the default scene, that carries
// one. Documents without scenes fall back to their first mesh.
func selectMesh(doc *gltf.Document) (int, bool) {
	if len(doc.Meshes) == 0 {
		return 0, false
	}

	var roots []int
	switch {
	case doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes):
		roots = doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0:
		roots = doc.Scenes[0].Nodes
	}

	visited := make(map[int]bool, len(doc.Nodes))
	var walk func(n int) (int, bool)
	walk = func(n int) (int, bool) {
		if n < 0 || n >= len(doc.Nodes) || visited[n] {
			return 0, false
		}
		visited[n] = true
		node := doc.Nodes[n]
		if node.Mesh != nil && *node.Mesh >= 0 && *node.Mesh < len(doc.Meshes) {
			return *node.Mesh, true
		}
		for _, c := range node.Children {
			if m, ok := walk(c); ok {
				return m, true
			}
		}
		return 0, false
	}
	for _, r := range roots {
		if m, ok := walk(r); ok {
			return m, true
		}
	}
	return 0, true
}

func primitiveError(index int, msg string) error {
	return fmt.Errorf("primitive %d: %s", index, msg)
}
