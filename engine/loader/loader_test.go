package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var triangle = [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

// writeGLB saves a single-mesh document whose only scene node references the mesh.
func writeGLB(t *testing.T, positions [][3]float32, indices []uint32) string {
	t.Helper()
	doc := gltf.NewDocument()
	prim := &gltf.Primitive{
		Attributes: map[string]int{gltf.POSITION: modeler.WritePosition(doc, positions)},
	}
	if indices != nil {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, indices))
	}
	doc.Meshes = []*gltf.Mesh{{Name: "brain", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: "root", Mesh: gltf.Index(0)}}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}
	doc.Scene = gltf.Index(0)

	path := filepath.Join(t.TempDir(), "brain.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestLoader(t *testing.T) Loader {
	t.Helper()
	l := NewLoader(BackendTypeGLTF)
	t.Cleanup(l.Close)
	return l
}

func TestLoadThreeVertexGLB(t *testing.T) {
	l := newTestLoader(t)
	path := writeGLB(t, triangle, []uint32{0, 1, 2})

	m, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "brain", m.Name())
	assert.Equal(t, []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, m.Positions())
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices())

	again, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, m, again)
	assert.Same(t, m, l.Get(path))
	assert.Len(t, l.Meshes(), 1)
}

func TestLoadNonIndexedGLB(t *testing.T) {
	l := newTestLoader(t)
	m, err := l.Load(writeGLB(t, triangle, nil))
	require.NoError(t, err)
	assert.Nil(t, m.Indices())
	assert.Equal(t, 1, m.TriangleCount())
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		want error
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.glb") }, ErrUnreadable},
		{"not gltf", func(t *testing.T) string { return writeFile(t, "junk.glb", "definitely not a model") }, ErrMalformed},
		{"no mesh", func(t *testing.T) string {
			return writeFile(t, "empty.gltf", `{"asset":{"version":"2.0"},"scenes":[{"nodes":[]}],"scene":0}`)
		}, ErrNoMesh},
		{"no positions", func(t *testing.T) string {
			return writeFile(t, "bare.gltf", `{"asset":{"version":"2.0"},"meshes":[{"primitives":[{"attributes":{}}]}]}`)
		}, ErrNoPositions},
		{"unsupported extension", func(t *testing.T) string { return writeFile(t, "brain.obj", "v 0 0 0") }, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLoader(t)
			path := tt.path(t)

			m, err := l.Load(path)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, tt.want)

			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, path, le.Source)
			assert.Nil(t, l.Get(path))
		})
	}
}

func TestLoadPicksFirstMeshDepthFirst(t *testing.T) {
	doc := gltf.NewDocument()
	first := modeler.WritePosition(doc, triangle)
	second := modeler.WritePosition(doc, [][3]float32{{5, 5, 5}, {6, 5, 5}, {5, 6, 5}, {9, 9, 9}, {8, 9, 9}, {9, 8, 9}})
	doc.Meshes = []*gltf.Mesh{
		{Name: "unused", Primitives: []*gltf.Primitive{{Attributes: map[string]int{gltf.POSITION: first}}}},
		{Name: "cortex", Primitives: []*gltf.Primitive{{Attributes: map[string]int{gltf.POSITION: second}}}},
	}
	doc.Nodes = []*gltf.Node{
		{Name: "group", Children: []int{1}},
		{Name: "leaf", Mesh: gltf.Index(1)},
	}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}
	doc.Scene = gltf.Index(0)
	path := filepath.Join(t.TempDir(), "nested.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	m, err := newTestLoader(t).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cortex", m.Name())
	assert.Equal(t, 6, m.VertexCount())
}

func TestLoadMergesPrimitives(t *testing.T) {
	doc := gltf.NewDocument()
	a := modeler.WritePosition(doc, triangle)
	b := modeler.WritePosition(doc, [][3]float32{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}})
	idx := modeler.WriteIndices(doc, []uint32{2, 1, 0})
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{
		{Attributes: map[string]int{gltf.POSITION: a}},
		{Attributes: map[string]int{gltf.POSITION: b}, Indices: gltf.Index(idx)},
	}}}
	path := filepath.Join(t.TempDir(), "merged.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	m, err := newTestLoader(t).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "merged", m.Name())
	assert.Equal(t, 6, m.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 5, 4, 3}, m.Indices())
}

func TestLoadReader(t *testing.T) {
	f, err := os.Open(writeGLB(t, triangle, []uint32{0, 1, 2}))
	require.NoError(t, err)
	defer f.Close()

	l := newTestLoader(t)
	m, err := l.LoadReader("stream", f)
	require.NoError(t, err)
	assert.Equal(t, 3, m.VertexCount())
	assert.Same(t, m, l.Get("stream"))
}

func TestLoadAsyncDeliversExactlyOnce(t *testing.T) {
	l := newTestLoader(t)
	path := writeGLB(t, triangle, []uint32{0, 1, 2})

	results := l.LoadAsync(path)
	select {
	case r, ok := <-results:
		require.True(t, ok)
		require.NoError(t, r.Err)
		assert.Equal(t, path, r.Source)
		assert.Equal(t, 3, r.Mesh.VertexCount())
	case <-time.After(5 * time.Second):
		t.Fatal("load did not complete")
	}
	_, ok := <-results
	assert.False(t, ok, "channel is closed after the single result")

	failed := <-l.LoadAsync(filepath.Join(t.TempDir(), "missing.glb"))
	assert.ErrorIs(t, failed.Err, ErrUnreadable)
	assert.Nil(t, failed.Mesh)
}

func TestLoadAsyncAfterClose(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	l.Close()
	l.Close()

	r := <-l.LoadAsync("brain.glb")
	assert.ErrorIs(t, r.Err, ErrClosed)
}
