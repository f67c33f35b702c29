package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/Carmen-Shannon/oxy-brain/engine/camera"
	"github.com/Carmen-Shannon/oxy-brain/engine/field"
	"github.com/Carmen-Shannon/oxy-brain/engine/mesh"
	"github.com/Carmen-Shannon/oxy-brain/engine/renderer"
	"github.com/Carmen-Shannon/oxy-brain/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-brain/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-brain/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawRecord struct {
	key       string
	mesh      bind_group_provider.BindGroupProvider
	instances uint32
	groups    int
}

type bindGroupRecord struct {
	provider  bind_group_provider.BindGroupProvider
	overrides map[int]uint64
}

// fakeRenderer records calls instead of touching a GPU.
type fakeRenderer struct {
	pipelines  map[string]pipeline.Pipeline
	meshes     map[string]int
	bindGroups []bindGroupRecord
	writes     []bind_group_provider.BufferWrite
	draws      []drawRecord
	failBind   bool
}

var _ renderer.Renderer = &fakeRenderer{}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		pipelines: map[string]pipeline.Pipeline{},
		meshes:    map[string]int{},
	}
}

func (f *fakeRenderer) Pipeline(key string) pipeline.Pipeline { return f.pipelines[key] }

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		f.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (f *fakeRenderer) Resize(int, int)                     {}
func (f *fakeRenderer) SetPresentMode(renderer.PresentMode) {}
func (f *fakeRenderer) SetClearColor(common.RGB)            {}
func (f *fakeRenderer) BeginFrame() error                   { return nil }
func (f *fakeRenderer) EndFrame()                           {}
func (f *fakeRenderer) Present()                            {}
func (f *fakeRenderer) Release()                            {}

func (f *fakeRenderer) InitMeshBuffers(p bind_group_provider.BindGroupProvider, _, _ []byte, indexCount int) error {
	p.SetIndexCount(indexCount)
	f.meshes[p.Label()] = indexCount
	return nil
}

func (f *fakeRenderer) InitBindGroup(p bind_group_provider.BindGroupProvider, _ wgpu.BindGroupLayoutDescriptor, overrides map[int]uint64) error {
	if f.failBind {
		return errors.New("no device")
	}
	f.bindGroups = append(f.bindGroups, bindGroupRecord{provider: p, overrides: overrides})
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}

func (f *fakeRenderer) DrawCall(key string, m bind_group_provider.BindGroupProvider, n uint32, groups []bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, drawRecord{key: key, mesh: m, instances: n, groups: len(groups)})
	return nil
}

func newTestScene(t *testing.T, options ...SceneBuilderOption) (Scene, *fakeRenderer) {
	t.Helper()
	sh, err := shader.NewShader("brain", shader.BrainSource)
	require.NoError(t, err)
	r := newFakeRenderer()
	s, err := NewScene("brain", camera.NewCamera(), r, sh, options...)
	require.NoError(t, err)
	return s, r
}

func testField(t *testing.T, n int) field.Field {
	t.Helper()
	pos := make([]mgl32.Vec3, n)
	for i := range pos {
		pos[i] = mgl32.Vec3{float32(i), 0, 0}
	}
	src, err := mesh.NewSourceMesh("line", pos, nil)
	require.NoError(t, err)
	f, err := field.NewField(src, field.WithSeed(1), field.WithPalette([]common.RGB{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}}))
	require.NoError(t, err)
	return f
}

func TestNewSceneRegistersBothPipelines(t *testing.T) {
	_, r := newTestScene(t)

	require.Len(t, r.pipelines, 2)
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, r.pipelines["brain.solid"].Topology())
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, r.pipelines["brain.wire"].Topology())
}

func TestNewSceneRequiresCollaborators(t *testing.T) {
	_, err := NewScene("brain", nil, newFakeRenderer(), nil)
	assert.Error(t, err)
}

func TestDrawCallsWithoutFieldOnlyClears(t *testing.T) {
	s, r := newTestScene(t)

	s.Prepare(0.016)
	require.NoError(t, s.DrawCalls())
	assert.Empty(t, r.draws)
	assert.Empty(t, r.writes)
}

func TestSetFieldUploadsParticlesOnce(t *testing.T) {
	s, r := newTestScene(t)
	geom := mesh.Tetrahedron(0.01)

	require.NoError(t, s.SetField(testField(t, 50), geom))

	require.Len(t, r.bindGroups, 1)
	particleBinding := 2
	assert.Equal(t, uint64(50*field.GPUInstanceSize), r.bindGroups[0].overrides[particleBinding])

	require.Len(t, r.writes, 1)
	assert.Equal(t, particleBinding, r.writes[0].Binding)
	assert.Len(t, r.writes[0].Data, 50*field.GPUInstanceSize)

	assert.Equal(t, len(geom.Triangles), r.meshes["brain.mesh.solid"])
	assert.Equal(t, len(geom.Edges), r.meshes["brain.mesh.wire"])
}

func TestPrepareWritesUniformsAndAdvancesClock(t *testing.T) {
	s, r := newTestScene(t)
	require.NoError(t, s.SetField(testField(t, 4), mesh.Tetrahedron(0.01)))
	r.writes = nil

	s.Prepare(0.5)
	s.Prepare(0.25)

	assert.InDelta(t, 0.75, s.Elapsed(), 1e-6)
	require.Len(t, r.writes, 4)
	assert.Equal(t, 0, r.writes[0].Binding)
	assert.Len(t, r.writes[0].Data, 80)
	assert.Equal(t, 1, r.writes[1].Binding)
	assert.Len(t, r.writes[1].Data, 32)
}

func TestDrawCallsFollowWireframeToggle(t *testing.T) {
	s, r := newTestScene(t)
	require.NoError(t, s.SetField(testField(t, 12), mesh.Tetrahedron(0.01)))

	require.NoError(t, s.DrawCalls())
	s.SetWireframe(false)
	require.NoError(t, s.DrawCalls())

	require.Len(t, r.draws, 2)
	assert.Equal(t, "brain.wire", r.draws[0].key)
	assert.Equal(t, "brain.solid", r.draws[1].key)
	for _, d := range r.draws {
		assert.Equal(t, uint32(12), d.instances)
		assert.Equal(t, 1, d.groups)
	}
}

func TestEmptyFieldDrawsNothing(t *testing.T) {
	s, r := newTestScene(t)
	require.NoError(t, s.SetField(testField(t, 0), mesh.Tetrahedron(0.01)))

	assert.Equal(t, uint64(field.GPUInstanceSize), r.bindGroups[0].overrides[2])
	require.NoError(t, s.DrawCalls())
	assert.Empty(t, r.draws)
}

func TestSetFieldFailureKeepsSceneEmpty(t *testing.T) {
	s, r := newTestScene(t, WithLabel("session"))
	r.failBind = true

	err := s.SetField(testField(t, 3), mesh.Tetrahedron(0.01))
	require.Error(t, err)
	assert.Nil(t, s.Field())
	assert.Contains(t, r.meshes, "session.mesh.solid")
}

func TestPrepareSkipsUnchangedFieldUniform(t *testing.T) {
	s, r := newTestScene(t)
	f := testField(t, 4)
	require.NoError(t, s.SetField(f, mesh.Tetrahedron(0.01)))
	r.writes = nil

	s.Prepare(0.5)
	s.Prepare(0)
	require.Len(t, r.writes, 3)
	assert.Equal(t, 0, r.writes[2].Binding, "a paused clock only refreshes the camera")

	f.SetHover(1)
	s.Prepare(0)
	require.Len(t, r.writes, 5)
	assert.Equal(t, 1, r.writes[4].Binding)

	require.NoError(t, s.SetField(testField(t, 4), mesh.Tetrahedron(0.01)))
	r.writes = nil
	s.Prepare(0)
	assert.Len(t, r.writes, 2, "a new field always gets its uniform")
}

func TestFailedReplacementKeepsPreviousField(t *testing.T) {
	s, r := newTestScene(t)
	geom := mesh.Tetrahedron(0.01)
	first := testField(t, 6)
	require.NoError(t, s.SetField(first, geom))

	r.failBind = true
	require.Error(t, s.SetField(testField(t, 9), mesh.Icosahedron(0.01, 1)))

	assert.Same(t, first, s.Field())
	require.NoError(t, s.DrawCalls())
	require.Len(t, r.draws, 1)
	assert.Equal(t, uint32(6), r.draws[0].instances)
	assert.Equal(t, len(geom.Edges), r.draws[0].mesh.IndexCount(), "previous buffers are not released")
}
