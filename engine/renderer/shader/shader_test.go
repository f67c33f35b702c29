package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrainShaderLayouts(t *testing.T) {
	s, err := NewShader("brain", BrainSource)
	require.NoError(t, err)

	assert.Equal(t, "vs_main", s.VertexEntryPoint())
	assert.Equal(t, "fs_main", s.FragmentEntryPoint())
	assert.NotContains(t, s.Source(), "@oxy:")
	assert.Equal(t, "brain", s.Module().Label)

	desc := s.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 3)

	want := []struct {
		binding uint32
		kind    wgpu.BufferBindingType
		size    uint64
		name    string
	}{
		{0, wgpu.BufferBindingTypeUniform, 80, "camera"},
		{1, wgpu.BufferBindingTypeUniform, 32, "params"},
		{2, wgpu.BufferBindingTypeReadOnlyStorage, 32, "particles"},
	}
	for i, w := range want {
		e := desc.Entries[i]
		assert.Equal(t, w.binding, e.Binding)
		assert.Equal(t, w.kind, e.Buffer.Type, w.name)
		assert.Equal(t, w.size, e.Buffer.MinBindingSize, w.name)
		assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, e.Visibility)
		assert.Equal(t, w.name, s.BindGroupVarName(0, int(w.binding)))
	}

	b, ok := s.BindGroupFromVarName(0, "particles")
	assert.True(t, ok)
	assert.Equal(t, 2, b)
	_, ok = s.BindGroupFromVarName(1, "particles")
	assert.False(t, ok)

	require.Len(t, s.VertexLayouts(), 1)
	layout := s.VertexLayout(0)
	require.Len(t, layout, 1)
	assert.Equal(t, uint64(24), layout[0].ArrayStride)
	require.Len(t, layout[0].Attributes, 2)
	assert.Equal(t, uint64(12), layout[0].Attributes[1].Offset)
	assert.Equal(t, uint32(1), layout[0].Attributes[1].ShaderLocation)

	assert.Len(t, s.Declarations(), 3)
}

func TestPreProcessorIncludesOnce(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:include field\n//@oxy:include field\n//@oxy:group 1 0 storage_read_write data array<particle>\n")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "struct FieldUniform"))
	assert.Contains(t, out, "@group(1) @binding(0) var<storage, read_write> data: array<Particle>;")

	decls := pp.Declarations()
	require.Len(t, decls, 1)
	assert.Equal(t, 1, *decls[0].Group)
	assert.Equal(t, 0, *decls[0].Binding)
	assert.Equal(t, 3, decls[0].Line)
}

func TestPreProcessorRejectsBadAnnotations(t *testing.T) {
	cases := map[string]string{
		"unknown include":       "//@oxy:include texture",
		"unknown kind":          "//@oxy:provider camera",
		"bad group number":      "//@oxy:group x 0 storage_uniform camera camera",
		"unknown address space": "//@oxy:group 0 0 storage_push camera camera",
		"missing args":          "//@oxy:group 0 0 storage_uniform camera",
		"empty":                 "//@oxy:",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewPreProcessor().Process(src)
			assert.Error(t, err)
		})
	}
}

func TestNewShaderRequiresBothStages(t *testing.T) {
	_, err := NewShader("vertex-only", "@vertex\nfn main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }")
	assert.Error(t, err)

	_, err = NewShader("broken", "//@oxy:include nothing")
	assert.Error(t, err)
}

func TestStructLayoutRules(t *testing.T) {
	structs := parseStructBlocks(stripComments(`
		/* outer /* nested */ still comment */
		struct Inner { a: vec3<f32>, b: f32, };
		struct Outer { // trailing
			inner: array<Inner, 2>,
			flag: u32,
		};
	`))
	sizes := computeStructSizes(structs)

	assert.Equal(t, wgslTypeLayout{16, 16}, sizes["Inner"])
	assert.Equal(t, wgslTypeLayout{48, 16}, sizes["Outer"])
}
