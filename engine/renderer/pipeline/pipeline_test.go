package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-brain/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("solid")
	assert.Equal(t, "solid", p.PipelineKey())
	assert.Nil(t, p.Shader())
	assert.Nil(t, p.Pipeline())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.NotNil(t, p.BlendState())
}

func TestPipelineOptions(t *testing.T) {
	s, err := shader.NewShader("brain", shader.BrainSource)
	require.NoError(t, err)

	p := NewPipeline("wire",
		WithShader(s),
		WithWireframe(true),
		WithCullMode(wgpu.CullModeBack),
		WithBlendEnabled(true),
		WithDepthWriteEnabled(false),
	)
	assert.Same(t, s, p.Shader())
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.True(t, p.BlendEnabled())
	assert.False(t, p.DepthWriteEnabled())

	p = NewPipeline("solid", WithWireframe(true), WithWireframe(false))
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
}
