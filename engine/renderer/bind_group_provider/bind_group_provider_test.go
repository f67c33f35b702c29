package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderKeepsLabel(t *testing.T) {
	p := NewBindGroupProvider("brain particles", WithIndexCount(12))
	assert.Equal(t, "brain particles", p.Label())
	assert.Equal(t, 12, p.IndexCount())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Zero(t, p.BufferSize(0))
}

func TestReleaseWithoutGPUResources(t *testing.T) {
	p := NewBindGroupProvider("empty")
	p.SetBuffer(1, nil, 64)
	assert.Equal(t, uint64(64), p.BufferSize(1))

	p.Release()
	p.Release()
	assert.Zero(t, p.BufferSize(1))
	assert.Zero(t, p.IndexCount())
}
