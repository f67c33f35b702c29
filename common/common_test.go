package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerspectiveZOMapsDepthRange(t *testing.T) {
	near, far := float32(0.1), float32(100)
	proj := PerspectiveZO(DegToRad(75), 16.0/9.0, near, far)

	depth := func(viewZ float32) float32 {
		clip := proj.Mul4x1(mgl32.Vec4{0, 0, viewZ, 1})
		return clip.Z() / clip.W()
	}

	assert.InDelta(t, 0, depth(-near), 1e-5)
	assert.InDelta(t, 1, depth(-far), 1e-4)
	mid := depth(-10)
	assert.Greater(t, mid, float32(0))
	assert.Less(t, mid, float32(1))
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, RGB{1, 0, 0}, c)
	assert.Equal(t, "#ff0000", c.Hex())

	_, err = ParseHexColor("red")
	assert.Error(t, err)
}

func TestParsePaletteReportsFirstBadEntry(t *testing.T) {
	_, err := ParsePalette([]string{"#ffffff", "#zzzzzz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "palette entry 1")

	p, err := ParsePalette([]string{"#000000", "#ffffff"})
	require.NoError(t, err)
	assert.Len(t, p, 2)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(2), Clamp(3, 0, 2))
	assert.Equal(t, float32(0), Clamp(-1, 0, 2))
	assert.Equal(t, float32(1.5), Clamp(1.5, 0, 2))
}

func TestLoggerWithSharesDebugSwitch(t *testing.T) {
	root := NewLogger("Root", false)
	child := root.With("Child")
	assert.False(t, child.DebugEnabled())
	root.SetDebug(true)
	assert.True(t, child.DebugEnabled())
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))
	assert.Len(t, SliceToBytes([]float32{1, 2, 3}), 12)
}
