package field

import (
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/Carmen-Shannon/oxy-brain/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPalette = []common.RGB{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
	{1, 1, 0},
}

func gridMesh(t *testing.T, n int) *mesh.SourceMesh {
	t.Helper()
	pos := make([]mgl32.Vec3, n)
	for i := range pos {
		pos[i] = mgl32.Vec3{float32(i), float32(i) * 0.5, -float32(i)}
	}
	m, err := mesh.NewSourceMesh("grid", pos, nil)
	require.NoError(t, err)
	return m
}

// checkField asserts that every particle sits on its vertex, draws its size and rotation from
// the given ranges and uses a palette color, and that the draws cover each range and the palette.
func checkField(t *testing.T, src *mesh.SourceMesh, f Field, size, rotation Range) {
	t.Helper()
	require.Equal(t, src.VertexCount(), f.Count())

	seen := map[int]bool{}
	minSize, maxSize := size.Max, size.Min
	minRot, maxRot := rotation.Max, rotation.Min
	for i, p := range src.Positions() {
		inst := f.Instance(i)
		assert.Equal(t, p, inst.Translation)
		assert.True(t, size.Contains(inst.Size), "size %v", inst.Size)
		assert.True(t, rotation.Contains(inst.Rotation), "rotation %v", inst.Rotation)
		assert.Contains(t, testPalette, f.Color(i))
		seen[inst.ColorIndex] = true
		minSize, maxSize = min(minSize, inst.Size), max(maxSize, inst.Size)
		minRot, maxRot = min(minRot, inst.Rotation), max(maxRot, inst.Rotation)
	}

	assert.Len(t, seen, len(testPalette), "every palette color is used")
	sizeSpan, rotSpan := size.Max-size.Min, rotation.Max-rotation.Min
	assert.Less(t, minSize, size.Min+0.1*sizeSpan)
	assert.Greater(t, maxSize, size.Max-0.1*sizeSpan)
	assert.Less(t, minRot, rotation.Min+0.1*rotSpan)
	assert.Greater(t, maxRot, rotation.Max-0.1*rotSpan)
}

func TestNewFieldOneParticlePerVertex(t *testing.T) {
	src := gridMesh(t, 600)
	for seed := uint64(1); seed <= 8; seed++ {
		f, err := NewField(src, WithSeed(seed), WithPalette(testPalette))
		require.NoError(t, err)
		checkField(t, src, f, DefaultSizeRange, DefaultRotationRange)
	}
}

func TestNewFieldCustomRanges(t *testing.T) {
	src := gridMesh(t, 600)
	size := Range{Min: 1, Max: 1.5}
	rotation := Range{Min: 0, Max: 4}
	for _, pcg := range [][2]uint64{{1, 2}, {3, 4}, {99, 7}, {1 << 40, 5}} {
		f, err := NewField(src,
			WithRand(rand.New(rand.NewPCG(pcg[0], pcg[1]))),
			WithPalette(testPalette),
			WithSizeRange(size),
			WithRotationRange(rotation),
		)
		require.NoError(t, err)
		checkField(t, src, f, size, rotation)
	}
}

func TestNewFieldThreeVertices(t *testing.T) {
	src, err := mesh.NewSourceMesh("tri", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []uint32{0, 1, 2})
	require.NoError(t, err)

	f, err := NewField(src, WithSeed(3), WithPalette(testPalette))
	require.NoError(t, err)
	require.Equal(t, 3, f.Count())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, f.Instance(1).Translation)
	assert.Len(t, f.GPUInstances(), 3)
}

func TestNewFieldEmptyMesh(t *testing.T) {
	src, err := mesh.NewSourceMesh("empty", nil, nil)
	require.NoError(t, err)

	f, err := NewField(src, WithPalette(testPalette))
	require.NoError(t, err)
	assert.Zero(t, f.Count())
	assert.Empty(t, f.GPUInstances())
}

func TestNewFieldSeedIsReproducible(t *testing.T) {
	src := gridMesh(t, 50)
	a, err := NewField(src, WithSeed(42), WithPalette(testPalette))
	require.NoError(t, err)
	b, err := NewField(src, WithSeed(42), WithPalette(testPalette))
	require.NoError(t, err)
	assert.Equal(t, a.GPUInstances(), b.GPUInstances())
}

func TestNewFieldRejectsBadOptions(t *testing.T) {
	src := gridMesh(t, 3)

	_, err := NewField(src)
	assert.ErrorIs(t, err, ErrEmptyPalette)

	_, err = NewField(src, WithPalette(testPalette), WithSizeRange(Range{Min: 2, Max: 1}))
	assert.Error(t, err)

	_, err = NewField(src, WithPalette(testPalette), WithRotationRange(Range{Min: 1, Max: -1}))
	assert.Error(t, err)
}

func TestSharedWritesReachEveryParticle(t *testing.T) {
	f, err := NewField(gridMesh(t, 10), WithSeed(1), WithPalette(testPalette))
	require.NoError(t, err)

	v0 := f.Version()
	f.SetHover(0.6)
	f.SetPointer(mgl32.Vec3{0.1, 0.2, 0.3})
	assert.Equal(t, v0+2, f.Version())

	u := f.GPUUniform(1.5)
	assert.Equal(t, float32(0.6), u.Hover)
	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, u.Pointer)
	assert.Equal(t, float32(1.5), u.Time)
	assert.Equal(t, Shared{Hover: 0.6, Pointer: mgl32.Vec3{0.1, 0.2, 0.3}}, f.Shared())
}

func TestGPULayouts(t *testing.T) {
	u := GPUFieldUniform{Pointer: [3]float32{1, 2, 3}, Hover: 0.5}
	assert.Equal(t, 32, u.Size())
	assert.Len(t, u.Marshal(), 32)

	inst := []GPUInstance{{Size: 1}, {Size: 2}}
	assert.Len(t, common.SliceToBytes(inst), 64)
}
