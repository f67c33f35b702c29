package tween

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hover Target = "hover"

func TestEaseEndpoints(t *testing.T) {
	for _, name := range []string{"linear", "power1.out", "power2.out", "power1.inOut", "sine.inOut", "expo.out"} {
		t.Run(name, func(t *testing.T) {
			e, ok := EaseByName(name)
			require.True(t, ok)
			assert.InDelta(t, 0, e(0), 1e-3)
			assert.InDelta(t, 1, e(1), 1e-6)
		})
	}
	_, ok := EaseByName("bounce.wobble")
	assert.False(t, ok)
}

func TestToReachesDestination(t *testing.T) {
	a := NewAnimator()
	done := 0
	a.To(hover, mgl32.Vec3{1, 0, 0}, 0.5, WithOnComplete(func() { done++ }))
	require.True(t, a.Active(hover))

	a.Tick(0.25)
	mid := a.Value(hover).X()
	assert.Greater(t, mid, float32(0.5), "power1.out is past halfway at half time")
	assert.Less(t, mid, float32(1))
	assert.InDelta(t, 0.5, a.Progress(hover), 1e-6)

	a.Tick(0.25)
	assert.Equal(t, float32(1), a.Value(hover).X())
	assert.False(t, a.Active(hover))
	assert.Equal(t, 1, done)

	a.Tick(1)
	assert.Equal(t, 1, done)
}

func TestToOverwritesFromCurrentValue(t *testing.T) {
	a := NewAnimator(WithDefaultEase(Linear))
	var seen []float32
	a.OnUpdate(hover, func(v mgl32.Vec3) { seen = append(seen, v.X()) })

	first := 0
	a.To(hover, mgl32.Vec3{10, 0, 0}, 1, WithOnComplete(func() { first++ }))
	a.Tick(0.25)
	require.InDelta(t, 2.5, a.Value(hover).X(), 1e-5)

	a.To(hover, mgl32.Vec3{-10, 0, 0}, 1)
	assert.Equal(t, mgl32.Vec3{-10, 0, 0}, a.Destination(hover))
	a.Tick(0.5)
	assert.InDelta(t, -3.75, a.Value(hover).X(), 1e-5)
	a.Tick(0.5)
	a.Tick(0.5)

	assert.Equal(t, float32(-10), a.Value(hover).X())
	assert.Zero(t, first, "replaced transition never completes")
	for _, v := range seen {
		assert.LessOrEqual(t, v, float32(2.5))
	}
}

func TestCancelKeepsCurrentValue(t *testing.T) {
	a := NewAnimator(WithDefaultEase(Linear))
	a.To(hover, mgl32.Vec3{0, 4, 0}, 1)
	a.Tick(0.5)
	a.Cancel(hover)
	a.Tick(1)

	assert.InDelta(t, 2, a.Value(hover).Y(), 1e-5)
	assert.False(t, a.Active(hover))
	assert.Zero(t, a.Progress(hover))
}

func TestSetAndZeroDurationApplyImmediately(t *testing.T) {
	a := NewAnimator()
	calls := 0
	a.OnUpdate("pointer", func(mgl32.Vec3) { calls++ })

	a.To("pointer", mgl32.Vec3{1, 2, 3}, 1)
	a.Set("pointer", mgl32.Vec3{4, 5, 6})
	assert.False(t, a.Active("pointer"))
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, a.Value("pointer"))

	a.To("pointer", mgl32.Vec3{7, 8, 9}, 0)
	assert.Equal(t, mgl32.Vec3{7, 8, 9}, a.Value("pointer"))
	assert.Equal(t, 2, calls)
}

func TestTargetsAreIndependent(t *testing.T) {
	a := NewAnimator(WithDefaultEase(Linear))
	a.To("camera", mgl32.Vec3{1, 1, 0}, 0.5)
	a.To(hover, mgl32.Vec3{1, 0, 0}, 0.25)
	a.Tick(0.25)

	assert.False(t, a.Active(hover))
	assert.True(t, a.Active("camera"))
	assert.Equal(t, mgl32.Vec3{}, a.Value("unused"))
}
