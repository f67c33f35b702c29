package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/Carmen-Shannon/oxy-brain/engine/camera"
	"github.com/Carmen-Shannon/oxy-brain/engine/field"
	"github.com/Carmen-Shannon/oxy-brain/engine/renderer"
	"github.com/Carmen-Shannon/oxy-brain/engine/scene"
	"github.com/Carmen-Shannon/oxy-brain/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs a fixed number of message loop iterations.
type fakeWindow struct {
	window.Window
	frames   int
	closed   bool
	onUpdate func()
	onResize func(window.ResizeEvent)
}

func (w *fakeWindow) SetUpdateCallback(cb func())                   { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(window.ResizeEvent)) { w.onResize = cb }
func (w *fakeWindow) RequestClose()                                 { w.closed = true }

func (w *fakeWindow) ProcessMessages() {
	for i := 0; i < w.frames && !w.closed; i++ {
		w.onUpdate()
	}
}

type fakeRenderer struct {
	renderer.Renderer
	log       *[]string
	beginErr  error
	resizedTo [2]int
}

func (r *fakeRenderer) BeginFrame() error {
	*r.log = append(*r.log, "begin")
	return r.beginErr
}
func (r *fakeRenderer) EndFrame()                { *r.log = append(*r.log, "end") }
func (r *fakeRenderer) Present()                 { *r.log = append(*r.log, "present") }
func (r *fakeRenderer) Resize(width, height int) { r.resizedTo = [2]int{width, height} }

type fakeScene struct {
	scene.Scene
	name   string
	active bool
	r      renderer.Renderer
	cam    camera.Camera
	log    *[]string
	panics bool
	fld    field.Field
}

func (s *fakeScene) Active() bool                { return s.active }
func (s *fakeScene) Renderer() renderer.Renderer { return s.r }
func (s *fakeScene) Camera() camera.Camera       { return s.cam }
func (s *fakeScene) Field() field.Field          { return s.fld }
func (s *fakeScene) Prepare(float32)             { *s.log = append(*s.log, "prepare "+s.name) }
func (s *fakeScene) DrawCalls() error {
	if s.panics {
		panic("device lost")
	}
	*s.log = append(*s.log, "draw "+s.name)
	return nil
}

func TestFrameRendersActiveScenesInOrder(t *testing.T) {
	var log []string
	r := &fakeRenderer{log: &log}
	w := &fakeWindow{frames: 1}
	e := NewEngine(
		WithWindow(w),
		WithScene(2, &fakeScene{name: "b", active: true, r: r, log: &log}),
		WithScene(1, &fakeScene{name: "a", active: true, r: r, log: &log}),
		WithScene(3, &fakeScene{name: "off", active: false, r: r, log: &log}),
	)

	var updates int
	e.SetUpdateCallback(func(float32) {
		updates++
		log = append(log, "update")
	})
	require.NoError(t, e.Run())

	assert.Equal(t, 1, updates)
	assert.Equal(t, []string{"update", "prepare a", "prepare b", "begin", "draw a", "draw b", "end", "present"}, log)
}

func TestFrameSkipsDrawWhenSurfaceUnavailable(t *testing.T) {
	var log []string
	r := &fakeRenderer{log: &log, beginErr: errors.New("outdated")}
	e := NewEngine(WithWindow(&fakeWindow{frames: 2}), WithScene(0, &fakeScene{name: "a", active: true, r: r, log: &log}))

	require.NoError(t, e.Run())
	assert.Equal(t, []string{"prepare a", "begin", "prepare a", "begin"}, log)
}

func TestFramePanicStopsLoop(t *testing.T) {
	var log []string
	r := &fakeRenderer{log: &log}
	w := &fakeWindow{frames: 5}
	e := NewEngine(WithWindow(w), WithLogger(common.NopLogger()), WithScene(0, &fakeScene{name: "a", active: true, r: r, log: &log, panics: true}))

	err := e.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device lost")
	assert.True(t, w.closed)
	assert.Equal(t, []string{"prepare a", "begin"}, log)
}

func TestDefaultResizeUpdatesRendererAndCamera(t *testing.T) {
	var log []string
	r := &fakeRenderer{log: &log}
	cam := camera.NewCamera()
	w := &fakeWindow{}
	NewEngine(WithWindow(w), WithScene(0, &fakeScene{active: true, r: r, cam: cam, log: &log}))

	w.onResize(window.ResizeEvent{Width: 400, Height: 200, FramebufferWidth: 800, FramebufferHeight: 400})
	assert.Equal(t, [2]int{800, 400}, r.resizedTo)
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)

	w.onResize(window.ResizeEvent{})
	assert.Equal(t, [2]int{800, 400}, r.resizedTo)
}

func TestResizeCallbackOverridesDefault(t *testing.T) {
	var log []string
	r := &fakeRenderer{log: &log}
	w := &fakeWindow{}
	e := NewEngine(WithWindow(w), WithScene(0, &fakeScene{active: true, r: r, log: &log}))

	var got window.ResizeEvent
	e.SetResizeCallback(func(ev window.ResizeEvent) { got = ev })
	w.onResize(window.ResizeEvent{Width: 10, Height: 10, FramebufferWidth: 20, FramebufferHeight: 20})

	assert.Equal(t, 20, got.FramebufferWidth)
	assert.Equal(t, [2]int{0, 0}, r.resizedTo)
}

func TestFrameLimitSleepsRemainder(t *testing.T) {
	clock := time.Unix(0, 0)
	var slept time.Duration
	e := NewEngine(WithWindow(&fakeWindow{frames: 1}), WithRenderFrameLimit(50)).(*engine)
	e.now = func() time.Time { return clock }
	e.sleep = func(d time.Duration) { slept += d }

	require.NoError(t, e.Run())
	assert.Equal(t, 20*time.Millisecond, slept)
}

func TestRunWithoutWindowFails(t *testing.T) {
	assert.Error(t, NewEngine().Run())
}

type fakeField struct {
	field.Field
	n int
}

func (f fakeField) Count() int { return f.n }

func TestProfilerReportsDrawnParticles(t *testing.T) {
	var log []string
	r := &fakeRenderer{log: &log}
	e := NewEngine(
		WithWindow(&fakeWindow{frames: 1}),
		WithProfiling(true),
		WithProfileInterval(time.Nanosecond),
		WithScene(0, &fakeScene{name: "a", active: true, r: r, log: &log, fld: fakeField{n: 7}}),
		WithScene(1, &fakeScene{name: "b", active: true, r: r, log: &log}),
	)
	require.NoError(t, e.Run())
	assert.Equal(t, 7, e.Profiler().Last().Instances)
}

func TestProfilerToggle(t *testing.T) {
	var log []string
	r := &fakeRenderer{log: &log}
	w := &fakeWindow{frames: 1}
	e := NewEngine(
		WithWindow(w),
		WithProfileInterval(time.Nanosecond),
		WithScene(0, &fakeScene{name: "a", active: true, r: r, log: &log, fld: fakeField{n: 3}}),
	)
	assert.False(t, e.ProfilerEnabled())
	require.NoError(t, e.Run())
	assert.Zero(t, e.Profiler().Last().Instances, "disabled profiler records nothing")

	e.EnableProfiler()
	assert.True(t, e.ProfilerEnabled())
	w.onUpdate()
	assert.Equal(t, 3, e.Profiler().Last().Instances)

	e.DisableProfiler()
	assert.False(t, e.ProfilerEnabled())
}
