package engine

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/Carmen-Shannon/oxy-brain/engine/profiler"
	"github.com/Carmen-Shannon/oxy-brain/engine/scene"
	"github.com/Carmen-Shannon/oxy-brain/engine/window"
)

// engine implements the Engine interface.
// Every frame runs on the thread that owns the window, inside its message loop.
type engine struct {
	quitOnce sync.Once

	window window.Window
	logger common.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool
	profileInterval  time.Duration

	updateCallback func(deltaTime float32)
	resizeCallback func(e window.ResizeEvent)

	scenes map[int]scene.Scene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame        time.Time
	frameErr         error
	now              func() time.Time
	sleep            func(time.Duration)
}

// Engine is the main entry point for the engine.
// It drives the frame loop from the window's message loop and renders the registered scenes.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// ProfilerEnabled reports whether frames are being profiled.
	ProfilerEnabled() bool

	// Profiler returns the frame profiler.
	Profiler() *profiler.Profiler

	// SetUpdateCallback registers the function called at the start of each frame, before any scene
	// uploads its uniforms. Use this for tweens, input handling and loading state.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetUpdateCallback(callback func(deltaTime float32))

	// SetResizeCallback registers the function called when the window changes size. Without one
	// the engine resizes every scene renderer to the framebuffer and updates camera aspects.
	//
	// Parameters:
	//   - callback: function receiving the new window sizes
	SetResizeCallback(callback func(e window.ResizeEvent))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are rendered in ascending key order during the render loop.
	//
	// Parameters:
	//   - key: the z-index determining render order (lower renders first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	Scene(key int) scene.Scene

	// Run runs the frame loop until the window closes or Quit is called.
	//
	// Returns:
	//   - error: the recovered panic of a failed frame, or nil on a clean exit
	Run() error

	// Quit asks the window to close after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// A window must be supplied with WithWindow.
//
// Parameters:
//   - options: functional options for engine configuration (window, profiling, frame limit, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		scenes:          make(map[int]scene.Scene),
		logger:          common.NopLogger(),
		profileInterval: time.Second,
		now:             time.Now,
		sleep:           time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}
	e.profiler = profiler.NewProfiler(e.logger, e.profileInterval)
	e.logger = e.logger.With("Engine")

	if e.window != nil {
		e.window.SetResizeCallback(e.handleResize)
		e.window.SetUpdateCallback(e.frame)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) Run() error {
	if e.window == nil {
		return fmt.Errorf("engine has no window")
	}
	e.lastFrame = e.now()
	e.window.ProcessMessages()
	return e.frameErr
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// handleResize forwards window resizes to the registered callback or applies the default handling.
func (e *engine) handleResize(ev window.ResizeEvent) {
	if e.resizeCallback != nil {
		e.resizeCallback(ev)
		return
	}
	if ev.FramebufferWidth <= 0 || ev.FramebufferHeight <= 0 {
		return
	}
	for _, s := range e.scenes {
		if r := s.Renderer(); r != nil {
			r.Resize(ev.FramebufferWidth, ev.FramebufferHeight)
		}
		if c := s.Camera(); c != nil {
			c.SetAspect(float32(ev.FramebufferWidth) / float32(ev.FramebufferHeight))
		}
	}
}

// frame runs one update and render pass. A panic inside the frame is logged and stops the loop.
func (e *engine) frame() {
	defer func() {
		if r := recover(); r != nil {
			e.frameErr = fmt.Errorf("frame panicked: %v", r)
			e.logger.Errorf("recovered from panic: %v", r)
			e.Quit()
		}
	}()

	now := e.now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now

	if e.updateCallback != nil {
		e.updateCallback(dt)
	}

	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var activeScenes []scene.Scene
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			activeScenes = append(activeScenes, s)
		}
	}

	// All scenes share the first active scene's renderer and one render pass.
	if len(activeScenes) > 0 {
		if frameRenderer := activeScenes[0].Renderer(); frameRenderer != nil {
			for _, s := range activeScenes {
				s.Prepare(dt)
			}
			if err := frameRenderer.BeginFrame(); err == nil {
				for _, s := range activeScenes {
					if err := s.DrawCalls(); err != nil {
						e.logger.Warnf("%v", err)
					}
				}
				frameRenderer.EndFrame()
				frameRenderer.Present()
			} else {
				e.logger.Debugf("skipping frame: %v", err)
			}
		}
	}

	if e.profilingEnabled {
		instances := 0
		for _, s := range activeScenes {
			if f := s.Field(); f != nil {
				instances += f.Count()
			}
		}
		e.profiler.SetInstanceCount(instances)
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(now); remaining > 0 {
			e.sleep(remaining)
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) ProfilerEnabled() bool {
	return e.profilingEnabled
}

func (e *engine) SetUpdateCallback(callback func(deltaTime float32)) {
	e.updateCallback = callback
}

func (e *engine) SetResizeCallback(callback func(ev window.ResizeEvent)) {
	e.resizeCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.scenes[key] = s
}

func (e *engine) Scene(key int) scene.Scene {
	return e.scenes[key]
}
