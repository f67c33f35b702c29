// Package sketch is the brain particle demo: it loads the brain mesh, turns it into a particle
// field, and moves the camera and the field's hover and pointer parameters in response to the
// pointer. Everything in a Session runs on the main loop.
package sketch

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/Carmen-Shannon/oxy-brain/engine/camera"
	"github.com/Carmen-Shannon/oxy-brain/engine/field"
	"github.com/Carmen-Shannon/oxy-brain/engine/loader"
	"github.com/Carmen-Shannon/oxy-brain/engine/mesh"
	"github.com/Carmen-Shannon/oxy-brain/engine/renderer"
	"github.com/Carmen-Shannon/oxy-brain/engine/scene"
	"github.com/Carmen-Shannon/oxy-brain/engine/tween"
	"github.com/Carmen-Shannon/oxy-brain/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// LoadState is the progress of the model load.
type LoadState int

const (
	LoadStateLoading LoadState = iota
	LoadStateReady
	LoadStateFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadStateLoading:
		return "loading"
	case LoadStateReady:
		return "ready"
	case LoadStateFailed:
		return "failed"
	}
	return fmt.Sprintf("LoadState(%d)", int(s))
}

// TitleSetter is the part of a window the session reports load progress to.
type TitleSetter interface {
	SetTitle(title string)
}

// Session is one run of the demo. It is not safe for concurrent use: the engine calls Update,
// PointerMove and Resize from the main loop only.
type Session interface {
	// ID returns the session id used in logs and GPU labels.
	ID() string

	// Start requests the model load. The result is picked up by a later Update.
	Start()

	// Update runs once per frame before the scene is drawn: it picks up a finished load, applies
	// pending configuration reloads, advances tweens and moves the camera through its controller.
	//
	// Parameters:
	//   - dt: seconds since the previous frame
	Update(dt float32)

	// PointerMove handles a pointer move in window coordinates.
	//
	// Parameters:
	//   - x: pointer x from the left edge
	//   - y: pointer y from the top edge
	PointerMove(x, y float64)

	// Resize recomputes the viewport, camera aspect and surface size. Zero sizes are ignored.
	//
	// Parameters:
	//   - e: the new window sizes
	Resize(e window.ResizeEvent)

	// Apply switches to new settings. Cosmetic settings apply at once; particle settings rebuild
	// the field.
	//
	// Parameters:
	//   - settings: the new settings
	Apply(settings Settings)

	// State returns the load state.
	State() LoadState

	// Err returns the load error while in LoadStateFailed.
	Err() error

	// Settings returns the settings in effect.
	Settings() Settings

	// Viewport returns the current viewport and whether one has been computed yet.
	Viewport() (Viewport, bool)

	// Interaction returns the pointer state machine.
	Interaction() Interaction

	// Field returns the particle field, or nil until the model is loaded.
	Field() field.Field

	// Close stops the loader and releases the scene's GPU resources.
	Close()
}

type session struct {
	id     string
	title  string
	logger common.Logger

	sc     scene.Scene
	cam    camera.Camera
	ctrl   camera.CameraController
	ld     loader.Loader
	tweens tween.Animator
	inter  Interaction

	settings  Settings
	modelPath string
	rng       *rand.Rand
	titles    TitleSetter
	updates   <-chan ConfigUpdate

	state   LoadState
	err     error
	pending <-chan loader.Result
	source  *mesh.SourceMesh
	fld     field.Field

	vp     Viewport
	haveVP bool
}

var _ Session = &session{}

// NewSession creates a Session drawing into sc with meshes from ld.
//
// Parameters:
//   - sc: the scene the field is drawn in; its camera is driven by the session
//   - ld: the mesh loader
//   - settings: the initial settings
//   - options: functional options (id, model path, seed, logger, title, config updates)
//
// Returns:
//   - Session: the session, in LoadStateLoading until Start and a later Update complete the load
//   - error: error if a collaborator is missing
func NewSession(sc scene.Scene, ld loader.Loader, settings Settings, options ...SessionBuilderOption) (Session, error) {
	if sc == nil || ld == nil || sc.Camera() == nil {
		return nil, fmt.Errorf("session requires a scene with a camera and a loader")
	}
	s := &session{
		id:        "local",
		title:     "oxy-brain",
		logger:    common.NopLogger(),
		sc:        sc,
		cam:       sc.Camera(),
		ctrl:      sc.Camera().Controller(),
		ld:        ld,
		tweens:    tween.NewAnimator(),
		modelPath: DefaultModelPath,
		state:     LoadStateLoading,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	s.logger = s.logger.With("Sketch")

	s.tweens.OnUpdate(TargetCamera, func(v mgl32.Vec3) {
		s.ctrl.SetOffset(v.X(), v.Y())
	})
	s.tweens.OnUpdate(TargetHover, func(v mgl32.Vec3) {
		if s.fld != nil {
			s.fld.SetHover(v.X())
		}
	})
	s.tweens.OnUpdate(TargetPointer, func(v mgl32.Vec3) {
		if s.fld != nil {
			s.fld.SetPointer(v)
		}
	})

	s.inter = NewInteraction(s.tweens, s.cam, settings)
	s.settings = settings
	s.applyCosmetic(settings)
	return s, nil
}

// DefaultModelPath is where the brain model is read from unless WithModelPath says otherwise.
const DefaultModelPath = "assets/models/brain.glb"

func (s *session) ID() string {
	return s.id
}

func (s *session) Start() {
	s.logger.Infof("session %s loading %s", s.id, s.modelPath)
	s.setTitle(s.title + " (loading)")
	s.pending = s.ld.LoadAsync(s.modelPath)
}

func (s *session) Update(dt float32) {
	s.pollLoad()
	s.pollConfig()
	s.tweens.Tick(dt)
	if s.haveVP {
		s.ctrl.SetRadius(s.vp.CameraDistance())
	}
	s.cam.Update()
}

// pollLoad consumes the load result if it has arrived. It never blocks.
func (s *session) pollLoad() {
	if s.pending == nil {
		return
	}
	select {
	case r, ok := <-s.pending:
		s.pending = nil
		if !ok {
			s.fail(fmt.Errorf("load %s: no result", s.modelPath))
			return
		}
		if r.Err != nil {
			s.fail(r.Err)
			return
		}
		s.source = r.Mesh
		if err := s.buildField(); err != nil {
			s.fail(err)
			return
		}
		s.state = LoadStateReady
		s.inter.SetSurface(s.source)
		s.setTitle(s.title)
		s.logger.Infof("session %s ready: %d particles from mesh %q", s.id, s.fld.Count(), s.source.Name())
	default:
	}
}

// pollConfig applies every reload that arrived since the last frame. Invalid reloads are logged
// and the settings in effect stay.
func (s *session) pollConfig() {
	if s.updates == nil {
		return
	}
	for {
		select {
		case u := <-s.updates:
			if u.Err != nil {
				s.logger.Warnf("config reload ignored: %v", u.Err)
				continue
			}
			s.logger.Infof("config reloaded")
			s.Apply(u.Settings)
		default:
			return
		}
	}
}

func (s *session) fail(err error) {
	s.state = LoadStateFailed
	s.err = err
	s.logger.Errorf("session %s: %v", s.id, err)
	s.setTitle(fmt.Sprintf("%s (failed: %v)", s.title, err))
}

// buildField builds the particle field for the loaded mesh and hands it to the scene.
func (s *session) buildField() error {
	f, err := field.NewField(s.source,
		field.WithRand(s.rng),
		field.WithPalette(s.settings.Palette),
		field.WithSizeRange(s.settings.Size),
		field.WithRotationRange(s.settings.Rotation),
	)
	if err != nil {
		return fmt.Errorf("build field: %w", err)
	}
	geometry, err := mesh.NewGeometry(s.settings.Geometry)
	if err != nil {
		return fmt.Errorf("build geometry: %w", err)
	}
	f.SetHover(s.tweens.Value(TargetHover).X())
	f.SetPointer(s.tweens.Value(TargetPointer))
	if err := s.sc.SetField(f, geometry); err != nil {
		return err
	}
	s.fld = f
	return nil
}

func (s *session) PointerMove(x, y float64) {
	if !s.haveVP {
		return
	}
	s.inter.PointerMove(s.vp.NDC(x, y))
}

func (s *session) Resize(e window.ResizeEvent) {
	vp, ok := ComputeViewport(e.Width, e.Height, e.PixelRatio())
	if !ok {
		return
	}
	s.vp, s.haveVP = vp, true
	s.cam.SetAspect(vp.Aspect)
	if r := s.sc.Renderer(); r != nil {
		r.Resize(vp.OutputWidth, vp.OutputHeight)
	}
	s.logger.Debugf("viewport %dx%d @%.2f -> %dx%d mobile=%t", vp.Width, vp.Height, vp.DevicePixelRatio, vp.OutputWidth, vp.OutputHeight, vp.Mobile)
}

func (s *session) Apply(settings Settings) {
	prev := s.settings
	s.settings = settings
	s.applyCosmetic(settings)
	s.inter.Configure(settings)

	if prev.VSync != settings.VSync {
		if r := s.sc.Renderer(); r != nil {
			r.SetPresentMode(presentMode(settings.VSync))
			if s.haveVP {
				r.Resize(s.vp.OutputWidth, s.vp.OutputHeight)
			}
		}
	}
	if prev.MSAA != settings.MSAA || prev.FrameLimit != settings.FrameLimit {
		s.logger.Warnf("msaa and frame_limit changes take effect on restart")
	}
	if s.state == LoadStateReady && !particlesEqual(prev, settings) {
		if err := s.buildField(); err != nil {
			s.logger.Errorf("rebuild field: %v", err)
		}
	}
}

// applyCosmetic pushes the settings that need no rebuild to the scene and renderer.
func (s *session) applyCosmetic(settings Settings) {
	s.sc.SetWireframe(settings.Wireframe)
	if r := s.sc.Renderer(); r != nil {
		r.SetClearColor(settings.Background)
	}
}

func (s *session) setTitle(title string) {
	if s.titles != nil {
		s.titles.SetTitle(title)
	}
}

func (s *session) State() LoadState {
	return s.state
}

func (s *session) Err() error {
	return s.err
}

func (s *session) Settings() Settings {
	return s.settings
}

func (s *session) Viewport() (Viewport, bool) {
	return s.vp, s.haveVP
}

func (s *session) Interaction() Interaction {
	return s.inter
}

func (s *session) Field() field.Field {
	return s.fld
}

func (s *session) Close() {
	s.ld.Close()
	s.sc.Release()
}

// presentMode maps the vsync setting to a renderer present mode.
func presentMode(vsync bool) renderer.PresentMode {
	if vsync {
		return renderer.PresentModeVSync
	}
	return renderer.PresentModeUncapped
}
