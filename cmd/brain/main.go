// Command brain opens a window and renders the brain particle field.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/Carmen-Shannon/oxy-brain/engine"
	"github.com/Carmen-Shannon/oxy-brain/engine/camera"
	"github.com/Carmen-Shannon/oxy-brain/engine/loader"
	"github.com/Carmen-Shannon/oxy-brain/engine/renderer"
	"github.com/Carmen-Shannon/oxy-brain/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-brain/engine/scene"
	"github.com/Carmen-Shannon/oxy-brain/engine/window"
	"github.com/Carmen-Shannon/oxy-brain/sketch"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

type options struct {
	configPath string
	modelPath  string
	debug      bool
	seed       uint64
	software   bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := pflag.NewFlagSet("brain", pflag.ContinueOnError)
	fs.StringVarP(&o.configPath, "config", "c", "brain.toml", "TOML configuration file; missing means defaults")
	fs.StringVarP(&o.modelPath, "model", "m", sketch.DefaultModelPath, "glTF model whose vertices become particles")
	fs.BoolVarP(&o.debug, "debug", "d", false, "debug logging and the frame profiler")
	fs.Uint64Var(&o.seed, "seed", 0, "seed for per-particle sizes, rotations and colors; 0 picks one from the clock")
	fs.BoolVar(&o.software, "software", false, "use a software GPU adapter")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(o); err != nil {
		fmt.Fprintf(os.Stderr, "brain: %v\n", err)
		os.Exit(1)
	}
}

func run(o options) error {
	id := uuid.NewString()
	logger := common.NewLogger("Main", o.debug)

	cfg, found, err := sketch.LoadConfig(o.configPath)
	if err != nil {
		return err
	}
	settings, err := cfg.Resolve()
	if err != nil {
		return fmt.Errorf("%s: %w", o.configPath, err)
	}
	if !found {
		logger.Infof("no config at %s, using defaults", o.configPath)
	}

	win := window.NewWindow(window.WithTitle("oxy-brain"), window.WithSize(1280, 720))
	defer win.Close()

	msaa := renderer.MSAA4x
	if settings.MSAA == 1 {
		msaa = renderer.MSAAOff
	}
	presentMode := renderer.PresentModeVSync
	if !settings.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithLabel(id),
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithClearColor(settings.Background),
		renderer.WithForceSoftwareRenderer(o.software),
	)

	cam := camera.NewCamera(
		camera.WithFov(common.DegToRad(75)),
		camera.WithNear(0.1),
		camera.WithFar(100),
		camera.WithController(camera.NewCameraController(
			camera.WithRadius(4),
			camera.WithRadiusBounds(0.5, 10),
		)),
	)

	sh, err := shader.NewShader("brain", shader.BrainSource)
	if err != nil {
		return err
	}
	sc, err := scene.NewScene("brain", cam, r, sh,
		scene.WithLabel(id),
		scene.WithWireframe(settings.Wireframe),
	)
	if err != nil {
		return err
	}

	ld := loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogger(logger), loader.WithMaxWorkers(1))

	sessionOptions := []sketch.SessionBuilderOption{
		sketch.WithID(id),
		sketch.WithLogger(logger),
		sketch.WithModelPath(o.modelPath),
		sketch.WithTitle("oxy-brain"),
		sketch.WithTitleSetter(win),
	}
	if o.seed != 0 {
		sessionOptions = append(sessionOptions, sketch.WithSeed(o.seed))
	}
	if found {
		watcher, err := sketch.WatchConfig(o.configPath, logger)
		if err != nil {
			logger.Warnf("config reload disabled: %v", err)
		} else {
			defer watcher.Close()
			sessionOptions = append(sessionOptions, sketch.WithConfigUpdates(watcher.Updates()))
		}
	}
	sess, err := sketch.NewSession(sc, ld, settings, sessionOptions...)
	if err != nil {
		return err
	}
	defer sess.Close()

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithLogger(logger),
		engine.WithProfiling(o.debug),
		engine.WithRenderFrameLimit(settings.FrameLimit),
		engine.WithScene(0, sc),
	)
	eng.SetUpdateCallback(sess.Update)
	eng.SetResizeCallback(sess.Resize)
	win.SetPointerMoveCallback(sess.PointerMove)
	win.SetKeyDownCallback(newKeyHandler(eng, sess, o.configPath, logger))

	w, h := win.Size()
	fbw, fbh := win.FramebufferSize()
	sess.Resize(window.ResizeEvent{Width: w, Height: h, FramebufferWidth: fbw, FramebufferHeight: fbh})

	logger.Infof("session %s started", id)
	sess.Start()
	return eng.Run()
}
