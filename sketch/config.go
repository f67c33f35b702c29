package sketch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/Carmen-Shannon/oxy-brain/engine/field"
	"github.com/Carmen-Shannon/oxy-brain/engine/mesh"
	"github.com/Carmen-Shannon/oxy-brain/engine/tween"
	"github.com/pelletier/go-toml/v2"
)

// PaletteSize is the number of colors a palette must have.
const PaletteSize = 4

var (
	// ErrPaletteSize is returned when the palette does not hold exactly PaletteSize colors.
	ErrPaletteSize = errors.New("palette must have exactly 4 colors")

	// ErrInvalidConfig wraps every other validation failure.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config is the TOML configuration file. Keys left out of the file keep their default.
type Config struct {
	// Background is the clear color as "#rrggbb".
	Background string `toml:"background"`
	// HoverMax is the hover blend reached while the pointer is over the mesh.
	HoverMax float32 `toml:"hover_max"`
	// Wireframe draws particle edges instead of filled triangles.
	Wireframe bool `toml:"wireframe"`
	// Palette holds the four particle colors as "#rrggbb".
	Palette []string `toml:"palette"`

	Particles ParticleConfig  `toml:"particles"`
	Animation AnimationConfig `toml:"animation"`
	Render    RenderConfig    `toml:"render"`
}

// ParticleConfig selects the geometry drawn at each particle and the ranges its parameters are
// drawn from.
type ParticleConfig struct {
	Geometry    string  `toml:"geometry"`
	Radius      float32 `toml:"radius"`
	Height      float32 `toml:"height"`
	Segments    int     `toml:"segments"`
	Detail      int     `toml:"detail"`
	SizeMin     float32 `toml:"size_min"`
	SizeMax     float32 `toml:"size_max"`
	RotationMin float32 `toml:"rotation_min"`
	RotationMax float32 `toml:"rotation_max"`
}

// AnimationConfig tunes the pointer-driven transitions.
type AnimationConfig struct {
	Ease            string  `toml:"ease"`
	HoverDuration   float32 `toml:"hover_duration"`
	PointerDuration float32 `toml:"pointer_duration"`
	CameraDuration  float32 `toml:"camera_duration"`
	CameraKx        float32 `toml:"camera_kx"`
	CameraKy        float32 `toml:"camera_ky"`
}

// RenderConfig holds presentation settings.
type RenderConfig struct {
	VSync      bool    `toml:"vsync"`
	FrameLimit float64 `toml:"frame_limit"`
	MSAA       int     `toml:"msaa"`
}

// Settings is a validated Config with colors, geometry and easing resolved.
type Settings struct {
	Background common.RGB
	HoverMax   float32
	Wireframe  bool
	Palette    []common.RGB

	Geometry mesh.GeometrySpec
	Size     field.Range
	Rotation field.Range

	Ease            tween.Ease
	HoverDuration   float32
	PointerDuration float32
	CameraDuration  float32
	CameraKx        float32
	CameraKy        float32

	VSync      bool
	FrameLimit float64
	MSAA       int
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Background: "#0b0b12",
		HoverMax:   1,
		Wireframe:  true,
		Palette:    []string{"#5b8cff", "#b06cff", "#ff6ca8", "#ffd36c"},
		Particles: ParticleConfig{
			Geometry:    string(mesh.GeometryCone),
			Radius:      0.003,
			Height:      0.005,
			Segments:    10,
			Detail:      1,
			SizeMin:     field.DefaultSizeRange.Min,
			SizeMax:     field.DefaultSizeRange.Max,
			RotationMin: field.DefaultRotationRange.Min,
			RotationMax: field.DefaultRotationRange.Max,
		},
		Animation: AnimationConfig{
			Ease:            "power1.out",
			HoverDuration:   0.3,
			PointerDuration: 0.3,
			CameraDuration:  0.5,
			CameraKx:        0.1,
			CameraKy:        0.1,
		},
		Render: RenderConfig{
			VSync: true,
			MSAA:  4,
		},
	}
}

// DecodeConfig reads TOML from r on top of the defaults. Unknown keys are rejected so typos do
// not silently fall back to defaults.
//
// Parameters:
//   - r: the TOML source
//
// Returns:
//   - Config: the merged configuration
//   - error: error if the TOML is malformed or names an unknown key
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// LoadConfig reads the configuration file at path. A missing file yields the defaults.
//
// Parameters:
//   - path: the TOML file path
//
// Returns:
//   - Config: the configuration
//   - bool: true if the file existed
//   - error: error if the file exists but cannot be read or decoded
func LoadConfig(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), false, nil
	}
	if err != nil {
		return Config{}, false, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Config{}, true, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, true, nil
}

// Resolve validates the configuration and parses its colors, geometry and easing.
//
// Returns:
//   - Settings: the resolved settings
//   - error: ErrPaletteSize or an error wrapping ErrInvalidConfig
func (c Config) Resolve() (Settings, error) {
	if len(c.Palette) != PaletteSize {
		return Settings{}, fmt.Errorf("%w, got %d", ErrPaletteSize, len(c.Palette))
	}
	palette, err := common.ParsePalette(c.Palette)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	background, err := common.ParseHexColor(c.Background)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: background: %w", ErrInvalidConfig, err)
	}
	ease, ok := tween.EaseByName(c.Animation.Ease)
	if !ok {
		return Settings{}, fmt.Errorf("%w: unknown ease %q", ErrInvalidConfig, c.Animation.Ease)
	}

	p := c.Particles
	geometry := mesh.GeometrySpec{
		Kind:     mesh.GeometryKind(p.Geometry),
		Radius:   p.Radius,
		Height:   p.Height,
		Segments: p.Segments,
		Detail:   p.Detail,
	}
	if _, err := mesh.NewGeometry(geometry); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if p.SizeMin <= 0 || p.SizeMin > p.SizeMax {
		return Settings{}, fmt.Errorf("%w: size range [%v, %v]", ErrInvalidConfig, p.SizeMin, p.SizeMax)
	}
	if p.RotationMin > p.RotationMax {
		return Settings{}, fmt.Errorf("%w: rotation range [%v, %v]", ErrInvalidConfig, p.RotationMin, p.RotationMax)
	}
	if c.HoverMax < 0 {
		return Settings{}, fmt.Errorf("%w: hover_max must be >= 0, got %v", ErrInvalidConfig, c.HoverMax)
	}

	a := c.Animation
	if a.HoverDuration < 0 || a.PointerDuration < 0 || a.CameraDuration < 0 {
		return Settings{}, fmt.Errorf("%w: durations must be >= 0", ErrInvalidConfig)
	}
	switch c.Render.MSAA {
	case 1, 4:
	default:
		return Settings{}, fmt.Errorf("%w: msaa must be 1 or 4, got %d", ErrInvalidConfig, c.Render.MSAA)
	}

	return Settings{
		Background:      background,
		HoverMax:        c.HoverMax,
		Wireframe:       c.Wireframe,
		Palette:         palette,
		Geometry:        geometry,
		Size:            field.Range{Min: p.SizeMin, Max: p.SizeMax},
		Rotation:        field.Range{Min: p.RotationMin, Max: p.RotationMax},
		Ease:            ease,
		HoverDuration:   a.HoverDuration,
		PointerDuration: a.PointerDuration,
		CameraDuration:  a.CameraDuration,
		CameraKx:        a.CameraKx,
		CameraKy:        a.CameraKy,
		VSync:           c.Render.VSync,
		FrameLimit:      c.Render.FrameLimit,
		MSAA:            c.Render.MSAA,
	}, nil
}

// particlesEqual reports whether two settings build identical fields.
func particlesEqual(a, b Settings) bool {
	if a.Geometry != b.Geometry || a.Size != b.Size || a.Rotation != b.Rotation || len(a.Palette) != len(b.Palette) {
		return false
	}
	for i := range a.Palette {
		if a.Palette[i] != b.Palette[i] {
			return false
		}
	}
	return true
}
