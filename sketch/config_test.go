package sketch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/Carmen-Shannon/oxy-brain/engine/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigResolves(t *testing.T) {
	s, err := DefaultConfig().Resolve()
	require.NoError(t, err)

	assert.Len(t, s.Palette, PaletteSize)
	assert.True(t, s.Wireframe)
	assert.Equal(t, float32(1), s.HoverMax)
	assert.Equal(t, mesh.GeometryCone, s.Geometry.Kind)
	assert.Equal(t, 10, s.Geometry.Segments)
	assert.Equal(t, float32(0.3), s.HoverDuration)
	assert.Equal(t, float32(0.5), s.CameraDuration)
	assert.True(t, s.VSync)
}

func TestDecodeConfigOverridesOnlyGivenKeys(t *testing.T) {
	src := `
background = "#ffffff"
hover_max = 0.5
wireframe = false

[particles]
geometry = "icosahedron"
radius = 0.005

[animation]
ease = "expo.out"
`
	cfg, err := DecodeConfig(strings.NewReader(src))
	require.NoError(t, err)
	s, err := cfg.Resolve()
	require.NoError(t, err)

	assert.Equal(t, common.RGB{1, 1, 1}, s.Background)
	assert.Equal(t, float32(0.5), s.HoverMax)
	assert.False(t, s.Wireframe)
	assert.Equal(t, mesh.GeometryIcosahedron, s.Geometry.Kind)
	assert.Equal(t, float32(0.005), s.Geometry.Radius)
	assert.Equal(t, DefaultConfig().Palette, cfg.Palette)
	assert.Equal(t, float32(0.1), s.CameraKx)
}

func TestDecodeConfigRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeConfig(strings.NewReader("hover_maxx = 1.0\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = DecodeConfig(strings.NewReader("hover_max = [\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestResolveValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"three colors", func(c *Config) { c.Palette = c.Palette[:3] }, ErrPaletteSize},
		{"five colors", func(c *Config) { c.Palette = append(c.Palette, "#000000") }, ErrPaletteSize},
		{"bad color", func(c *Config) { c.Palette[2] = "#zzzzzz" }, ErrInvalidConfig},
		{"bad background", func(c *Config) { c.Background = "blue" }, ErrInvalidConfig},
		{"unknown ease", func(c *Config) { c.Animation.Ease = "bounce" }, ErrInvalidConfig},
		{"unknown geometry", func(c *Config) { c.Particles.Geometry = "torus" }, ErrInvalidConfig},
		{"inverted size", func(c *Config) { c.Particles.SizeMin = 4 }, ErrInvalidConfig},
		{"inverted rotation", func(c *Config) { c.Particles.RotationMin = 2 }, ErrInvalidConfig},
		{"negative hover", func(c *Config) { c.HoverMax = -1 }, ErrInvalidConfig},
		{"bad msaa", func(c *Config) { c.Render.MSAA = 8 }, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Palette = append([]string(nil), cfg.Palette...)
			tt.mutate(&cfg)
			_, err := cfg.Resolve()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, found, err := LoadConfig(filepath.Join(t.TempDir(), "brain.toml"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brain.toml")
	require.NoError(t, os.WriteFile(path, []byte("wireframe = false\n"), 0o644))

	cfg, found, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, cfg.Wireframe)
}

func TestParticlesEqual(t *testing.T) {
	a := testSettings(t)
	b := testSettings(t)
	assert.True(t, particlesEqual(a, b))

	b.HoverMax = 0.2
	b.Background = common.RGB{1, 0, 0}
	assert.True(t, particlesEqual(a, b))

	b.Palette = append([]common.RGB(nil), b.Palette...)
	b.Palette[0] = common.RGB{0, 0, 0}
	assert.False(t, particlesEqual(a, b))
}

func TestConfigWatcherPublishesReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brain.toml")
	require.NoError(t, os.WriteFile(path, []byte("hover_max = 1.0\n"), 0o644))

	w, err := WatchConfig(path, common.NopLogger())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("hover_max = 0.25\n"), 0o644))
	u := waitForUpdate(t, w, func(u ConfigUpdate) bool { return u.Err == nil && u.Settings.HoverMax == 0.25 })
	assert.NoError(t, u.Err)

	require.NoError(t, os.WriteFile(path, []byte("palette = [\"#000000\"]\n"), 0o644))
	u = waitForUpdate(t, w, func(u ConfigUpdate) bool { return u.Err != nil })
	assert.ErrorIs(t, u.Err, ErrPaletteSize)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

// waitForUpdate reads updates until one matches. A single save can produce several write events,
// so earlier partial reads are skipped.
func waitForUpdate(t *testing.T, w *ConfigWatcher, match func(ConfigUpdate) bool) ConfigUpdate {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case u := <-w.Updates():
			if match(u) {
				return u
			}
		case <-deadline:
			t.Fatal("no matching config update")
			return ConfigUpdate{}
		}
	}
}
