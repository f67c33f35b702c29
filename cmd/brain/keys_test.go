package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/Carmen-Shannon/oxy-brain/sketch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfiler struct{ enabled bool }

func (p *fakeProfiler) EnableProfiler()       { p.enabled = true }
func (p *fakeProfiler) DisableProfiler()      { p.enabled = false }
func (p *fakeProfiler) ProfilerEnabled() bool { return p.enabled }

type fakeSession struct {
	settings sketch.Settings
	applied  int
}

func (s *fakeSession) Settings() sketch.Settings { return s.settings }
func (s *fakeSession) Apply(settings sketch.Settings) {
	s.settings = settings
	s.applied++
}

func defaultSettings(t *testing.T) sketch.Settings {
	t.Helper()
	settings, err := sketch.DefaultConfig().Resolve()
	require.NoError(t, err)
	return settings
}

func TestKeyPTogglesProfiler(t *testing.T) {
	prof := &fakeProfiler{}
	onKey := newKeyHandler(prof, &fakeSession{}, "unused.toml", common.NopLogger())

	onKey(common.KeyP)
	assert.True(t, prof.enabled)
	onKey(common.KeyP)
	assert.False(t, prof.enabled)
}

func TestKeyWTogglesWireframe(t *testing.T) {
	sess := &fakeSession{settings: defaultSettings(t)}
	wire := sess.settings.Wireframe
	onKey := newKeyHandler(&fakeProfiler{}, sess, "unused.toml", common.NopLogger())

	onKey(common.KeyW)
	assert.Equal(t, !wire, sess.settings.Wireframe)
	onKey(common.KeyW)
	assert.Equal(t, wire, sess.settings.Wireframe)
	assert.Equal(t, 2, sess.applied)
}

func TestKeyRReloadsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brain.toml")
	require.NoError(t, os.WriteFile(path, []byte("hover_max = 0.5\n"), 0o644))
	sess := &fakeSession{settings: defaultSettings(t)}
	onKey := newKeyHandler(&fakeProfiler{}, sess, path, common.NopLogger())

	onKey(common.KeyR)
	require.Equal(t, 1, sess.applied)
	assert.Equal(t, float32(0.5), sess.settings.HoverMax)

	require.NoError(t, os.WriteFile(path, []byte("palette = [\"#ffffff\"]\n"), 0o644))
	onKey(common.KeyR)
	assert.Equal(t, 1, sess.applied, "invalid file keeps the settings in effect")
	assert.Equal(t, float32(0.5), sess.settings.HoverMax)
}

func TestOtherKeysAreIgnored(t *testing.T) {
	prof := &fakeProfiler{}
	sess := &fakeSession{}
	newKeyHandler(prof, sess, "unused.toml", common.NopLogger())(common.KeyEsc)
	assert.False(t, prof.enabled)
	assert.Zero(t, sess.applied)
}
