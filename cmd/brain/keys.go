package main

import (
	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/Carmen-Shannon/oxy-brain/sketch"
)

// profilerSwitch is the part of the engine the P key toggles.
type profilerSwitch interface {
	EnableProfiler()
	DisableProfiler()
	ProfilerEnabled() bool
}

// settingsTarget is the part of the session the W and R keys change.
type settingsTarget interface {
	Settings() sketch.Settings
	Apply(settings sketch.Settings)
}

// newKeyHandler builds the key-down callback for the keyboard shortcuts.
// P toggles the frame profiler, W toggles wireframe and R re-reads configPath.
// A reload that fails to read or validate keeps the settings in effect.
func newKeyHandler(prof profilerSwitch, sess settingsTarget, configPath string, logger common.Logger) func(keyCode uint32) {
	return func(keyCode uint32) {
		switch keyCode {
		case common.KeyP:
			if prof.ProfilerEnabled() {
				prof.DisableProfiler()
				logger.Infof("profiler off")
			} else {
				prof.EnableProfiler()
				logger.Infof("profiler on")
			}
		case common.KeyW:
			settings := sess.Settings()
			settings.Wireframe = !settings.Wireframe
			sess.Apply(settings)
		case common.KeyR:
			cfg, _, err := sketch.LoadConfig(configPath)
			if err != nil {
				logger.Warnf("reload: %v", err)
				return
			}
			settings, err := cfg.Resolve()
			if err != nil {
				logger.Warnf("reload %s: %v", configPath, err)
				return
			}
			logger.Infof("reloaded %s", configPath)
			sess.Apply(settings)
		}
	}
}
