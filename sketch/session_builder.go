package sketch

import (
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-brain/common"
)

// SessionBuilderOption is a functional option for configuring a Session.
type SessionBuilderOption func(*session)

// WithID sets the session id used in logs and GPU labels.
func WithID(id string) SessionBuilderOption {
	return func(s *session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithLogger sets the logger. Lines are tagged [Sketch].
func WithLogger(logger common.Logger) SessionBuilderOption {
	return func(s *session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithModelPath sets the model file loaded by Start.
//
// Parameters:
//   - path: a .glb or .gltf path
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithModelPath(path string) SessionBuilderOption {
	return func(s *session) {
		if path != "" {
			s.modelPath = path
		}
	}
}

// WithSeed makes per-particle values reproducible.
//
// Parameters:
//   - seed: the PCG seed
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithSeed(seed uint64) SessionBuilderOption {
	return func(s *session) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithTitle sets the base window title; load progress is appended to it.
func WithTitle(title string) SessionBuilderOption {
	return func(s *session) {
		s.title = title
	}
}

// WithTitleSetter sets where load progress is reported, typically the window.
func WithTitleSetter(t TitleSetter) SessionBuilderOption {
	return func(s *session) {
		s.titles = t
	}
}

// WithConfigUpdates sets the channel configuration reloads arrive on.
//
// Parameters:
//   - updates: usually ConfigWatcher.Updates()
//
// Returns:
//   - SessionBuilderOption: option function to apply
func WithConfigUpdates(updates <-chan ConfigUpdate) SessionBuilderOption {
	return func(s *session) {
		s.updates = updates
	}
}
