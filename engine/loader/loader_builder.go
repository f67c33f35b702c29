package loader

import (
	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/Carmen-Shannon/oxy-brain/engine/mesh"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger sets the logger used to report loads. Defaults to a no-op logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger common.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMaxWorkers sets the size of the loader's worker pool.
func WithMaxWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.maxWorkers = n
		}
	}
}

// WithMesh is an option builder that pre-populates the mesh cache.
//
// Parameters:
//   - key: the cache key for the mesh
//   - m: the mesh to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the mesh option to a loader
func WithMesh(key string, m *mesh.SourceMesh) LoaderBuilderOption {
	return func(l *loader) {
		l.meshCache[key] = m
	}
}
