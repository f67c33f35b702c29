package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-brain/engine/mesh"
)

// loaderBackend defines the generic interface for loading a source mesh from files or streams.
// Concrete implementations (e.g., gltfLoaderBackendImpl) handle format-specific details.
type loaderBackend interface {
	// Load reads the file at path and returns its selected mesh.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *mesh.SourceMesh: the mesh
	//   - error: a *LoadError if loading fails
	Load(path string) (*mesh.SourceMesh, error)

	// LoadReader reads a self-contained document (GLB, or glTF JSON with embedded buffers) from r.
	//
	// Parameters:
	//   - name: the name used for errors and as the fallback mesh name
	//   - r: the reader providing model data
	//
	// Returns:
	//   - *mesh.SourceMesh: the mesh
	//   - error: a *LoadError if loading fails
	LoadReader(name string, r io.Reader) (*mesh.SourceMesh, error)
}
