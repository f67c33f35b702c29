package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/Carmen-Shannon/oxy-brain/engine/mesh"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// Result is the single completion delivered for an asynchronous load.
// Exactly one of Mesh and Err is set.
type Result struct {
	Source string
	Mesh   *mesh.SourceMesh
	Err    error
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	meshCache map[string]*mesh.SourceMesh

	backend loaderBackend
	logger  common.Logger

	pool       worker.DynamicWorkerPool
	maxWorkers int
	taskID     atomic.Int64
	closed     bool
	closeOnce  sync.Once
	inflight   map[*request]struct{}
}

// request is one pending LoadAsync completion.
type request struct {
	once   sync.Once
	source string
	out    chan Result
}

// deliver sends r unless a result was already sent.
func (q *request) deliver(r Result) {
	q.once.Do(func() {
		q.out <- r
		close(q.out)
	})
}

// Loader defines the public-facing interface for loading and caching source meshes.
// It abstracts the file format (glTF, GLB) behind a backend and keeps a cache of meshes already
// loaded, keyed by path or stream name.
type Loader interface {
	// Load reads a model file and caches the resulting mesh.
	// If the path is already cached, the cached mesh is returned.
	// The backend is selected from the file extension (.gltf/.glb → glTF backend).
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - *mesh.SourceMesh: the loaded mesh
	//   - error: a *LoadError wrapping one of the package sentinels
	Load(path string) (*mesh.SourceMesh, error)

	// LoadReader reads a self-contained model from a stream and caches it by name.
	//
	// Parameters:
	//   - name: the cache key for the loaded mesh
	//   - r: the reader providing GLB or embedded-buffer glTF data
	//
	// Returns:
	//   - *mesh.SourceMesh: the loaded mesh
	//   - error: a *LoadError wrapping one of the package sentinels
	LoadReader(name string, r io.Reader) (*mesh.SourceMesh, error)

	// LoadAsync runs Load on the worker pool. The returned channel receives exactly one Result
	// and is then closed. It never blocks the caller beyond queueing the task.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - <-chan Result: the one-shot completion
	LoadAsync(path string) <-chan Result

	// Get retrieves a cached mesh by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *mesh.SourceMesh: the cached mesh or nil
	Get(name string) *mesh.SourceMesh

	// Meshes returns a copy of the mesh cache.
	//
	// Returns:
	//   - map[string]*mesh.SourceMesh: all cached meshes keyed by name
	Meshes() map[string]*mesh.SourceMesh

	// Close stops the worker pool. Requests still queued and later LoadAsync calls complete
	// with ErrClosed.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		meshCache:  make(map[string]*mesh.SourceMesh),
		inflight:   make(map[*request]struct{}),
		logger:     common.NopLogger(),
		maxWorkers: 1,
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	l.pool = worker.NewDynamicWorkerPool(l.maxWorkers, 16, time.Second)
	return l
}

func (l *loader) Load(path string) (*mesh.SourceMesh, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	m, err := backend.Load(path)
	if err != nil {
		return nil, err
	}
	l.logger.Infof("loaded %s: mesh %q, %d vertices, %d triangles in %s",
		path, m.Name(), m.VertexCount(), m.TriangleCount(), time.Since(start).Round(time.Millisecond))

	l.store(path, m)
	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader) (*mesh.SourceMesh, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	m, err := l.backend.LoadReader(name, r)
	if err != nil {
		return nil, err
	}
	l.logger.Debugf("loaded stream %q: %d vertices", name, m.VertexCount())

	l.store(name, m)
	return m, nil
}

func (l *loader) LoadAsync(path string) <-chan Result {
	req := &request{source: path, out: make(chan Result, 1)}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		req.deliver(Result{Source: path, Err: &LoadError{Source: path, Err: ErrClosed}})
		return req.out
	}
	l.inflight[req] = struct{}{}
	l.mu.Unlock()

	l.pool.SubmitTask(worker.Task{
		ID:      int(l.taskID.Add(1)),
		Payload: path,
		Do: func() (any, error) {
			m, err := l.Load(path)
			if err != nil {
				l.logger.Errorf("%v", err)
			}
			l.finish(req, Result{Source: path, Mesh: m, Err: err})
			return m, err
		},
	})
	return req.out
}

func (l *loader) finish(req *request, r Result) {
	l.mu.Lock()
	delete(l.inflight, req)
	l.mu.Unlock()
	req.deliver(r)
}

func (l *loader) Get(name string) *mesh.SourceMesh {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.meshCache[name]
}

func (l *loader) Meshes() map[string]*mesh.SourceMesh {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*mesh.SourceMesh, len(l.meshCache))
	for k, v := range l.meshCache {
		result[k] = v
	}
	return result
}

func (l *loader) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		pending := l.inflight
		l.inflight = make(map[*request]struct{})
		l.mu.Unlock()

		l.pool.Stop()
		for req := range pending {
			req.deliver(Result{Source: req.source, Err: &LoadError{Source: req.source, Err: ErrClosed}})
		}
	})
}

func (l *loader) store(key string, m *mesh.SourceMesh) {
	l.mu.Lock()
	l.meshCache[key] = m
	l.mu.Unlock()
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, &LoadError{Source: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)}
	}
}
