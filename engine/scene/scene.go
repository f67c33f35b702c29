package scene

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/Carmen-Shannon/oxy-brain/engine/camera"
	"github.com/Carmen-Shannon/oxy-brain/engine/field"
	"github.com/Carmen-Shannon/oxy-brain/engine/mesh"
	"github.com/Carmen-Shannon/oxy-brain/engine/renderer"
	"github.com/Carmen-Shannon/oxy-brain/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-brain/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-brain/engine/renderer/shader"
)

// Scene draws one particle field with one camera. Until a field is attached the scene draws
// nothing and the frame only clears.
type Scene interface {
	// Name returns the scene name.
	Name() string

	// Active reports whether the engine renders this scene.
	Active() bool

	// SetActive toggles rendering of the scene.
	//
	// Parameters:
	//   - active: whether the scene is rendered
	SetActive(active bool)

	// Camera returns the scene camera.
	Camera() camera.Camera

	// Renderer returns the renderer the scene draws with.
	Renderer() renderer.Renderer

	// Field returns the attached field, or nil while none is attached.
	Field() field.Field

	// SetField uploads a field and the geometry drawn at each of its particles, replacing any
	// field attached before. The particle buffer is created once here and never written again.
	//
	// Parameters:
	//   - f: the particle field
	//   - geometry: the instance geometry
	//
	// Returns:
	//   - error: error if a GPU resource could not be created; the previous field stays attached
	SetField(f field.Field, geometry *mesh.InstanceGeometry) error

	// Wireframe reports whether particles are drawn as edges instead of filled triangles.
	Wireframe() bool

	// SetWireframe switches between the edge and the filled pipeline.
	//
	// Parameters:
	//   - enabled: true to draw edges
	SetWireframe(enabled bool)

	// Elapsed returns the seconds the field has been drawn for.
	Elapsed() float32

	// Prepare advances the shader clock and uploads the camera and field uniforms. The field
	// uniform is skipped when neither the clock nor the field's shared block changed.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame
	Prepare(deltaTime float32)

	// DrawCalls encodes the instanced draw of the field in the current render pass.
	//
	// Returns:
	//   - error: error if the draw call could not be issued
	DrawCalls() error

	// Release frees the GPU resources owned by the scene.
	Release()
}

// bindings records where each uniform and storage block lives in the shader.
type bindings struct {
	group    int
	camera   int
	params   int
	particle int
}

type scene struct {
	mu *sync.RWMutex

	name   string
	label  string
	active bool

	cam camera.Camera
	r   renderer.Renderer
	sh  shader.Shader

	solidKey string
	wireKey  string
	layout   bindings

	wireframe bool
	elapsed   float32

	fld         field.Field
	fieldBGP    bind_group_provider.BindGroupProvider
	solidMesh   bind_group_provider.BindGroupProvider
	wireMesh    bind_group_provider.BindGroupProvider
	instanceLen int

	// The field uniform last written, so unchanged frames skip the upload.
	paramsWritten bool
	paramsVersion uint64
	paramsTime    float32

	// Pre-allocated slices reused each frame to avoid per-frame allocations.
	writePool          []bind_group_provider.BufferWrite
	drawBindGroupsPool []bind_group_provider.BindGroupProvider
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a Scene drawing with the given camera, renderer and particle shader.
// The shader's group annotations are scanned for the camera, field and particle blocks, which
// must share one bind group. Both the filled and the wireframe pipeline are registered with the
// renderer here.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - sh: the particle shader (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
//   - error: error if the shader layout is unusable or a pipeline cannot be registered
func NewScene(name string, cam camera.Camera, r renderer.Renderer, sh shader.Shader, options ...SceneBuilderOption) (Scene, error) {
	if cam == nil || r == nil || sh == nil {
		return nil, fmt.Errorf("scene %q: camera, renderer and shader are required", name)
	}

	s := &scene{
		mu:                 &sync.RWMutex{},
		name:               name,
		label:              name,
		active:             true,
		cam:                cam,
		r:                  r,
		sh:                 sh,
		wireframe:          true,
		drawBindGroupsPool: make([]bind_group_provider.BindGroupProvider, 0, 1),
		writePool:          make([]bind_group_provider.BufferWrite, 0, 3),
	}
	for _, option := range options {
		option(s)
	}

	layout, err := resolveBindings(sh)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", name, err)
	}
	s.layout = layout

	s.solidKey = sh.Key() + ".solid"
	s.wireKey = sh.Key() + ".wire"
	err = r.RegisterPipelines(
		pipeline.NewPipeline(s.solidKey, pipeline.WithShader(sh), pipeline.WithWireframe(false)),
		pipeline.NewPipeline(s.wireKey, pipeline.WithShader(sh), pipeline.WithWireframe(true)),
	)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", name, err)
	}
	return s, nil
}

// resolveBindings matches the shader's group declarations to the camera, field and particle blocks.
func resolveBindings(sh shader.Shader) (bindings, error) {
	b := bindings{group: -1, camera: -1, params: -1, particle: -1}
	for _, decl := range sh.Declarations() {
		if decl.Type != shader.AnnotationTypeBindingGroup || decl.Group == nil || decl.Binding == nil {
			continue
		}
		if b.group >= 0 && *decl.Group != b.group {
			return b, fmt.Errorf("shader %q: uniform blocks span groups %d and %d", sh.Key(), b.group, *decl.Group)
		}
		b.group = *decl.Group

		typeArg := string(decl.Args[2])
		if stripped, ok := strings.CutPrefix(typeArg, "array<"); ok {
			typeArg = strings.TrimSuffix(stripped, ">")
		}
		switch shader.AnnotationArg(typeArg) {
		case shader.AnnotationArgCamera:
			b.camera = *decl.Binding
		case shader.AnnotationArgField:
			b.params = *decl.Binding
		case shader.AnnotationArgParticle:
			b.particle = *decl.Binding
		}
	}
	if b.camera < 0 || b.params < 0 || b.particle < 0 {
		return b, fmt.Errorf("shader %q must declare camera, field and particle bindings", sh.Key())
	}
	return b, nil
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Field() field.Field {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fld
}

func (s *scene) SetField(f field.Field, geometry *mesh.InstanceGeometry) error {
	if f == nil || geometry == nil {
		return fmt.Errorf("scene %q: field and geometry are required", s.name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The current field stays bound until its replacement is fully built.
	vertexData := common.SliceToBytes(geometry.Vertices)

	solid := bind_group_provider.NewBindGroupProvider(s.label + ".mesh.solid")
	if err := s.r.InitMeshBuffers(solid, vertexData, common.SliceToBytes(geometry.Triangles), len(geometry.Triangles)); err != nil {
		return fmt.Errorf("scene %q: solid mesh: %w", s.name, err)
	}
	wire := bind_group_provider.NewBindGroupProvider(s.label + ".mesh.wire")
	if err := s.r.InitMeshBuffers(wire, vertexData, common.SliceToBytes(geometry.Edges), len(geometry.Edges)); err != nil {
		solid.Release()
		return fmt.Errorf("scene %q: wire mesh: %w", s.name, err)
	}

	// An empty field still gets a one-particle buffer; zero-sized storage bindings are invalid.
	instances := f.GPUInstances()
	particleBytes := uint64(max(len(instances), 1)) * uint64(field.GPUInstanceSize)
	bgp := bind_group_provider.NewBindGroupProvider(s.label + ".field")
	overrides := map[int]uint64{s.layout.particle: particleBytes}
	if err := s.r.InitBindGroup(bgp, s.sh.BindGroupLayoutDescriptor(s.layout.group), overrides); err != nil {
		solid.Release()
		wire.Release()
		return fmt.Errorf("scene %q: field bind group: %w", s.name, err)
	}
	if len(instances) > 0 {
		s.r.WriteBuffers([]bind_group_provider.BufferWrite{{
			Provider: bgp,
			Binding:  s.layout.particle,
			Data:     common.SliceToBytes(instances),
		}})
	}

	s.releaseField()
	s.fld = f
	s.fieldBGP = bgp
	s.solidMesh = solid
	s.wireMesh = wire
	s.instanceLen = len(instances)
	s.elapsed = 0
	s.paramsWritten = false
	return nil
}

func (s *scene) Wireframe() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wireframe
}

func (s *scene) SetWireframe(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wireframe = enabled
}

func (s *scene) Elapsed() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elapsed
}

func (s *scene) Prepare(deltaTime float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fld == nil {
		return
	}
	s.elapsed += deltaTime

	camUniform := s.cam.GPUUniform()
	s.writePool = append(s.writePool[:0],
		bind_group_provider.BufferWrite{Provider: s.fieldBGP, Binding: s.layout.camera, Data: camUniform.Marshal()},
	)
	if version := s.fld.Version(); !s.paramsWritten || version != s.paramsVersion || s.elapsed != s.paramsTime {
		fieldUniform := s.fld.GPUUniform(s.elapsed)
		s.writePool = append(s.writePool,
			bind_group_provider.BufferWrite{Provider: s.fieldBGP, Binding: s.layout.params, Data: fieldUniform.Marshal()},
		)
		s.paramsWritten, s.paramsVersion, s.paramsTime = true, version, s.elapsed
	}
	s.r.WriteBuffers(s.writePool)
}

func (s *scene) DrawCalls() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.fld == nil || s.instanceLen == 0 {
		return nil
	}

	key, meshProvider := s.solidKey, s.solidMesh
	if s.wireframe {
		key, meshProvider = s.wireKey, s.wireMesh
	}

	bindGroups := append(s.drawBindGroupsPool[:0], s.fieldBGP)
	if err := s.r.DrawCall(key, meshProvider, uint32(s.instanceLen), bindGroups); err != nil {
		return fmt.Errorf("draw call failed in scene %q: %w", s.name, err)
	}
	return nil
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseField()
}

// releaseField frees the field's GPU resources. Callers hold s.mu.
func (s *scene) releaseField() {
	for _, p := range []bind_group_provider.BindGroupProvider{s.fieldBGP, s.solidMesh, s.wireMesh} {
		if p != nil {
			p.Release()
		}
	}
	s.fieldBGP, s.solidMesh, s.wireMesh = nil, nil, nil
	s.fld = nil
	s.instanceLen = 0
}
