package shader

import (
	_ "embed"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// BrainSource is the annotated WGSL of the particle field material. One module carries both the
// vertex and the fragment stage.
//
//go:embed assets/brain.wgsl
var BrainSource string

// shader is the implementation of the Shader interface.
// It holds everything the renderer needs to build a render pipeline and its bind groups.
type shader struct {
	key                        string
	source                     string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              map[int][]wgpu.VertexBufferLayout
	vertexEntryPoint           string
	fragmentEntryPoint         string
	module                     *wgpu.ShaderModuleDescriptor

	pp PreProcessor
}

// Shader is a pre-processed and parsed WGSL render module holding a vertex and a fragment entry
// point. It exposes the layouts and names the renderer needs to wire buffers to the module.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source, with every annotation expanded.
	//
	// Returns:
	//   - string: plain WGSL
	Source() string

	// BindGroupLayoutDescriptor retrieves the layout descriptor for one bind group.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty one if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors keyed by group.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the WGSL variable bound at group/binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or "" if nothing is bound there
	BindGroupVarName(group, binding int) string

	// BindGroupFromVarName retrieves the binding index of a WGSL variable within a group.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the WGSL variable name
	//
	// Returns:
	//   - int: the binding index, or -1 if not found
	//   - bool: true if the variable was found
	BindGroupFromVarName(group int, varName string) (int, bool)

	// VertexLayout retrieves the vertex buffer layout stored under key.
	VertexLayout(key int) []wgpu.VertexBufferLayout

	// VertexLayouts retrieves every vertex buffer layout parsed from the source.
	VertexLayouts() map[int][]wgpu.VertexBufferLayout

	// VertexEntryPoint returns the name of the @vertex function.
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	FragmentEntryPoint() string

	// Module returns the shader module descriptor built from the pre-processed source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor with the WGSL code and the shader key as label
	Module() *wgpu.ShaderModuleDescriptor

	// Declarations returns the @oxy:group annotations found in the source, in source order.
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes and parses a WGSL render module. The source must declare both a
// @vertex and a @fragment entry point. Bindings are visible to both stages.
//
// Parameters:
//   - key: a unique identifier for the shader, also used as the GPU label
//   - source: the annotated WGSL source
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if pre-processing fails or an entry point is missing
func NewShader(key string, source string) (Shader, error) {
	s := &shader{
		key: key,
		pp:  NewPreProcessor(),
	}

	processed, err := s.pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: pre-process: %w", key, err)
	}
	s.source = processed

	s.vertexEntryPoint = parseEntryPoint(processed, wgpu.ShaderStageVertex)
	s.fragmentEntryPoint = parseEntryPoint(processed, wgpu.ShaderStageFragment)
	if s.vertexEntryPoint == "" || s.fragmentEntryPoint == "" {
		return nil, fmt.Errorf("shader %s: source must declare a @vertex and a @fragment entry point", key)
	}

	s.vertexLayouts = parseVertexLayouts(processed)
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(processed,
		wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: processed,
		},
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) VertexLayout(key int) []wgpu.VertexBufferLayout {
	return s.vertexLayouts[key]
}

func (s *shader) VertexLayouts() map[int][]wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntryPoint
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) Declarations() []Annotation {
	return s.pp.Declarations()
}
