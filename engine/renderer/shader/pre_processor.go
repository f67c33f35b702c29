// pre_processor.go implements the WGSL shader pre-processor. It replaces @oxy: annotations with
// the embedded struct sources of the engine's GPU types, or with generated binding declarations,
// so the Go structs and the WGSL that reads them share one definition.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-brain/engine/camera"
	"github.com/Carmen-Shannon/oxy-brain/engine/field"
	"github.com/Carmen-Shannon/oxy-brain/engine/mesh"
)

// registryEntry pairs a WGSL struct source string (embedded from a .wgsl asset file)
// with the WGSL type name used in generated declarations.
type registryEntry struct {
	Source string
	Type   string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string
	declarations         []Annotation
}

// PreProcessor processes WGSL source containing @oxy: annotations.
type PreProcessor interface {
	// Process replaces every annotation in source with its WGSL output. Each struct is injected
	// at most once even if included repeatedly.
	//
	// Parameters:
	//   - source: the annotated WGSL source
	//
	// Returns:
	//   - string: plain WGSL
	//   - error: an error if an annotation is malformed
	Process(source string) (string, error)

	// Declarations returns the group annotations found by the most recent Process call, in
	// source order.
	//
	// Returns:
	//   - []Annotation: the binding declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's GPU struct types registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera:   {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
			AnnotationArgField:    {Source: field.GPUFieldUniformSource, Type: "FieldUniform"},
			AnnotationArgParticle: {Source: field.GPUParticleSource, Type: "Particle"},
			annotationArgVertex:   {Source: mesh.GPUVertexSource, Type: "VertexInput"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform:   "var<uniform>",
			annotationArgStorageTypeRead:      "var<storage, read>",
			annotationArgStorageTypeReadWrite: "var<storage, read_write>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	included := make(map[AnnotationArg]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			if included[a.Args[0]] {
				continue
			}
			included[a.Args[0]] = true
			out = append(out, strings.TrimRight(p.structRegistry[a.Args[0]].Source, "\n"))
		case AnnotationTypeBindingGroup:
			wgslType := p.resolveType(string(a.Args[2]))
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				*a.Group, *a.Binding, p.addressSpaceRegistry[a.Args[0]], a.Args[1], wgslType))
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

// resolveType maps a struct key, or array<key>, to its WGSL type name.
func (p *preProcessor) resolveType(key string) string {
	if inner, ok := strings.CutPrefix(key, "array<"); ok {
		inner = strings.TrimSuffix(inner, ">")
		return fmt.Sprintf("array<%s>", p.structRegistry[AnnotationArg(inner)].Type)
	}
	return p.structRegistry[AnnotationArg(key)].Type
}
