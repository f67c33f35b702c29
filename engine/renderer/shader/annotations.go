// annotations.go defines the annotation syntax understood by the WGSL pre-processor.
// Annotations are single-line WGSL comments prefixed with @oxy: that either inject a registered
// struct definition or generate a @group/@binding declaration for a registered struct type.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an annotation within a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct definition.
	//
	// Syntax: //@oxy:include <struct_type>
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a @group/@binding variable declaration and records it
	// in the pre-processor's declarations.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <type>
	//
	// The type may be wrapped as array<type> for runtime-sized storage arrays.
	AnnotationTypeBindingGroup AnnotationType = "group"
)

// AnnotationArg is a single annotation argument: a struct type key, an address space or a name.
type AnnotationArg string

const (
	// AnnotationArgCamera refers to the camera uniform struct.
	AnnotationArgCamera AnnotationArg = "camera"

	// AnnotationArgField refers to the field-wide uniform struct (pointer, hover, time).
	AnnotationArgField AnnotationArg = "field"

	// AnnotationArgParticle refers to the per-particle storage struct.
	AnnotationArgParticle AnnotationArg = "particle"

	// annotationArgVertex refers to the instance geometry vertex input struct.
	annotationArgVertex AnnotationArg = "vertex"

	annotationArgStorageTypeUniform   AnnotationArg = "storage_uniform"
	annotationArgStorageTypeRead      AnnotationArg = "storage_read"
	annotationArgStorageTypeReadWrite AnnotationArg = "storage_read_write"
)

var validStructTypes = []AnnotationArg{
	AnnotationArgCamera,
	AnnotationArgField,
	AnnotationArgParticle,
	annotationArgVertex,
}

var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
	annotationArgStorageTypeReadWrite,
}

// Annotation is one parsed @oxy: line.
type Annotation struct {
	Type AnnotationType

	// Args holds the annotation's arguments:
	//   - include: [0] = struct type key
	//   - group:   [0] = address space, [1] = var name, [2] = struct type key
	Args []AnnotationArg

	// Line is the 1-based source line the annotation was found on.
	Line int

	// Group and Binding are set for group annotations only.
	Group   *int
	Binding *int
}

// parseAnnotation parses a single source line. It returns nil, nil for lines that carry no
// annotation.
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy group annotation requires group, binding, address space, name and type", lineNum)
		}
		group, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group number %q: %w", lineNum, args[1], err)
		}
		binding, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid binding number %q: %w", lineNum, args[2], err)
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q", lineNum, args[3])
		}
		typeKey := strings.TrimSuffix(strings.TrimPrefix(args[5], "array<"), ">")
		if !slices.Contains(validStructTypes, AnnotationArg(typeKey)) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy group annotation", lineNum, typeKey)
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown annotation type %q", lineNum, args[0])
	}
}
