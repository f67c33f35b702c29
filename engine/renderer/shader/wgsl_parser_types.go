package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo pairs a wgpu vertex format with its byte size, used to lay out attributes.
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslTypeLayout is the byte size and alignment of a WGSL type in a host-shareable buffer.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField is one member of a WGSL struct.
type parsedField struct {
	name      string
	typeName  string
	location  int // -1 when the member has no @location
	isBuiltin bool
}

type parsedStruct struct {
	name   string
	fields []parsedField
}
