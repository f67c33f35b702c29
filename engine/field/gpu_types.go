package field

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUParticleSource is the WGSL definition of the Particle struct, matching GPUInstance.
//
//go:embed assets/particle.wgsl
var GPUParticleSource string

// GPUFieldUniformSource is the WGSL definition of the FieldUniform struct, matching GPUFieldUniform.
//
//go:embed assets/field_uniform.wgsl
var GPUFieldUniformSource string

// GPUInstanceSize is the byte stride of one particle in the storage buffer.
const GPUInstanceSize = int(unsafe.Sizeof(GPUInstance{}))

// GPUInstance is the storage-buffer layout of one particle.
// Matches the WGSL Particle struct. Size: 32 bytes.
type GPUInstance struct {
	Translation [3]float32 // offset  0: vec3<f32>
	Size        float32    // offset 12: f32, packed into the vec3 tail
	Color       [3]float32 // offset 16: vec3<f32>
	Rotation    float32    // offset 28: f32
}

// GPUFieldUniform is the uniform layout of the field-wide parameters.
// Matches the WGSL FieldUniform struct. Size: 32 bytes.
type GPUFieldUniform struct {
	Pointer [3]float32 // offset  0: vec3<f32>
	Hover   float32    // offset 12: f32
	Time    float32    // offset 16: f32
	_pad    [3]float32 // offset 20: pad to 32 bytes
}

// Size returns the size of the GPUFieldUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUFieldUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a little-endian byte buffer for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUFieldUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Pointer[i]))
	}
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.Hover))
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(g.Time))
	return buf
}
