// Package field builds and owns the instanced particle field: one particle per source-mesh vertex,
// each with fixed size, rotation and palette color, plus the two field-wide parameters (hover blend
// and pointer position) that every particle shares.
package field

import (
	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Instance is one particle. All values are fixed when the field is built.
type Instance struct {
	// Translation is the particle position, copied from the source vertex.
	Translation mgl32.Vec3
	// Size scales the instance geometry.
	Size float32
	// Rotation is a signed spin factor consumed by the shader.
	Rotation float32
	// ColorIndex indexes the field palette.
	ColorIndex int
}

// Shared holds the parameters written once for the whole field.
type Shared struct {
	Hover   float32
	Pointer mgl32.Vec3
}

// field is the implementation of the Field interface.
type field struct {
	instances []Instance
	palette   []common.RGB
	shared    Shared
	version   uint64
}

// Field is the particle cloud drawn in one instanced call.
// The instance list never changes after construction. Only the Shared block mutates, and a
// write to it applies to every particle at once.
type Field interface {
	// Count returns the number of particles.
	//
	// Returns:
	//   - int: the particle count, equal to the source mesh vertex count
	Count() int

	// Instance returns particle i.
	//
	// Parameters:
	//   - i: the particle index
	//
	// Returns:
	//   - Instance: a copy of the particle
	Instance(i int) Instance

	// Palette returns the colors particles index into.
	//
	// Returns:
	//   - []common.RGB: the palette
	Palette() []common.RGB

	// Color returns the resolved color of particle i.
	//
	// Parameters:
	//   - i: the particle index
	//
	// Returns:
	//   - common.RGB: the palette color of the particle
	Color(i int) common.RGB

	// Shared returns the current field-wide parameters.
	//
	// Returns:
	//   - Shared: hover blend and pointer position
	Shared() Shared

	// SetHover broadcasts a new hover blend to every particle.
	//
	// Parameters:
	//   - v: the hover blend
	SetHover(v float32)

	// SetPointer broadcasts a new pointer position to every particle.
	//
	// Parameters:
	//   - p: the pointer position in mesh space
	SetPointer(p mgl32.Vec3)

	// Version increases on every Shared write so uploaders can skip unchanged frames.
	//
	// Returns:
	//   - uint64: the write counter
	Version() uint64

	// GPUInstances packs the particles into their storage-buffer layout.
	//
	// Returns:
	//   - []GPUInstance: one entry per particle
	GPUInstances() []GPUInstance

	// GPUUniform packs the shared block into its uniform layout.
	//
	// Parameters:
	//   - time: seconds since the field was first drawn
	//
	// Returns:
	//   - GPUFieldUniform: the uniform block
	GPUUniform(time float32) GPUFieldUniform
}

var _ Field = &field{}

func (f *field) Count() int {
	return len(f.instances)
}

func (f *field) Instance(i int) Instance {
	return f.instances[i]
}

func (f *field) Palette() []common.RGB {
	return f.palette
}

func (f *field) Color(i int) common.RGB {
	return f.palette[f.instances[i].ColorIndex]
}

func (f *field) Shared() Shared {
	return f.shared
}

func (f *field) SetHover(v float32) {
	f.shared.Hover = v
	f.version++
}

func (f *field) SetPointer(p mgl32.Vec3) {
	f.shared.Pointer = p
	f.version++
}

func (f *field) Version() uint64 {
	return f.version
}

func (f *field) GPUInstances() []GPUInstance {
	out := make([]GPUInstance, len(f.instances))
	for i, inst := range f.instances {
		out[i] = GPUInstance{
			Translation: inst.Translation,
			Size:        inst.Size,
			Color:       f.palette[inst.ColorIndex],
			Rotation:    inst.Rotation,
		}
	}
	return out
}

func (f *field) GPUUniform(time float32) GPUFieldUniform {
	return GPUFieldUniform{
		Pointer: f.shared.Pointer,
		Hover:   f.shared.Hover,
		Time:    time,
	}
}
