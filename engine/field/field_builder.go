package field

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/Carmen-Shannon/oxy-brain/engine/mesh"
)

// Range is a closed interval [Min, Max].
type Range struct {
	Min, Max float32
}

// Contains reports whether v lies in the interval.
func (r Range) Contains(v float32) bool {
	return v >= r.Min && v <= r.Max
}

var (
	// DefaultSizeRange is the per-particle size interval.
	DefaultSizeRange = Range{Min: 0.3, Max: 3}

	// DefaultRotationRange is the per-particle rotation interval.
	DefaultRotationRange = Range{Min: -1, Max: 1}

	// ErrEmptyPalette is returned when the palette has no colors.
	ErrEmptyPalette = errors.New("palette is empty")
)

// builder collects the options applied by NewField.
type builder struct {
	rng      *rand.Rand
	size     Range
	rotation Range
	palette  []common.RGB
}

// FieldBuilderOption is a functional option for configuring NewField.
type FieldBuilderOption func(*builder)

// WithRand sets the random source used for per-particle values. Tests pass a seeded source to get
// reproducible fields.
//
// Parameters:
//   - r: the random source
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithRand(r *rand.Rand) FieldBuilderOption {
	return func(b *builder) {
		b.rng = r
	}
}

// WithSeed seeds a PCG source with the given value.
//
// Parameters:
//   - seed: the seed
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithSeed(seed uint64) FieldBuilderOption {
	return func(b *builder) {
		b.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithSizeRange overrides DefaultSizeRange.
func WithSizeRange(r Range) FieldBuilderOption {
	return func(b *builder) {
		b.size = r
	}
}

// WithRotationRange overrides DefaultRotationRange.
func WithRotationRange(r Range) FieldBuilderOption {
	return func(b *builder) {
		b.rotation = r
	}
}

// WithPalette sets the colors particles are drawn from.
//
// Parameters:
//   - palette: the candidate colors, picked uniformly
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithPalette(palette []common.RGB) FieldBuilderOption {
	return func(b *builder) {
		b.palette = palette
	}
}

// NewField builds one particle per vertex of src. Particle i sits at vertex i; its size and rotation
// are independent uniform draws and its color is a uniform pick from the palette. An empty mesh
// produces an empty field.
//
// Parameters:
//   - src: the source mesh
//   - options: functional options (random source, ranges, palette)
//
// Returns:
//   - Field: the built field
//   - error: error if a range is inverted or the palette is empty
func NewField(src *mesh.SourceMesh, options ...FieldBuilderOption) (Field, error) {
	b := &builder{
		size:     DefaultSizeRange,
		rotation: DefaultRotationRange,
	}
	for _, opt := range options {
		opt(b)
	}
	if b.rng == nil {
		seed := uint64(time.Now().UnixNano())
		b.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if b.size.Min > b.size.Max {
		return nil, fmt.Errorf("size range inverted: [%v, %v]", b.size.Min, b.size.Max)
	}
	if b.rotation.Min > b.rotation.Max {
		return nil, fmt.Errorf("rotation range inverted: [%v, %v]", b.rotation.Min, b.rotation.Max)
	}
	if len(b.palette) == 0 {
		return nil, ErrEmptyPalette
	}

	positions := src.Positions()
	f := &field{
		instances: make([]Instance, len(positions)),
		palette:   b.palette,
	}
	for i, p := range positions {
		f.instances[i] = Instance{
			Translation: p,
			Size:        uniform(b.rng, b.size),
			Rotation:    uniform(b.rng, b.rotation),
			ColorIndex:  b.rng.IntN(len(b.palette)),
		}
	}
	return f, nil
}

func uniform(r *rand.Rand, rg Range) float32 {
	return rg.Min + r.Float32()*(rg.Max-rg.Min)
}
