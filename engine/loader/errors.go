package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadable is returned when the model file cannot be opened or read.
	ErrUnreadable = errors.New("model unreadable")

	// ErrMalformed is returned when the bytes are not a valid glTF/GLB document, or an accessor
	// the mesh depends on cannot be decoded.
	ErrMalformed = errors.New("model malformed")

	// ErrNoMesh is returned when the document contains no mesh.
	ErrNoMesh = errors.New("model has no mesh")

	// ErrNoPositions is returned when a primitive of the selected mesh has no POSITION attribute.
	ErrNoPositions = errors.New("mesh has no positions")

	// ErrUnsupportedFormat is returned for paths whose extension has no backend.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrClosed is returned by requests made after Close.
	ErrClosed = errors.New("loader closed")
)

// LoadError reports a failed load. It wraps one of the package sentinels, so callers branch
// with errors.Is.
type LoadError struct {
	// Source is the path or stream name that was being loaded.
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// loadErr wraps cause under kind so both remain visible to errors.Is.
func loadErr(source string, kind, cause error) error {
	if cause == nil {
		return &LoadError{Source: source, Err: kind}
	}
	return &LoadError{Source: source, Err: fmt.Errorf("%w: %w", kind, cause)}
}
