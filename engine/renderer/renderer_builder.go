package renderer

import "github.com/Carmen-Shannon/oxy-brain/common"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithLabel sets the prefix of the renderer's GPU object labels.
//
// Parameters:
//   - label: the label prefix, e.g. a session id
//
// Returns:
//   - RendererBuilderOption: a function that applies the label option to a renderer
func WithLabel(label string) RendererBuilderOption {
	return func(r *renderer) {
		if label != "" {
			r.label = label
		}
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithClearColor sets the initial background color.
//
// Parameters:
//   - color: the background color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(color common.RGB) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingClearColor = &color
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU fallback adapter instead of a hardware GPU.
// This needs a software Vulkan driver such as lavapipe or SwiftShader.
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
