package scene

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering. Scenes start active.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithWireframe sets the initial draw mode. Scenes start in wireframe.
//
// Parameters:
//   - enabled: true to draw particle edges, false to draw filled triangles
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWireframe(enabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.wireframe = enabled
	}
}

// WithLabel sets the prefix of the scene's GPU resource labels. Defaults to the scene name.
//
// Parameters:
//   - label: the label prefix, e.g. a session id
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLabel(label string) SceneBuilderOption {
	return func(s *scene) {
		if label != "" {
			s.label = label
		}
	}
}
