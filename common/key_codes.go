package common

// Virtual key codes for the sketch's keyboard shortcuts.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyP   = 80  // P key (ASCII), toggles the profiler
	KeyR   = 82  // R key (ASCII), reloads the config file
	KeyW   = 87  // W key (ASCII), toggles wireframe
	KeyEsc = 256 // Escape key (GLFW)
)
