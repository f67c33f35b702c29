package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// ResizeEvent reports the window's size in screen coordinates together with its framebuffer
// size in pixels. The two differ on high-DPI displays.
type ResizeEvent struct {
	Width             int
	Height            int
	FramebufferWidth  int
	FramebufferHeight int
}

// PixelRatio returns framebuffer pixels per screen coordinate, or 1 when the window has no area.
//
// Returns:
//   - float32: the device pixel ratio
func (e ResizeEvent) PixelRatio() float32 {
	if e.Width <= 0 || e.FramebufferWidth <= 0 {
		return 1
	}
	return float32(e.FramebufferWidth) / float32(e.Width)
}

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window or its framebuffer changes size,
	// including when it moves to a monitor with a different pixel ratio.
	//
	// Parameters:
	//   - callback: function receiving the new sizes
	SetResizeCallback(callback func(e ResizeEvent))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the key code (see common/key_codes.go)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetPointerMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in screen coordinates relative to the
	//     top-left corner of the client area
	SetPointerMoveCallback(callback func(x, y float64))

	// SetTitle replaces the title shown in the title bar.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// Title returns the current title.
	Title() string

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Size returns the client area size in screen coordinates.
	//
	// Returns:
	//   - int: width
	//   - int: height
	Size() (int, int)

	// FramebufferSize returns the client area size in pixels.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	FramebufferSize() (int, int)
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	title string

	minWidth  int
	minHeight int

	// width and height are the client area size in screen coordinates.
	width  int
	height int

	// fbWidth and fbHeight are the client area size in pixels.
	fbWidth  int
	fbHeight int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate      func()
	onResize      func(e ResizeEvent)
	onKeyDown     func(keyCode uint32)
	onPointerMove func(x, y float64)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Platform window creation failures panic.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:     "oxy-brain",
		minWidth:  320,
		minHeight: 240,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(e ResizeEvent)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetPointerMoveCallback(callback func(x, y float64)) {
	w.onPointerMove = callback
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Size() (int, int) {
	return w.width, w.height
}

func (w *engineWindow) FramebufferSize() (int, int) {
	return w.fbWidth, w.fbHeight
}

// resized records new sizes and notifies the resize callback.
func (w *engineWindow) resized(width, height, fbWidth, fbHeight int) {
	w.width, w.height = width, height
	w.fbWidth, w.fbHeight = fbWidth, fbHeight
	if w.onResize != nil {
		w.onResize(ResizeEvent{
			Width:             width,
			Height:            height,
			FramebufferWidth:  fbWidth,
			FramebufferHeight: fbHeight,
		})
	}
}
