package sketch

import "github.com/chewxy/math32"

const (
	// MobileBreakpoint is the logical width below which the viewport counts as mobile.
	MobileBreakpoint = 767
	// MaxPixelRatio caps the device pixel ratio used for the output surface.
	MaxPixelRatio float32 = 2
	// DistanceMobile is the camera distance on mobile viewports.
	DistanceMobile float32 = 2
	// DistanceDesktop is the camera distance on desktop viewports.
	DistanceDesktop float32 = 1.2
)

// Viewport is everything derived from the window size.
type Viewport struct {
	// Width and Height are the logical size in window coordinates.
	Width  int
	Height int
	// DevicePixelRatio is the display's pixels per logical unit.
	DevicePixelRatio float32
	// PixelRatio is DevicePixelRatio capped at MaxPixelRatio.
	PixelRatio float32
	Aspect     float32
	// OutputWidth and OutputHeight are the surface size in pixels.
	OutputWidth  int
	OutputHeight int
	Mobile       bool
}

// ComputeViewport derives the viewport for a logical size and device pixel ratio. It is pure,
// so calling it twice with the same input yields the same Viewport.
//
// Parameters:
//   - width: logical width
//   - height: logical height
//   - devicePixelRatio: pixels per logical unit; non-positive values count as 1
//
// Returns:
//   - Viewport: the derived viewport
//   - bool: false when either dimension is zero (a minimised window), in which case the previous
//     viewport should be kept
func ComputeViewport(width, height int, devicePixelRatio float32) (Viewport, bool) {
	if width <= 0 || height <= 0 {
		return Viewport{}, false
	}
	if devicePixelRatio <= 0 {
		devicePixelRatio = 1
	}
	ratio := min(devicePixelRatio, MaxPixelRatio)
	return Viewport{
		Width:            width,
		Height:           height,
		DevicePixelRatio: devicePixelRatio,
		PixelRatio:       ratio,
		Aspect:           float32(width) / float32(height),
		OutputWidth:      int(math32.Round(float32(width) * ratio)),
		OutputHeight:     int(math32.Round(float32(height) * ratio)),
		Mobile:           width < MobileBreakpoint,
	}, true
}

// CameraDistance returns the camera Z for the viewport's device class.
func (v Viewport) CameraDistance() float32 {
	if v.Mobile {
		return DistanceMobile
	}
	return DistanceDesktop
}

// NDC converts a pointer position in window coordinates to normalized device coordinates, with
// y pointing up.
//
// Parameters:
//   - x: pointer x from the left edge
//   - y: pointer y from the top edge
//
// Returns:
//   - float32: x in [-1, 1]
//   - float32: y in [-1, 1]
func (v Viewport) NDC(x, y float64) (float32, float32) {
	nx := float32(x)/float32(v.Width)*2 - 1
	ny := -(float32(y)/float32(v.Height)*2 - 1)
	return nx, ny
}
