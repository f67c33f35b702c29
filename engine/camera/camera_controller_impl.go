package camera

import (
	"sync"

	"github.com/chewxy/math32"
)

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	target [3]float32
	offset [2]float32
	radius float32

	minRadius float32
	maxRadius float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new planar controller four units in front of the origin.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:        &sync.Mutex{},
		radius:    4.0,
		minRadius: 0.5,
		maxRadius: 50.0,
	}

	for _, option := range options {
		option(cc)
	}

	if cc.maxRadius < cc.minRadius {
		cc.minRadius, cc.maxRadius = cc.maxRadius, cc.minRadius
	}
	cc.radius = cc.clampRadius(cc.radius)
	return cc
}

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0] + cc.offset[0], cc.target[1] + cc.offset[1], cc.target[2] + cc.radius
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0] + cc.offset[0], cc.target[1] + cc.offset[1], cc.target[2]
}

func (cc *cameraControllerImpl) Offset() (x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.offset[0], cc.offset[1]
}

func (cc *cameraControllerImpl) SetOffset(x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.offset = [2]float32{x, y}
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = cc.clampRadius(radius)
}

// clampRadius keeps a distance inside the radius bounds. NaN falls back to the minimum.
func (cc *cameraControllerImpl) clampRadius(radius float32) float32 {
	if math32.IsNaN(radius) {
		return cc.minRadius
	}
	return math32.Max(cc.minRadius, math32.Min(cc.maxRadius, radius))
}
