// Package camera implements the perspective camera the particle field is viewed through. The camera
// keeps a fixed orientation looking down -Z; a planar CameraController moves it.
package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/Carmen-Shannon/oxy-brain/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	controller CameraController
	position   mgl32.Vec3 // controller position as of the last matrix update
	up         mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewProjectionMatrix mgl32.Mat4
	inverseViewProj      mgl32.Mat4
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and reads its position from an attached
// CameraController, recomputing its view/projection matrices on Update.
type Camera interface {
	// Position returns the camera's world-space position as of the last Update.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Controller returns the controller the camera reads its position from.
	//
	// Returns:
	//   - CameraController: the attached controller
	Controller() CameraController

	// Update reads the position from the controller and recomputes matrices.
	// Call once per frame after moving the controller.
	Update()

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	// Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// ViewProjectionMatrix returns the combined view-projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: projection * view
	ViewProjectionMatrix() mgl32.Mat4

	// Ray builds the world-space ray from the camera through a point in normalized device
	// coordinates, with x and y in [-1, 1] and +y up.
	//
	// Parameters:
	//   - ndcX, ndcY: the point on the image plane
	//
	// Returns:
	//   - mesh.Ray: a ray starting at the camera position with a unit direction
	Ray(ndcX, ndcY float32) mesh.Ray

	// GPUUniform packs the camera into its uniform layout.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform block
	GPUUniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings: 75° vertical field of view,
// near 0.1, far 100. Without WithController it gets a default controller placing it at (0, 0, 4).
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		up:     mgl32.Vec3{0, 1, 0},
		fov:    common.DegToRad(75),
		aspect: 1.0,
		near:   0.1,
		far:    100.0,
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Ray(ndcX, ndcY float32) mesh.Ray {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.inverseViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, 0.5, 1})
	point := p.Vec3().Mul(1 / p.W())
	return mesh.Ray{
		Origin:    c.position,
		Direction: point.Sub(c.position).Normalize(),
	}
}

func (c *cameraImpl) GPUUniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:       c.viewProjectionMatrix,
		CameraPosition: c.position,
	}
}

// updateMatrices reads position and target from the controller and recalculates the
// view-projection and inverse view-projection matrices. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	px, py, pz := c.controller.Position()
	tx, ty, tz := c.controller.Target()
	c.position = mgl32.Vec3{px, py, pz}

	view := mgl32.LookAtV(c.position, mgl32.Vec3{tx, ty, tz}, c.up)
	projection := common.PerspectiveZO(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = projection.Mul4(view)
	c.inverseViewProj = c.viewProjectionMatrix.Inv()
}
