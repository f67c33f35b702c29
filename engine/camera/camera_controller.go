package camera

// CameraController defines the planar control system the camera reads its position from.
// The controller owns positional state: a target point on the viewed plane, an offset from
// that target within the plane, and the radius the camera sits at in front of it along +Z.
// The camera always looks straight down -Z, so panning never changes its orientation.
type CameraController interface {
	// Position returns the camera's world-space position: target + (offset, radius).
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the look-at point, the target shifted by the planar offset.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// Offset returns the planar offset from the target.
	//
	// Returns:
	//   - x, y: offset along world X and Y
	Offset() (x, y float32)

	// SetOffset pans the camera to an absolute offset from the target, keeping the radius.
	//
	// Parameters:
	//   - x, y: offset along world X and Y
	SetOffset(x, y float32)

	// Radius returns the camera's distance in front of the target plane.
	//
	// Returns:
	//   - float32: current distance along Z
	Radius() float32

	// SetRadius sets the distance directly, clamped to the radius bounds.
	//
	// Parameters:
	//   - radius: new distance from the target plane
	SetRadius(radius float32)
}
