package sketch

import (
	"github.com/Carmen-Shannon/oxy-brain/engine/mesh"
	"github.com/Carmen-Shannon/oxy-brain/engine/tween"
	"github.com/go-gl/mathgl/mgl32"
)

// Tween targets driven by the pointer.
const (
	TargetCamera  tween.Target = "camera"
	TargetHover   tween.Target = "hover"
	TargetPointer tween.Target = "pointer"
)

// RayCaster builds a world-space ray through a point in normalized device coordinates.
type RayCaster interface {
	Ray(ndcX, ndcY float32) mesh.Ray
}

// HitTester finds the nearest intersection of a ray with a surface.
type HitTester interface {
	Raycast(r mesh.Ray) (mesh.Hit, bool)
}

// Interaction turns pointer moves into camera, hover and pointer transitions.
//
// The hover state only changes when the pointer crosses the surface boundary, so consecutive moves
// over the surface start one hover transition, not one per move.
type Interaction interface {
	// PointerMove handles one pointer move in normalized device coordinates.
	//
	// Parameters:
	//   - ndcX: x in [-1, 1]
	//   - ndcY: y in [-1, 1], up positive
	PointerMove(ndcX, ndcY float32)

	// SetSurface sets the surface the pointer is tested against. Nil means nothing can be hit.
	SetSurface(surface HitTester)

	// Hovering reports whether the last pointer move hit the surface.
	Hovering() bool

	// Pointer returns the last pointer position in normalized device coordinates.
	Pointer() mgl32.Vec2

	// Point returns the last intersection point. It is only valid while hovering.
	//
	// Returns:
	//   - mgl32.Vec3: the intersection point
	//   - bool: true while hovering
	Point() (mgl32.Vec3, bool)

	// HoverMax returns the hover blend reached while hovering.
	HoverMax() float32

	// SetHoverMax changes the hover blend reached while hovering. While hovering, the hover blend
	// is sent toward the new maximum.
	//
	// Parameters:
	//   - v: the new maximum
	SetHoverMax(v float32)

	// Configure applies new durations, easing and camera factors from settings.
	Configure(settings Settings)
}

type interaction struct {
	tweens  tween.Animator
	camera  RayCaster
	surface HitTester

	hovering bool
	pointer  mgl32.Vec2
	point    mgl32.Vec3

	hoverMax        float32
	ease            tween.Ease
	hoverDuration   float32
	pointerDuration float32
	cameraDuration  float32
	kx, ky          float32
}

var _ Interaction = &interaction{}

// NewInteraction creates an Interaction starting tweens on animator with rays from camera.
//
// Parameters:
//   - animator: the tween animator that owns the camera, hover and pointer targets
//   - camera: builds pointer rays
//   - settings: the durations, easing, hover maximum and camera factors
//
// Returns:
//   - Interaction: the interaction state machine, not hovering
func NewInteraction(animator tween.Animator, camera RayCaster, settings Settings) Interaction {
	i := &interaction{
		tweens: animator,
		camera: camera,
	}
	i.Configure(settings)
	return i
}

func (i *interaction) PointerMove(ndcX, ndcY float32) {
	i.pointer = mgl32.Vec2{ndcX, ndcY}

	var hit mesh.Hit
	var ok bool
	if i.surface != nil {
		hit, ok = i.surface.Raycast(i.camera.Ray(ndcX, ndcY))
	}

	switch {
	case !ok && i.hovering:
		i.hovering = false
		i.tweens.To(TargetHover, mgl32.Vec3{0, 0, 0}, i.hoverDuration, tween.WithEase(i.ease))
	case ok && !i.hovering:
		i.hovering = true
		i.tweens.To(TargetHover, mgl32.Vec3{i.hoverMax, 0, 0}, i.hoverDuration, tween.WithEase(i.ease))
	}

	if ok {
		i.point = hit.Point
		i.tweens.To(TargetPointer, hit.Point, i.pointerDuration, tween.WithEase(i.ease))
	}

	i.tweens.To(TargetCamera, mgl32.Vec3{ndcX * i.kx, ndcY * i.ky, 0}, i.cameraDuration, tween.WithEase(i.ease))
}

func (i *interaction) SetSurface(surface HitTester) {
	i.surface = surface
}

func (i *interaction) Hovering() bool {
	return i.hovering
}

func (i *interaction) Pointer() mgl32.Vec2 {
	return i.pointer
}

func (i *interaction) Point() (mgl32.Vec3, bool) {
	return i.point, i.hovering
}

func (i *interaction) HoverMax() float32 {
	return i.hoverMax
}

func (i *interaction) SetHoverMax(v float32) {
	if v == i.hoverMax {
		return
	}
	i.hoverMax = v
	if i.hovering {
		i.tweens.To(TargetHover, mgl32.Vec3{v, 0, 0}, i.hoverDuration, tween.WithEase(i.ease))
	}
}

func (i *interaction) Configure(settings Settings) {
	i.ease = settings.Ease
	if i.ease == nil {
		i.ease = tween.Power1Out
	}
	i.hoverDuration = settings.HoverDuration
	i.pointerDuration = settings.PointerDuration
	i.cameraDuration = settings.CameraDuration
	i.kx, i.ky = settings.CameraKx, settings.CameraKy
	i.SetHoverMax(settings.HoverMax)
}
