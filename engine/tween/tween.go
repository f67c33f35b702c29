// Package tween interpolates named values over time. Each target holds a current value and at most
// one transition in flight; starting a new transition on a target replaces the old one, starting
// from wherever the value currently is. The animator is advanced explicitly by the render tick and
// is not safe for concurrent use.
package tween

import "github.com/go-gl/mathgl/mgl32"

// Target names an animated value.
type Target string

// transition is one in-flight interpolation.
type transition struct {
	from, to   mgl32.Vec3
	duration   float32
	elapsed    float32
	ease       Ease
	onComplete func()
}

// track is the per-target state.
type track struct {
	value    mgl32.Vec3
	active   *transition
	onUpdate []func(mgl32.Vec3)
}

// animator is the implementation of the Animator interface.
type animator struct {
	defaultEase Ease
	tracks      map[Target]*track
	order       []Target
}

// Animator drives named values toward targets over time.
//
// Values are mgl32.Vec3 for every target; scalar targets use the X component.
type Animator interface {
	// To starts a transition of target toward to over duration seconds, overwriting any transition
	// already in flight for that target. The new transition starts from the current value.
	// A non-positive duration applies the value immediately.
	//
	// Parameters:
	//   - target: the value to animate
	//   - to: the destination value
	//   - duration: the transition length in seconds
	//   - options: per-transition options (ease, completion callback)
	To(target Target, to mgl32.Vec3, duration float32, options ...TweenOption)

	// Set assigns a value immediately and cancels any transition in flight for the target.
	// Update hooks are called once with the new value.
	//
	// Parameters:
	//   - target: the value to set
	//   - v: the new value
	Set(target Target, v mgl32.Vec3)

	// Cancel stops the transition in flight for target, leaving the value where it is.
	// The completion callback of the cancelled transition is not called.
	//
	// Parameters:
	//   - target: the value whose transition to stop
	Cancel(target Target)

	// Value returns the current value of target, or the zero vector if it was never set.
	//
	// Parameters:
	//   - target: the value to read
	//
	// Returns:
	//   - mgl32.Vec3: the current value
	Value(target Target) mgl32.Vec3

	// Active reports whether target has a transition in flight.
	Active(target Target) bool

	// Destination returns where target is heading, or its current value when idle.
	Destination(target Target) mgl32.Vec3

	// Progress returns the linear progress of the transition in flight for target in [0, 1],
	// or 0 when idle.
	Progress(target Target) float32

	// OnUpdate registers a hook called with the interpolated value on every tick that moves target.
	//
	// Parameters:
	//   - target: the value to observe
	//   - fn: the hook
	OnUpdate(target Target, fn func(mgl32.Vec3))

	// Tick advances every transition in flight by dt seconds. Targets are advanced in the order
	// they were first used.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Tick(dt float32)
}

var _ Animator = &animator{}

func (a *animator) track(target Target) *track {
	t, ok := a.tracks[target]
	if !ok {
		t = &track{}
		a.tracks[target] = t
		a.order = append(a.order, target)
	}
	return t
}

func (a *animator) To(target Target, to mgl32.Vec3, duration float32, options ...TweenOption) {
	tr := a.track(target)
	if duration <= 0 {
		tr.active = nil
		a.apply(tr, to)
		return
	}
	next := &transition{
		from:     tr.value,
		to:       to,
		duration: duration,
		ease:     a.defaultEase,
	}
	for _, opt := range options {
		opt(next)
	}
	tr.active = next
}

func (a *animator) Set(target Target, v mgl32.Vec3) {
	tr := a.track(target)
	tr.active = nil
	a.apply(tr, v)
}

func (a *animator) Cancel(target Target) {
	if tr, ok := a.tracks[target]; ok {
		tr.active = nil
	}
}

func (a *animator) Value(target Target) mgl32.Vec3 {
	if tr, ok := a.tracks[target]; ok {
		return tr.value
	}
	return mgl32.Vec3{}
}

func (a *animator) Active(target Target) bool {
	tr, ok := a.tracks[target]
	return ok && tr.active != nil
}

func (a *animator) Destination(target Target) mgl32.Vec3 {
	tr, ok := a.tracks[target]
	if !ok {
		return mgl32.Vec3{}
	}
	if tr.active != nil {
		return tr.active.to
	}
	return tr.value
}

func (a *animator) Progress(target Target) float32 {
	tr, ok := a.tracks[target]
	if !ok || tr.active == nil {
		return 0
	}
	return min(tr.active.elapsed/tr.active.duration, 1)
}

func (a *animator) OnUpdate(target Target, fn func(mgl32.Vec3)) {
	tr := a.track(target)
	tr.onUpdate = append(tr.onUpdate, fn)
}

func (a *animator) Tick(dt float32) {
	if dt <= 0 {
		return
	}
	for _, name := range a.order {
		tr := a.tracks[name]
		cur := tr.active
		if cur == nil {
			continue
		}
		cur.elapsed += dt
		if cur.elapsed >= cur.duration {
			tr.active = nil
			a.apply(tr, cur.to)
			if cur.onComplete != nil {
				cur.onComplete()
			}
			continue
		}
		k := cur.ease(cur.elapsed / cur.duration)
		a.apply(tr, cur.from.Add(cur.to.Sub(cur.from).Mul(k)))
	}
}

func (a *animator) apply(tr *track, v mgl32.Vec3) {
	tr.value = v
	for _, fn := range tr.onUpdate {
		fn(v)
	}
}
