package tween

// AnimatorBuilderOption is a functional option for configuring an Animator.
type AnimatorBuilderOption func(*animator)

// TweenOption is a functional option for a single transition started with To.
type TweenOption func(*transition)

// NewAnimator creates a new Animator with the given options applied.
// Transitions ease with Power1Out unless configured otherwise.
//
// Parameters:
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the configured animator
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animator{
		defaultEase: Power1Out,
		tracks:      make(map[Target]*track),
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// WithDefaultEase sets the curve used by transitions that do not pass WithEase.
//
// Parameters:
//   - ease: the default curve
//
// Returns:
//   - AnimatorBuilderOption: option function to apply
func WithDefaultEase(ease Ease) AnimatorBuilderOption {
	return func(a *animator) {
		if ease != nil {
			a.defaultEase = ease
		}
	}
}

// WithEase overrides the curve of one transition.
func WithEase(ease Ease) TweenOption {
	return func(t *transition) {
		if ease != nil {
			t.ease = ease
		}
	}
}

// WithOnComplete registers a callback run once when the transition reaches its destination.
// It is not run if the transition is overwritten or cancelled first.
func WithOnComplete(fn func()) TweenOption {
	return func(t *transition) {
		t.onComplete = fn
	}
}
