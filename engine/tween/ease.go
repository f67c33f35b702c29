package tween

import "github.com/chewxy/math32"

// Ease maps linear progress t in [0, 1] to eased progress. Every Ease returns 0 at t=0 and 1 at t=1.
type Ease func(t float32) float32

// Linear applies no easing.
func Linear(t float32) float32 {
	return t
}

// Power1Out decelerates quadratically. This is the default curve.
func Power1Out(t float32) float32 {
	u := 1 - t
	return 1 - u*u
}

// Power2Out decelerates cubically.
func Power2Out(t float32) float32 {
	u := 1 - t
	return 1 - u*u*u
}

// Power1InOut accelerates then decelerates quadratically.
func Power1InOut(t float32) float32 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// SineInOut follows half a cosine period.
func SineInOut(t float32) float32 {
	return -(math32.Cos(math32.Pi*t) - 1) / 2
}

// ExpoOut decelerates exponentially.
func ExpoOut(t float32) float32 {
	if t >= 1 {
		return 1
	}
	return 1 - math32.Pow(2, -10*t)
}

// EaseByName resolves the curve names accepted in configuration files.
//
// Parameters:
//   - name: one of linear, power1.out, power2.out, power1.inOut, sine.inOut, expo.out
//
// Returns:
//   - Ease: the curve
//   - bool: false if the name is unknown
func EaseByName(name string) (Ease, bool) {
	switch name {
	case "linear", "none":
		return Linear, true
	case "power1.out", "":
		return Power1Out, true
	case "power2.out":
		return Power2Out, true
	case "power1.inOut":
		return Power1InOut, true
	case "sine.inOut":
		return SineInOut, true
	case "expo.out":
		return ExpoOut, true
	}
	return nil, false
}
