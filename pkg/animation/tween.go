package animation

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Tween interpolates between Begin and End values based on animation progress.
//
// Use the helper constructors ([TweenFloat64], [TweenColor]) for common
// types, or create custom tweens with a Lerp function.
type Tween[T any] struct {
	// Begin is the starting value (when t = 0).
	Begin T
	// End is the ending value (when t = 1).
	End T
	// Lerp interpolates between Begin and End for progress t.
	Lerp func(a, b T, t float64) T
}

// Evaluate returns the interpolated value at t. The bounds are returned
// exactly, without going through Lerp.
func (tw *Tween[T]) Evaluate(t float64) T {
	if t <= 0 {
		return tw.Begin
	}
	if t >= 1 || tw.Lerp == nil {
		return tw.End
	}
	return tw.Lerp(tw.Begin, tw.End, t)
}

// Transform returns the interpolated value using the controller's current value.
func (tw *Tween[T]) Transform(controller *AnimationController) T {
	return tw.Evaluate(controller.Value)
}

// LerpFloat64 linearly interpolates between two float64 values.
func LerpFloat64(a, b float64, t float64) float64 {
	return a + (b-a)*t
}

// LerpColor blends two colours in CIE-L*a*b* space, which keeps perceived
// lightness even across the blend.
func LerpColor(a, b colorful.Color, t float64) colorful.Color {
	return a.BlendLab(b, t).Clamped()
}

// TweenFloat64 creates a tween for float64 values.
func TweenFloat64(begin, end float64) *Tween[float64] {
	return &Tween[float64]{
		Begin: begin,
		End:   end,
		Lerp:  LerpFloat64,
	}
}

// TweenColor creates a tween for colours.
func TweenColor(begin, end colorful.Color) *Tween[colorful.Color] {
	return &Tween[colorful.Color]{
		Begin: begin,
		End:   end,
		Lerp:  LerpColor,
	}
}
