package xanimation

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/go-fluid/fluid/pkg/animation"
)

// Default visual property values, restored by a reset step.
const (
	DefaultScale        = 1.0
	DefaultRotation     = 0.0
	DefaultTranslationX = 0.0
	DefaultTranslationY = 0.0
	DefaultOpacity      = 1.0
)

// Snapshot is the resolved visual state of a target.
type Snapshot struct {
	Scale        float64
	Rotation     float64 // degrees, clockwise
	TranslationX float64
	TranslationY float64
	Opacity      float64

	// Color is the background colour; only meaningful when HasColor is set.
	Color    colorful.Color
	HasColor bool
}

// DefaultSnapshot returns the identity state: unscaled, unrotated, untranslated
// and fully opaque.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Scale:        DefaultScale,
		Rotation:     DefaultRotation,
		TranslationX: DefaultTranslationX,
		TranslationY: DefaultTranslationY,
		Opacity:      DefaultOpacity,
	}
}

// Lerp interpolates every property from a to b. t is usually in [0, 1] but
// overshooting curves may push it outside. t == 0 and t == 1 return a and b
// exactly.
//
// When only one side carries a colour, the result takes that colour.
func Lerp(a, b Snapshot, t float64) Snapshot {
	if t == 0 {
		return a
	}
	if t == 1 {
		return b
	}
	out := Snapshot{
		Scale:        animation.LerpFloat64(a.Scale, b.Scale, t),
		Rotation:     animation.LerpFloat64(a.Rotation, b.Rotation, t),
		TranslationX: animation.LerpFloat64(a.TranslationX, b.TranslationX, t),
		TranslationY: animation.LerpFloat64(a.TranslationY, b.TranslationY, t),
		Opacity:      animation.LerpFloat64(a.Opacity, b.Opacity, t),
	}
	switch {
	case a.HasColor && b.HasColor:
		out.Color, out.HasColor = animation.LerpColor(a.Color, b.Color, t), true
	case b.HasColor:
		out.Color, out.HasColor = b.Color, true
	case a.HasColor:
		out.Color, out.HasColor = a.Color, true
	}
	return out
}

func (s Snapshot) String() string {
	str := fmt.Sprintf("scale=%.3f rotate=%.3f tx=%.3f ty=%.3f opacity=%.3f",
		s.Scale, s.Rotation, s.TranslationX, s.TranslationY, s.Opacity)
	if s.HasColor {
		str += " color=" + s.Color.Clamped().Hex()
	}
	return str
}

// Target is a visual element a chain animates. The host toolkit adapter
// implements it over its native views.
//
// Targets are used as map keys, so implementations must be comparable;
// pointer types are the norm.
type Target interface {
	// Properties returns the currently rendered state.
	Properties() Snapshot
	// Apply renders s immediately. It fails when the target is gone.
	Apply(s Snapshot) error
}

func targetName(t Target) string {
	if s, ok := t.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", t)
}
