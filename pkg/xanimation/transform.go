package xanimation

import (
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultDuration is the duration of a step when nothing earlier in the
// package sets one.
const DefaultDuration = 250 * time.Millisecond

// Transform is one keyframe: the property values a target reaches at the
// end of the step, how long the step takes, how long it waits before
// starting, and the curve it follows.
//
// Transforms are created by the chain builder, inheriting from the last step
// of their chain. The setters are meant for the builder call that created
// the step; once playback starts the package works on frozen copies.
type Transform struct {
	id int

	// Delay is waited before the step starts. Never inherited.
	Delay time.Duration
	// Duration of the step. Inherited from the previous step.
	Duration time.Duration

	Scale        float64
	Rotation     float64
	TranslationX float64
	TranslationY float64
	Opacity      float64
	Color        colorful.Color
	HasColor     bool

	// OnlyTransform marks a step that is applied directly instead of being
	// interpolated from the previous visual state.
	OnlyTransform bool

	// Easing is the curve of this step; nil is linear. Not inherited.
	Easing *Easing
}

// newTransform builds a step after prev. With keep, visual properties are
// copied from prev; otherwise they are reset to defaults. Duration comes from
// prev, or from fallback when there is no prev.
func newTransform(id int, prev *Transform, keep bool, fallback time.Duration) *Transform {
	t := &Transform{id: id, Duration: fallback}
	if prev != nil {
		t.Duration = prev.Duration
	}
	if keep && prev != nil {
		t.Scale = prev.Scale
		t.Rotation = prev.Rotation
		t.TranslationX = prev.TranslationX
		t.TranslationY = prev.TranslationY
		t.Opacity = prev.Opacity
		t.Color = prev.Color
		t.HasColor = prev.HasColor
	} else {
		t.resetVisual()
	}
	return t
}

// transformOf builds a detached step that reaches s.
func transformOf(s Snapshot) Transform {
	t := Transform{}
	t.setSnapshot(s)
	return t
}

func (t *Transform) resetVisual() {
	t.setSnapshot(DefaultSnapshot())
}

func (t *Transform) setSnapshot(s Snapshot) {
	t.Scale = s.Scale
	t.Rotation = s.Rotation
	t.TranslationX = s.TranslationX
	t.TranslationY = s.TranslationY
	t.Opacity = s.Opacity
	t.Color = s.Color
	t.HasColor = s.HasColor
}

// ID returns the step's sequence number within its package.
func (t *Transform) ID() int { return t.id }

// Snapshot returns the property values the step reaches.
func (t Transform) Snapshot() Snapshot {
	return Snapshot{
		Scale:        t.Scale,
		Rotation:     t.Rotation,
		TranslationX: t.TranslationX,
		TranslationY: t.TranslationY,
		Opacity:      t.Opacity,
		Color:        t.Color,
		HasColor:     t.HasColor,
	}
}

// SetDelay sets the wait before the step starts. Negative values are clamped to zero.
func (t *Transform) SetDelay(d time.Duration) *Transform {
	t.Delay = max(d, 0)
	return t
}

// SetDuration sets the step's duration. Negative values are clamped to zero.
func (t *Transform) SetDuration(d time.Duration) *Transform {
	t.Duration = max(d, 0)
	return t
}

// SetScale sets the uniform scale factor.
func (t *Transform) SetScale(scale float64) *Transform {
	t.Scale = scale
	return t
}

// SetRotation sets the rotation in degrees.
func (t *Transform) SetRotation(degrees float64) *Transform {
	t.Rotation = degrees
	return t
}

// SetTranslation sets the translation offsets.
func (t *Transform) SetTranslation(x, y float64) *Transform {
	t.TranslationX = x
	t.TranslationY = y
	return t
}

// SetOpacity sets the opacity.
func (t *Transform) SetOpacity(opacity float64) *Transform {
	t.Opacity = opacity
	return t
}

// SetColor sets the background colour.
func (t *Transform) SetColor(c colorful.Color) *Transform {
	t.Color = c
	t.HasColor = true
	return t
}

// SetEasing sets a cubic-bezier curve from four control values.
func (t *Transform) SetEasing(x1, y1, x2, y2 float64) *Transform {
	t.Easing = Bezier(x1, y1, x2, y2)
	return t
}

// SetEasingCurve sets the step's easing; nil restores linear.
func (t *Transform) SetEasingCurve(e *Easing) *Transform {
	t.Easing = e
	return t
}

// SetOnlyTransform marks the step to be applied without interpolation.
func (t *Transform) SetOnlyTransform(only bool) *Transform {
	t.OnlyTransform = only
	return t
}

func (t Transform) String() string {
	return fmt.Sprintf("[#%d: Delay=%v, Duration=%v, Scale=%g, Rotate=%g, TranslationX=%g, TranslationY=%g, Opacity=%g, OnlyTransform=%t, Easing=%s]",
		t.id, t.Delay, t.Duration, t.Scale, t.Rotation, t.TranslationX, t.TranslationY, t.Opacity, t.OnlyTransform, t.Easing)
}
