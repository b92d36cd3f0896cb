package xanimation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-fluid/fluid/pkg/animation"
	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
)

// Easing describes the curve a step follows. Either Name selects a
// registered curve (see [animation.CurveNames]) or the four control values
// describe a CSS-style cubic bezier. A nil *Easing is linear.
type Easing struct {
	X1, Y1, X2, Y2 float64
	Name           string
}

// Bezier returns a cubic-bezier easing with control points (x1,y1) and (x2,y2).
func Bezier(x1, y1, x2, y2 float64) *Easing {
	return &Easing{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Named returns the easing registered under name.
func Named(name string) (*Easing, error) {
	if _, ok := animation.Named(name); !ok {
		return nil, fluiderrors.New("xanimation.Named", fluiderrors.KindConfig,
			fmt.Errorf("unknown easing %q", name))
	}
	return &Easing{Name: name}, nil
}

// ParseEasing accepts a curve name ("out-bounce") or
// "cubic-bezier(x1, y1, x2, y2)". The empty string yields nil (linear).
func ParseEasing(s string) (*Easing, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	inner, ok := strings.CutPrefix(s, "cubic-bezier(")
	if !ok {
		return Named(s)
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return nil, fluiderrors.New("xanimation.ParseEasing", fluiderrors.KindConfig,
			fmt.Errorf("unterminated cubic-bezier in %q", s))
	}
	parts := strings.Split(inner, ",")
	if len(parts) != 4 {
		return nil, fluiderrors.New("xanimation.ParseEasing", fluiderrors.KindConfig,
			fmt.Errorf("cubic-bezier needs 4 values, got %d", len(parts)))
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fluiderrors.New("xanimation.ParseEasing", fluiderrors.KindConfig, err)
		}
		v[i] = f
	}
	return Bezier(v[0], v[1], v[2], v[3]), nil
}

// Curve returns the easing function. Unknown names fall back to linear.
func (e *Easing) Curve() func(float64) float64 {
	if e == nil {
		return animation.LinearCurve
	}
	if e.Name != "" {
		if fn, ok := animation.Named(e.Name); ok {
			return fn
		}
		return animation.LinearCurve
	}
	return animation.CubicBezier(e.X1, e.Y1, e.X2, e.Y2)
}

func (e *Easing) String() string {
	switch {
	case e == nil:
		return "linear"
	case e.Name != "":
		return e.Name
	default:
		return fmt.Sprintf("cubic-bezier(%g, %g, %g, %g)", e.X1, e.Y1, e.X2, e.Y2)
	}
}
