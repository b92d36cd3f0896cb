package navigation

import (
	"fmt"
	"math"

	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
	"github.com/go-fluid/fluid/pkg/view"
	"github.com/go-fluid/fluid/pkg/xanimation"
)

// PanState is the phase of a horizontal pan gesture.
type PanState int

const (
	PanStarted PanState = iota
	PanMoving
	PanEnded
	PanCancelled
)

func (s PanState) String() string {
	switch s {
	case PanStarted:
		return "started"
	case PanMoving:
		return "moving"
	case PanEnded:
		return "ended"
	case PanCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("PanState(%d)", int(s))
	}
}

// UpdateFromGesture drives the swipe-back gesture. x is the finger position
// and velocity its horizontal speed in points per second. While moving, the
// top view follows the finger and the view beneath it slides in at the
// parallax rate. Ending the gesture snaps; cancelling restores both views.
//
// Gestures are ignored when there is nothing to go back to, and rejected
// while a snap is still animating.
func (c *Container) UpdateFromGesture(x, velocity float64, state PanState) error {
	if !c.BackButtonVisible() {
		return nil
	}
	if c.snapping != nil {
		return fluiderrors.New("navigation.Container.UpdateFromGesture", fluiderrors.KindState,
			fmt.Errorf("%w: snap in progress", fluiderrors.ErrInvalidState))
	}
	top := c.Top()
	prev := c.below(top)

	switch state {
	case PanStarted:
		c.xstart = x
	case PanMoving:
		dx := x - c.xstart
		if err := setTranslationX(top.Target(), math.Max(0, dx)); err != nil {
			return err
		}
		return setTranslationX(prev.Target(), math.Max(-c.parallax(), -c.parallax()+dx*c.cfg.Parallax))
	case PanEnded:
		return c.Snap(velocity)
	case PanCancelled:
		if err := setTranslationX(top.Target(), 0); err != nil {
			return err
		}
		return setTranslationX(prev.Target(), -c.parallax())
	default:
		return fluiderrors.New("navigation.Container.UpdateFromGesture", fluiderrors.KindConfig,
			fmt.Errorf("unknown pan state %v", state))
	}
	return nil
}

// Snap settles a partly swiped top view. Past the snap threshold it slides
// off to the right and OnSwipeBack fires once it is gone; otherwise both
// views slide back. The duration covers the remaining distance at velocity
// but is never shorter than the configured minimum.
func (c *Container) Snap(velocity float64) error {
	top := c.Top()
	if top == nil {
		return fluiderrors.New("navigation.Container.Snap", fluiderrors.KindState, fluiderrors.ErrEmptyStack)
	}
	prev := c.below(top)

	tx := top.Target().Properties().TranslationX
	to, prevTo := 0.0, -c.parallax()
	dismiss := tx > c.cfg.Width*c.cfg.SnapThreshold
	if dismiss {
		to, prevTo = c.cfg.Width, 0
	}
	d := c.snapDuration(math.Abs(to-tx), velocity)

	p := xanimation.NewPackage(c.factory, top.Target())
	from(p.Add(), top.Target().Properties()).SetTranslation(to, 0).SetDuration(d)
	if prev != nil {
		p.Chain(prev.Target())
		from(p.Add(), prev.Target().Properties()).SetTranslation(prevTo, 0).SetDuration(d)
	}
	c.snapping = p
	return p.Animate(func() {
		c.snapping = nil
		if dismiss && c.OnSwipeBack != nil {
			c.OnSwipeBack(top)
		}
	})
}

// Snapping reports whether a snap animation is running.
func (c *Container) Snapping() bool { return c.snapping != nil }

func setTranslationX(v *view.View, x float64) error {
	s := v.Properties()
	s.TranslationX = x
	return v.Apply(s)
}
