package navigation

import (
	"fmt"
	"math"
	"time"

	"github.com/go-fluid/fluid/pkg/config"
	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
	"github.com/go-fluid/fluid/pkg/mvvm"
	"github.com/go-fluid/fluid/pkg/view"
	"github.com/go-fluid/fluid/pkg/xanimation"
)

// Container holds the stack of pushed views and builds the transitions
// between them. The top of the stack is the last child.
//
// A Container is driven from the UI loop and is not safe for concurrent use.
type Container struct {
	cfg      config.NavigationConfig
	factory  xanimation.ProviderFactory
	children []mvvm.View

	xstart   float64
	snapping *xanimation.Package

	// OnSwipeBack is called when a swipe-back gesture has carried the top
	// view off screen. The view is still a child; the presenter removes it.
	OnSwipeBack func(v mvvm.View)
}

// NewContainer creates an empty container sized and tuned by cfg. A nil
// factory animates with [xanimation.NewTickerProvider].
func NewContainer(cfg config.NavigationConfig, factory xanimation.ProviderFactory) *Container {
	return &Container{cfg: cfg, factory: factory}
}

// Width returns the container width.
func (c *Container) Width() float64 { return c.cfg.Width }

// Height returns the container height.
func (c *Container) Height() float64 { return c.cfg.Height }

// AddChild pushes v and sizes its element to fill the container.
func (c *Container) AddChild(v mvvm.View) error {
	if v == nil {
		return fluiderrors.New("navigation.Container.AddChild", fluiderrors.KindConfig,
			fmt.Errorf("%w: view", fluiderrors.ErrNilArgument))
	}
	c.fill(v)
	c.children = append(c.children, v)
	return nil
}

// RemoveChild removes v wherever it is in the stack.
func (c *Container) RemoveChild(v mvvm.View) error {
	i := c.indexOf(v)
	if i < 0 {
		return fluiderrors.New("navigation.Container.RemoveChild", fluiderrors.KindConfig,
			fluiderrors.ErrNotChild)
	}
	c.children = append(c.children[:i], c.children[i+1:]...)
	return nil
}

// Count returns the number of children.
func (c *Container) Count() int { return len(c.children) }

// Children returns the stack, bottom first.
func (c *Container) Children() []mvvm.View {
	return append([]mvvm.View(nil), c.children...)
}

// Top returns the visible child, or nil.
func (c *Container) Top() mvvm.View {
	if len(c.children) == 0 {
		return nil
	}
	return c.children[len(c.children)-1]
}

// BackButtonVisible reports whether there is a view to go back to.
func (c *Container) BackButtonVisible() bool { return c.Count() > 1 }

// Title returns the title of the top view model.
func (c *Container) Title() string {
	if top := c.Top(); top != nil {
		return top.ViewModel().Title()
	}
	return ""
}

// TransitionIn returns the animations that bring v on screen. For
// [mvvm.PresentationDefault] v must already be a child: it slides in from
// the right while the view beneath it moves left by the parallax fraction.
// Modal and popup views slide up from the bottom. Only the translation
// changes; every other property starts from the view's current state.
func (c *Container) TransitionIn(v mvvm.View, mode mvvm.PresentationMode) ([]*xanimation.Package, error) {
	if v == nil {
		return nil, fluiderrors.New("navigation.Container.TransitionIn", fluiderrors.KindConfig,
			fmt.Errorf("%w: view", fluiderrors.ErrNilArgument))
	}
	switch mode {
	case mvvm.PresentationDefault:
		out := []*xanimation.Package{c.slideIn(v.Target(), c.cfg.Width, 0)}
		if prev := c.below(v); prev != nil {
			out = append(out, c.slide(prev.Target(), -c.parallax(), 0))
		}
		return out, nil
	case mvvm.PresentationModal, mvvm.PresentationPopup:
		c.fill(v)
		return []*xanimation.Package{c.slideIn(v.Target(), 0, c.cfg.Height)}, nil
	default:
		return nil, unknownMode("navigation.Container.TransitionIn", mode)
	}
}

// TransitionOut returns the animations that take v off screen, the reverse
// of TransitionIn.
func (c *Container) TransitionOut(v mvvm.View, mode mvvm.PresentationMode) ([]*xanimation.Package, error) {
	if v == nil {
		return nil, fluiderrors.New("navigation.Container.TransitionOut", fluiderrors.KindConfig,
			fmt.Errorf("%w: view", fluiderrors.ErrNilArgument))
	}
	switch mode {
	case mvvm.PresentationDefault:
		out := []*xanimation.Package{c.slide(v.Target(), c.cfg.Width, 0)}
		if prev := c.below(v); prev != nil {
			out = append(out, c.slide(prev.Target(), 0, 0))
		}
		return out, nil
	case mvvm.PresentationModal, mvvm.PresentationPopup:
		return []*xanimation.Package{c.slide(v.Target(), 0, c.cfg.Height)}, nil
	default:
		return nil, unknownMode("navigation.Container.TransitionOut", mode)
	}
}

func (c *Container) newPackage(target *view.View) *xanimation.Package {
	return xanimation.NewPackage(c.factory, target).SetDefaultDuration(c.cfg.Duration)
}

// slideIn jumps target to (x, y) and animates it back to the origin.
func (c *Container) slideIn(target *view.View, x, y float64) *xanimation.Package {
	p := c.newPackage(target)
	from(p.SetStep(), target.Properties()).SetTranslation(x, y)
	p.Add().SetTranslation(0, 0)
	return p
}

// slide animates target to (x, y).
func (c *Container) slide(target *view.View, x, y float64) *xanimation.Package {
	p := c.newPackage(target)
	from(p.Add(), target.Properties()).SetTranslation(x, y)
	return p
}

// from copies the visual state s into t, leaving colour to the view.
func from(t *xanimation.Transform, s xanimation.Snapshot) *xanimation.Transform {
	return t.SetScale(s.Scale).
		SetRotation(s.Rotation).
		SetTranslation(s.TranslationX, s.TranslationY).
		SetOpacity(s.Opacity)
}

func (c *Container) fill(v mvvm.View) {
	v.Target().SetFrame(view.Rect{W: c.cfg.Width, H: c.cfg.Height})
}

func (c *Container) parallax() float64 {
	return c.cfg.Width * c.cfg.Parallax
}

func (c *Container) indexOf(v mvvm.View) int {
	for i, child := range c.children {
		if child == v {
			return i
		}
	}
	return -1
}

// below returns the child beneath v, or nil.
func (c *Container) below(v mvvm.View) mvvm.View {
	if i := c.indexOf(v); i > 0 {
		return c.children[i-1]
	}
	return nil
}

func (c *Container) snapDuration(distance, velocity float64) time.Duration {
	d := c.cfg.MinSnap
	if v := math.Abs(velocity); v > 0 {
		if t := time.Duration(distance * float64(time.Second) / v); t > d {
			d = t
		}
	}
	return d
}

func unknownMode(op string, mode mvvm.PresentationMode) error {
	return fluiderrors.New(op, fluiderrors.KindConfig, fmt.Errorf("unknown presentation mode %v", mode))
}
