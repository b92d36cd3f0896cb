package mvvm

import (
	"fmt"
	"reflect"
	"sync"

	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
	"github.com/go-fluid/fluid/pkg/view"
	"github.com/go-fluid/fluid/pkg/xanimation"
)

// View presents a view model on an element.
type View interface {
	ViewModel() ViewModel
	// Target is the element transitions animate.
	Target() *view.View
}

// Transitioner is implemented by views that animate their own presentation.
// defaults holds the animations the navigation container would run; the
// returned packages run instead, so a view may return defaults unchanged,
// extend them or replace them.
type Transitioner interface {
	TransitionIn(mode PresentationMode, defaults []*xanimation.Package) []*xanimation.Package
	TransitionOut(mode PresentationMode, defaults []*xanimation.Package) []*xanimation.Package
}

// ViewContainer maps view model types to view factories.
type ViewContainer struct {
	mu    sync.RWMutex
	views map[reflect.Type]func() View
}

// NewViewContainer creates an empty registry.
func NewViewContainer() *ViewContainer {
	return &ViewContainer{views: make(map[reflect.Type]func() View)}
}

// Register makes views for VM resolvable. newViewModel creates a fresh view
// model and newView wraps it in a view; both run on every resolve.
// Registering a type again replaces the earlier factories.
func Register[VM ViewModel](c *ViewContainer, newViewModel func() VM, newView func(VM) View) error {
	if newViewModel == nil || newView == nil {
		return fluiderrors.New("mvvm.Register", fluiderrors.KindConfig,
			fmt.Errorf("%w: factories are required", fluiderrors.ErrNilArgument))
	}
	c.mu.Lock()
	c.views[reflect.TypeFor[VM]()] = func() View { return newView(newViewModel()) }
	c.mu.Unlock()
	return nil
}

// Registered reports whether typ has a view.
func (c *ViewContainer) Registered(typ reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.views[typ]
	return ok
}

// Resolve creates the view for view model type typ.
func (c *ViewContainer) Resolve(typ reflect.Type) (View, error) {
	c.mu.RLock()
	build, ok := c.views[typ]
	c.mu.RUnlock()
	if !ok {
		return nil, fluiderrors.New("mvvm.Resolve", fluiderrors.KindConfig,
			fmt.Errorf("%w for %v", fluiderrors.ErrNoView, typ))
	}
	v := build()
	if v == nil || v.ViewModel() == nil || v.Target() == nil {
		return nil, fluiderrors.New("mvvm.Resolve", fluiderrors.KindConfig,
			fmt.Errorf("%w: factory for %v returned an incomplete view", fluiderrors.ErrNoView, typ))
	}
	return v, nil
}

// ResolveFor is Resolve with the view model returned as its concrete type.
func ResolveFor[VM ViewModel](c *ViewContainer) (View, VM, error) {
	var zero VM
	v, err := c.Resolve(reflect.TypeFor[VM]())
	if err != nil {
		return nil, zero, err
	}
	vm, ok := v.ViewModel().(VM)
	if !ok {
		return nil, zero, fluiderrors.New("mvvm.ResolveFor", fluiderrors.KindConfig,
			fmt.Errorf("view model is %T, want %v", v.ViewModel(), reflect.TypeFor[VM]()))
	}
	return v, vm, nil
}

// BasicView is a View over a view model and an element.
type BasicView struct {
	VM      ViewModel
	Element *view.View
}

func (v *BasicView) ViewModel() ViewModel { return v.VM }
func (v *BasicView) Target() *view.View   { return v.Element }

// NewBasicView returns a view factory that gives each view model a fresh
// element named name.
func NewBasicView[VM ViewModel](name string) func(VM) View {
	return func(vm VM) View {
		return &BasicView{VM: vm, Element: view.New(name, view.Rect{})}
	}
}
