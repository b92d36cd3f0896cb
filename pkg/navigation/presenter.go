package navigation

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/sirupsen/logrus"

	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
	"github.com/go-fluid/fluid/pkg/messaging"
	"github.com/go-fluid/fluid/pkg/mvvm"
	"github.com/go-fluid/fluid/pkg/xanimation"
)

// Dialogs shows native alerts. Hosts implement it over their toolkit.
type Dialogs interface {
	// ShowMessage shows an alert and reports whether accept was chosen. An
	// empty cancel shows a single button.
	ShowMessage(ctx context.Context, title, message, accept, cancel string) (bool, error)
	// ShowActionSheet lets the user pick one of buttons and returns the label
	// chosen, including cancel or destruction.
	ShowActionSheet(ctx context.Context, title, cancel, destruction string, buttons ...string) (string, error)
}

// Navigated is published on the hub after a view model is shown.
type Navigated struct {
	ViewModel mvvm.ViewModel
	Mode      mvvm.PresentationMode
	Depth     int
}

// Dismissed is published on the hub after a view model is removed.
type Dismissed struct {
	ViewModel mvvm.ViewModel
	Mode      mvvm.PresentationMode
	Success   bool
}

type modal struct {
	view      mvvm.View
	dismissed func(success bool)
}

// Presenter shows and dismisses view models. Pushed views live on the
// navigation [Container]; modals and popups are stacked above it.
//
// A Presenter is driven from the UI loop and is not safe for concurrent use.
type Presenter struct {
	container *Container
	views     *mvvm.ViewContainer
	hub       *messaging.Hub
	dialogs   Dialogs
	logger    logrus.FieldLogger
	animate   bool

	modals  []*modal
	popups  []mvvm.View
	leaving map[mvvm.View]bool

	progress progress
}

// PresenterOption configures a Presenter.
type PresenterOption func(*Presenter)

// WithHub publishes navigation events on hub.
func WithHub(hub *messaging.Hub) PresenterOption {
	return func(p *Presenter) { p.hub = hub }
}

// WithDialogs sets the host dialogs.
func WithDialogs(d Dialogs) PresenterOption {
	return func(p *Presenter) { p.dialogs = d }
}

// WithLogger sets the presenter logger.
func WithLogger(logger logrus.FieldLogger) PresenterOption {
	return func(p *Presenter) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithoutAnimation makes transitions jump to their final state by default.
func WithoutAnimation() PresenterOption {
	return func(p *Presenter) { p.animate = false }
}

// NewPresenter creates a presenter over container, resolving views from
// views.
func NewPresenter(container *Container, views *mvvm.ViewContainer, opts ...PresenterOption) *Presenter {
	p := &Presenter{
		container: container,
		views:     views,
		logger:    logrus.StandardLogger(),
		animate:   true,
		leaving:   make(map[mvvm.View]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithField("component", "navigation")
	container.OnSwipeBack = p.finishPop
	return p
}

// Container returns the navigation container.
func (p *Presenter) Container() *Container { return p.container }

// Depth returns the number of views on screen: the navigation stack plus
// modals and popups.
func (p *Presenter) Depth() int {
	return p.container.Count() + len(p.modals) + len(p.popups)
}

// Views returns every view on screen, bottom first.
func (p *Presenter) Views() []mvvm.View {
	out := p.container.Children()
	for _, m := range p.modals {
		out = append(out, m.view)
	}
	return append(out, p.popups...)
}

// SetMainView replaces the whole navigation stack with v. Modals and popups
// are dismissed first.
func (p *Presenter) SetMainView(v mvvm.View) error {
	if v == nil || v.ViewModel() == nil {
		return fluiderrors.New("navigation.SetMainView", fluiderrors.KindConfig,
			fmt.Errorf("%w: view", fluiderrors.ErrNilArgument))
	}
	for len(p.popups) > 0 {
		p.finishPopup(p.popups[len(p.popups)-1])
	}
	for len(p.modals) > 0 {
		p.finishModal(p.modals[len(p.modals)-1], false)
	}
	for _, child := range p.container.Children() {
		p.container.RemoveChild(child)
		child.ViewModel().Dismissed()
	}
	clear(p.leaving)
	v.ViewModel().SetPresentationMode(mvvm.PresentationDefault)
	if err := p.container.AddChild(v); err != nil {
		return err
	}
	p.navigated(v.ViewModel(), mvvm.PresentationDefault)
	return nil
}

// Option adjusts a single Show call.
type Option func(*showOptions)

type showOptions struct {
	mode      mvvm.PresentationMode
	animate   *bool
	dismissed func(success bool)
	done      func()
}

// Animated overrides the presenter's animation default.
func Animated(animate bool) Option {
	return func(o *showOptions) { o.animate = &animate }
}

// AsModal presents the view modally. dismissed, when set, receives the
// success flag passed to Dismiss.
func AsModal(dismissed func(success bool)) Option {
	return func(o *showOptions) {
		o.mode = mvvm.PresentationModal
		o.dismissed = dismissed
	}
}

// AsPopup presents the view as a popup card.
func AsPopup() Option {
	return func(o *showOptions) { o.mode = mvvm.PresentationPopup }
}

// OnShown runs fn once the transition has finished.
func OnShown(fn func()) Option {
	return func(o *showOptions) { o.done = fn }
}

// Show resolves the view for view model type typ and pushes it, animating
// unless told otherwise. Use [AsModal] or [AsPopup] for other modes.
func (p *Presenter) Show(typ reflect.Type, opts ...Option) error {
	v, err := p.views.Resolve(typ)
	if err != nil {
		return err
	}
	return p.present(v, p.options(opts))
}

// ShowModal presents a view model modally.
func (p *Presenter) ShowModal(typ reflect.Type, dismissed func(success bool), opts ...Option) error {
	return p.Show(typ, append(opts, AsModal(dismissed))...)
}

// ShowPopup presents a view model as a popup.
func (p *Presenter) ShowPopup(typ reflect.Type, opts ...Option) error {
	return p.Show(typ, append(opts, AsPopup())...)
}

// Show resolves the view for VM, initialises its view model with param when
// VM implements [mvvm.Initializer] for P, and presents it. A failing
// Initialize aborts the navigation.
func Show[VM mvvm.ViewModel, P any](ctx context.Context, p *Presenter, param P, opts ...Option) error {
	v, vm, err := mvvm.ResolveFor[VM](p.views)
	if err != nil {
		return err
	}
	if init, ok := any(vm).(mvvm.Initializer[P]); ok {
		if err := init.Initialize(ctx, param); err != nil {
			return fluiderrors.New("navigation.Show", fluiderrors.KindUnknown,
				fmt.Errorf("initialize %T: %w", vm, err))
		}
	}
	return p.present(v, p.options(opts))
}

func (p *Presenter) options(opts []Option) showOptions {
	o := showOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (p *Presenter) present(v mvvm.View, o showOptions) error {
	vm := v.ViewModel()
	vm.SetPresentationMode(o.mode)

	switch o.mode {
	case mvvm.PresentationDefault:
		if err := p.container.AddChild(v); err != nil {
			return err
		}
	case mvvm.PresentationModal:
		p.modals = append(p.modals, &modal{view: v, dismissed: o.dismissed})
	case mvvm.PresentationPopup:
		p.popups = append(p.popups, v)
	}

	pkgs, err := p.transitionIn(v, o.mode)
	if err != nil {
		return err
	}
	p.navigated(vm, o.mode)
	return p.run(pkgs, p.animated(o), o.done)
}

func (p *Presenter) animated(o showOptions) bool {
	if o.animate != nil {
		return *o.animate
	}
	return p.animate
}

// Dismiss removes the top view of mode. For modals, success is passed to the
// dismissed callback given to ShowModal. Dismissing an empty popup stack
// does nothing; the navigation stack keeps its root view. A view whose
// dismissal is still running cannot be dismissed again.
func (p *Presenter) Dismiss(mode mvvm.PresentationMode, success bool, opts ...Option) error {
	o := p.options(opts)
	const op = "navigation.Dismiss"

	var top mvvm.View
	var finish func()
	switch mode {
	case mvvm.PresentationDefault:
		if !p.container.BackButtonVisible() {
			return fluiderrors.New(op, fluiderrors.KindState, fluiderrors.ErrEmptyStack)
		}
		top = p.container.Top()
		finish = func() { p.finishPop(top) }
	case mvvm.PresentationModal:
		if len(p.modals) == 0 {
			return fluiderrors.New(op, fluiderrors.KindState, fluiderrors.ErrEmptyStack)
		}
		m := p.modals[len(p.modals)-1]
		top = m.view
		finish = func() { p.finishModal(m, success) }
	case mvvm.PresentationPopup:
		if len(p.popups) == 0 {
			return nil
		}
		top = p.popups[len(p.popups)-1]
		finish = func() { p.finishPopup(top) }
	default:
		return unknownMode(op, mode)
	}

	if p.leaving[top] {
		return fluiderrors.New(op, fluiderrors.KindState,
			fmt.Errorf("%w: %s view is already being dismissed", fluiderrors.ErrInvalidState, mode))
	}
	pkgs, err := p.transitionOut(top, mode)
	if err != nil {
		return err
	}
	p.leaving[top] = true
	return p.run(pkgs, p.animated(o), func() {
		delete(p.leaving, top)
		finish()
		if o.done != nil {
			o.done()
		}
	})
}

// transitionIn returns the container's animations for v, replaced by the
// view's own when it implements [mvvm.Transitioner].
func (p *Presenter) transitionIn(v mvvm.View, mode mvvm.PresentationMode) ([]*xanimation.Package, error) {
	pkgs, err := p.container.TransitionIn(v, mode)
	if err != nil {
		return nil, err
	}
	if t, ok := v.(mvvm.Transitioner); ok {
		pkgs = t.TransitionIn(mode, pkgs)
	}
	return pkgs, nil
}

func (p *Presenter) transitionOut(v mvvm.View, mode mvvm.PresentationMode) ([]*xanimation.Package, error) {
	pkgs, err := p.container.TransitionOut(v, mode)
	if err != nil {
		return nil, err
	}
	if t, ok := v.(mvvm.Transitioner); ok {
		pkgs = t.TransitionOut(mode, pkgs)
	}
	return pkgs, nil
}

func (p *Presenter) finishPop(v mvvm.View) {
	if err := p.container.RemoveChild(v); err != nil {
		return
	}
	p.dismissed(v.ViewModel(), mvvm.PresentationDefault, true)
}

// finishModal removes m from the modal stack and reports the result. A modal
// that is no longer on the stack is ignored.
func (p *Presenter) finishModal(m *modal, success bool) {
	i := slices.Index(p.modals, m)
	if i < 0 {
		return
	}
	p.modals = slices.Delete(p.modals, i, i+1)
	p.dismissed(m.view.ViewModel(), mvvm.PresentationModal, success)
	if m.dismissed != nil {
		m.dismissed(success)
	}
}

func (p *Presenter) finishPopup(v mvvm.View) {
	i := slices.Index(p.popups, v)
	if i < 0 {
		return
	}
	p.popups = slices.Delete(p.popups, i, i+1)
	p.dismissed(v.ViewModel(), mvvm.PresentationPopup, true)
}

// run plays pkgs side by side and calls done once all have finished. Without
// animation each package jumps to its end state and done runs before run
// returns.
func (p *Presenter) run(pkgs []*xanimation.Package, animate bool, done func()) error {
	finish := func() {
		if done != nil {
			done()
		}
	}
	if !animate {
		var first error
		for _, pkg := range pkgs {
			if err := pkg.Interpolate(1); err != nil && first == nil {
				first = err
			}
		}
		finish()
		return first
	}

	remaining := len(pkgs)
	if remaining == 0 {
		finish()
		return nil
	}
	var first error
	for _, pkg := range pkgs {
		err := pkg.Animate(func() {
			remaining--
			if remaining == 0 {
				finish()
			}
		})
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (p *Presenter) navigated(vm mvvm.ViewModel, mode mvvm.PresentationMode) {
	p.logger.WithFields(logrus.Fields{"mode": mode.String(), "title": vm.Title(), "depth": p.Depth()}).Debug("navigated")
	if p.hub != nil {
		messaging.Publish(p.hub, Navigated{ViewModel: vm, Mode: mode, Depth: p.Depth()})
	}
}

func (p *Presenter) dismissed(vm mvvm.ViewModel, mode mvvm.PresentationMode, success bool) {
	vm.Dismissed()
	p.logger.WithFields(logrus.Fields{"mode": mode.String(), "title": vm.Title(), "success": success}).Debug("dismissed")
	if p.hub != nil {
		messaging.Publish(p.hub, Dismissed{ViewModel: vm, Mode: mode, Success: success})
	}
}

// ShowMessage shows an alert through the host dialogs. An empty accept
// label becomes "OK".
func (p *Presenter) ShowMessage(ctx context.Context, title, message, accept, cancel string) (bool, error) {
	if p.dialogs == nil {
		return false, fluiderrors.New("navigation.ShowMessage", fluiderrors.KindConfig,
			fmt.Errorf("%w: no dialogs configured", fluiderrors.ErrNilArgument))
	}
	if accept == "" {
		accept = "OK"
	}
	ok, err := p.dialogs.ShowMessage(ctx, title, message, accept, cancel)
	if cancel == "" && err == nil {
		return true, nil
	}
	return ok, err
}

// ShowActionSheet shows an action sheet through the host dialogs.
func (p *Presenter) ShowActionSheet(ctx context.Context, title, cancel, destruction string, buttons ...string) (string, error) {
	if p.dialogs == nil {
		return "", fluiderrors.New("navigation.ShowActionSheet", fluiderrors.KindConfig,
			fmt.Errorf("%w: no dialogs configured", fluiderrors.ErrNilArgument))
	}
	return p.dialogs.ShowActionSheet(ctx, title, cancel, destruction, buttons...)
}
