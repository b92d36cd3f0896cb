// Package app wires an MVVM application together: configuration, logging,
// the message hub, the view registry, the presenter and the frame loop that
// drives their animations.
//
// Hosts call [App.Frame] once per display frame (or [App.Run] to let the app
// pace itself) and hand UI-thread work to [App.Dispatch].
package app

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/go-fluid/fluid/pkg/animation"
	"github.com/go-fluid/fluid/pkg/config"
	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
	"github.com/go-fluid/fluid/pkg/messaging"
	"github.com/go-fluid/fluid/pkg/mvvm"
	"github.com/go-fluid/fluid/pkg/navigation"
	"github.com/go-fluid/fluid/pkg/platform"
	"github.com/go-fluid/fluid/pkg/xanimation"
)

// App is a running application.
type App struct {
	cfg       *config.Config
	logger    *logrus.Logger
	hub       *messaging.Hub
	views     *mvvm.ViewContainer
	presenter *navigation.Presenter
	factory   xanimation.ProviderFactory
	animate   bool

	dispatchMu    sync.Mutex
	dispatchQueue []func()
	frames        int

	started     bool
	prevHandler fluiderrors.ErrorHandler
}

// Option configures an App.
type Option func(*App)

// WithLogger replaces the logger built from the log configuration.
func WithLogger(logger *logrus.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithProviderFactory sets the animation provider factory for transitions.
func WithProviderFactory(factory xanimation.ProviderFactory) Option {
	return func(a *App) { a.factory = factory }
}

// WithHub shares an existing hub instead of creating one.
func WithHub(hub *messaging.Hub) Option {
	return func(a *App) { a.hub = hub }
}

// WithoutAnimation makes navigation jump to its final state.
func WithoutAnimation() Option {
	return func(a *App) { a.animate = false }
}

// New builds an app from cfg (defaults when nil). dialogs may be nil for
// hosts without native alerts.
func New(cfg *config.Config, dialogs navigation.Dialogs, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, animate: true}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = cfg.Log.NewLogger(os.Stderr)
	}
	if a.hub == nil {
		a.hub = messaging.NewHub(messaging.WithLogger(a.logger))
	}
	a.views = mvvm.NewViewContainer()

	popts := []navigation.PresenterOption{
		navigation.WithHub(a.hub),
		navigation.WithLogger(a.logger),
	}
	if dialogs != nil {
		popts = append(popts, navigation.WithDialogs(dialogs))
	}
	if !a.animate {
		popts = append(popts, navigation.WithoutAnimation())
	}
	a.presenter = navigation.NewPresenter(navigation.NewContainer(cfg.Navigation, a.factory), a.views, popts...)
	return a, nil
}

// Register makes VM presentable in a.
func Register[VM mvvm.ViewModel](a *App, newViewModel func() VM, newView func(VM) mvvm.View) error {
	return mvvm.Register(a.views, newViewModel, newView)
}

// Start installs the app as the UI dispatcher, routes reported errors to its
// logger and shows the main view model.
func (a *App) Start(mainViewModel reflect.Type) error {
	if a.started {
		return fluiderrors.New("app.Start", fluiderrors.KindState,
			fmt.Errorf("%w: already started", fluiderrors.ErrInvalidState))
	}
	v, err := a.views.Resolve(mainViewModel)
	if err != nil {
		return err
	}
	a.started = true
	platform.RegisterDispatch(a.Dispatch)
	handler := fluiderrors.NewLogHandler(a.logger)
	handler.Verbose = a.cfg.Log.Verbose
	a.prevHandler = fluiderrors.SetHandler(handler)

	if err := a.presenter.SetMainView(v); err != nil {
		return err
	}
	a.logger.WithFields(logrus.Fields{"app": a.cfg.App.Name, "main": mainViewModel.String()}).Info("started")
	return nil
}

// Close detaches the app from the UI dispatcher and error handler and stops
// running animations.
func (a *App) Close() {
	if !a.started {
		return
	}
	a.started = false
	platform.RegisterDispatch(nil)
	fluiderrors.SetHandler(a.prevHandler)
	animation.StopAllTickers()
}

func (a *App) Config() *config.Config              { return a.cfg }
func (a *App) Logger() *logrus.Logger              { return a.logger }
func (a *App) Hub() *messaging.Hub                 { return a.hub }
func (a *App) Views() *mvvm.ViewContainer          { return a.views }
func (a *App) Presenter() *navigation.Presenter    { return a.presenter }
func (a *App) Factory() xanimation.ProviderFactory { return a.factory }

// Dispatch queues fn for the next frame. Safe to call from any goroutine.
func (a *App) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	a.dispatchMu.Lock()
	a.dispatchQueue = append(a.dispatchQueue, fn)
	a.dispatchMu.Unlock()
}

func (a *App) drainDispatchQueue() []func() {
	a.dispatchMu.Lock()
	callbacks := a.dispatchQueue
	a.dispatchQueue = nil
	a.dispatchMu.Unlock()
	return callbacks
}

// Frame runs one frame: queued dispatches, then animation tickers. A panic
// in either is reported and ends the frame early.
func (a *App) Frame() {
	defer fluiderrors.Recover("app.Frame")
	a.frames++
	for _, fn := range a.drainDispatchQueue() {
		fn()
	}
	animation.StepTickers()
}

// Frames returns how many frames have run.
func (a *App) Frames() int { return a.frames }

// NeedsFrame reports whether an animation is running or work is queued.
func (a *App) NeedsFrame() bool {
	a.dispatchMu.Lock()
	queued := len(a.dispatchQueue) > 0
	a.dispatchMu.Unlock()
	return queued || animation.HasActiveTickers()
}

// Run calls Frame at the configured frame rate until ctx is done.
func (a *App) Run(ctx context.Context) error {
	return a.run(ctx, func() bool { return true })
}

// RunUntilIdle calls Frame at the configured frame rate until nothing needs
// a frame or ctx is done.
func (a *App) RunUntilIdle(ctx context.Context) error {
	return a.run(ctx, a.NeedsFrame)
}

func (a *App) run(ctx context.Context, more func() bool) error {
	ticker := time.NewTicker(a.cfg.Animation.FrameInterval())
	defer ticker.Stop()
	for {
		a.Frame()
		if !more() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
