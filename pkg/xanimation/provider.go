package xanimation

import (
	"fmt"

	"github.com/go-fluid/fluid/pkg/animation"
	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
)

// Provider renders steps onto one target. Host toolkit adapters implement it
// over their native animation primitives; [TickerProvider] is the built-in
// frame-loop implementation.
type Provider interface {
	// Initialize binds the provider to the package that drives it. It is
	// called once before the first Set or Animate.
	Initialize(p *Package) error

	// Set applies step's values immediately, without animating.
	Set(step Transform) error

	// Animate moves the target from its current state to step's values over
	// step.Duration following step.Easing, and calls onCompleted exactly once
	// when done. A zero duration completes before Animate returns.
	//
	// An error returned here is a synchronous failure. Failures after Animate
	// has returned are reported with [Package.Fault] and onCompleted is never
	// called.
	Animate(step Transform, onCompleted func()) error
}

// ProviderFactory creates the provider for a target. A package calls it once
// per chain and target.
type ProviderFactory func(target Target) Provider

// TickerProvider animates a Target with an [animation.AnimationController],
// so its animations advance whenever the host steps the tickers.
type TickerProvider struct {
	target     Target
	pkg        *Package
	controller *animation.AnimationController
}

// NewTickerProvider is the default [ProviderFactory].
func NewTickerProvider(target Target) Provider {
	return &TickerProvider{target: target}
}

var _ Provider = (*TickerProvider)(nil)

func (tp *TickerProvider) Initialize(p *Package) error {
	if tp.target == nil {
		return fluiderrors.New("xanimation.TickerProvider.Initialize", fluiderrors.KindConfig,
			fmt.Errorf("%w: target", fluiderrors.ErrNilArgument))
	}
	tp.pkg = p
	return nil
}

func (tp *TickerProvider) Set(step Transform) error {
	tp.stop()
	return tp.apply("xanimation.TickerProvider.Set", step.Snapshot())
}

func (tp *TickerProvider) Animate(step Transform, onCompleted func()) error {
	tp.stop()
	to := step.Snapshot()
	if step.Duration <= 0 {
		if err := tp.apply("xanimation.TickerProvider.Animate", to); err != nil {
			return err
		}
		if onCompleted != nil {
			onCompleted()
		}
		return nil
	}

	// Applying the start state up front surfaces a dead target synchronously.
	from := tp.target.Properties()
	if err := tp.apply("xanimation.TickerProvider.Animate", from); err != nil {
		return err
	}

	c := animation.NewAnimationController(step.Duration, step.Easing.Curve())
	tp.controller = c
	c.AddListener(func() {
		if err := tp.apply("xanimation.TickerProvider.Animate", Lerp(from, to, c.Value)); err != nil {
			tp.stop()
			if tp.pkg != nil {
				tp.pkg.Fault(tp.target, err)
			} else {
				fluiderrors.ReportError("xanimation.TickerProvider.Animate", fluiderrors.KindTarget, err)
			}
		}
	})
	c.AddStatusListener(func(status animation.AnimationStatus) {
		if status != animation.AnimationCompleted {
			return
		}
		tp.stop()
		if onCompleted != nil {
			onCompleted()
		}
	})
	c.Forward()
	return nil
}

func (tp *TickerProvider) apply(op string, s Snapshot) error {
	return wrapTarget(op, tp.target, tp.target.Apply(s))
}

func (tp *TickerProvider) stop() {
	if tp.controller == nil {
		return
	}
	tp.controller.Dispose()
	tp.controller = nil
}
