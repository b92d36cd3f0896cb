package xanimation

import (
	"fmt"
	"time"

	"github.com/go-fluid/fluid/pkg/animation"
	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
	"github.com/go-fluid/fluid/pkg/platform"
)

// Animate plays every chain forward. Chains run side by side; the steps of a
// chain run one after another, each waiting for its own delay once the
// previous step has finished. The call returns once the first frame of work
// is scheduled; the host advances playback with [animation.StepTickers].
//
// onCompleted runs once, on the UI thread, after every chain has finished
// on every target. Runs that fail are counted as finished. Errors raised
// while starting are returned; later faults are reported through the error
// handler and kept in [Package.Err].
//
// Animate fails with a state error while the package is already playing.
// Calling it on a completed package replays from the first step.
func (p *Package) Animate(onCompleted func()) error {
	return p.play("xanimation.Package.Animate", StatePlaying, 0, onCompleted)
}

// Run is Animate for packages whose configuration is already complete.
func (p *Package) Run(onCompleted func()) error {
	return p.play("xanimation.Package.Run", StatePlaying, 0, onCompleted)
}

// AnimateReverse plays the chains back from their last step, animating each
// target toward the previous step and finally to the state it had when
// Animate began. Delays are dropped. A positive duration replaces the
// duration of every step.
//
// The package must have completed a playback first.
func (p *Package) AnimateReverse(duration time.Duration, onCompleted func()) error {
	return p.play("xanimation.Package.AnimateReverse", StateReversing, duration, onCompleted)
}

func (p *Package) play(op string, next State, override time.Duration, onCompleted func()) error {
	switch {
	case p.state == StatePlaying || p.state == StateReversing:
		return fluiderrors.New(op, fluiderrors.KindState,
			fmt.Errorf("%w: package is %s", fluiderrors.ErrInvalidState, p.state))
	case next == StateReversing && p.state != StateCompleted:
		return fluiderrors.New(op, fluiderrors.KindState,
			fmt.Errorf("%w: nothing to reverse while %s", fluiderrors.ErrInvalidState, p.state))
	}

	p.freeze()
	p.state = next
	p.fault = nil
	p.onCompleted = onCompleted
	clear(p.lastApplied)
	if next == StatePlaying {
		p.captureBaselines()
	}

	var runs []*runner
	for i, c := range p.chains {
		steps := p.frozen[i]
		if len(steps) == 0 {
			continue
		}
		for _, target := range c.targets {
			seq := steps
			if next == StateReversing {
				seq = reverseSteps(steps, p.baselines[target], override)
			}
			runs = append(runs, &runner{pkg: p, key: runKey{chain: i, target: target}, steps: seq})
		}
	}
	p.runners = runs
	p.running = len(runs)

	p.starting = true
	p.startErrs = nil
	for _, r := range runs {
		prov, err := p.provider(r.key)
		if err != nil {
			r.fail(err)
			continue
		}
		r.prov = prov
		r.advance()
	}
	p.starting = false

	var err error
	if len(p.startErrs) > 0 {
		err = p.startErrs[0]
	}
	p.startErrs = nil
	if p.running == 0 {
		p.complete()
	}
	return err
}

func (p *Package) captureBaselines() {
	clear(p.baselines)
	for _, c := range p.chains {
		for _, target := range c.targets {
			if _, ok := p.baselines[target]; !ok {
				p.baselines[target] = target.Properties()
			}
		}
	}
}

// reverseSteps builds the backward sequence for one target: step i of the
// forward chain becomes a step toward step i-1, and the first step returns
// to baseline.
func reverseSteps(steps []Transform, baseline Snapshot, override time.Duration) []Transform {
	out := make([]Transform, 0, len(steps))
	for i := len(steps) - 1; i >= 0; i-- {
		var back Transform
		if i > 0 {
			back = steps[i-1]
		} else {
			back = transformOf(baseline)
		}
		back.id = steps[i].id
		back.Delay = 0
		back.Duration = steps[i].Duration
		if override > 0 {
			back.Duration = override
		}
		back.Easing = steps[i].Easing
		back.OnlyTransform = steps[i].OnlyTransform
		out = append(out, back)
	}
	return out
}

func (p *Package) complete() {
	p.state = StateCompleted
	cb := p.onCompleted
	p.onCompleted = nil
	platform.RunOnUI(cb)
}

// Fault reports an asynchronous failure of target, records it in
// [Package.Err] and aborts the runs still animating target. Providers call
// it when rendering fails after Animate has returned.
func (p *Package) Fault(target Target, err error) {
	if err == nil {
		return
	}
	err = wrapTarget("xanimation.Package.Fault", target, err)
	aborted := false
	for _, r := range p.runners {
		if r.key.target == target && !r.done {
			r.fail(err)
			aborted = true
		}
	}
	if !aborted && p.fault == nil {
		p.fault = err
		fluiderrors.ReportError("xanimation.Package.Fault", fluiderrors.KindTarget, err)
	}
}

// runner plays the step sequence of one chain on one target.
type runner struct {
	pkg   *Package
	key   runKey
	prov  Provider
	steps []Transform

	next    int
	delayed bool
	delay   *animation.Ticker
	// token identifies the step currently animating; a completion carrying
	// a stale token is ignored.
	token int
	done  bool
}

func (r *runner) advance() {
	for !r.done {
		if r.next >= len(r.steps) {
			r.finish()
			return
		}
		step := r.steps[r.next]
		if step.Delay > 0 && !r.delayed {
			r.delayed = true
			r.delay = animation.After(step.Delay, r.advance)
			return
		}
		r.delayed = false
		r.delay = nil
		r.next++

		if step.OnlyTransform || step.Duration <= 0 {
			if err := r.prov.Set(step); err != nil {
				r.fail(err)
				return
			}
			continue
		}

		r.token++
		token := r.token
		calling, completedInline := true, false
		err := r.prov.Animate(step, func() {
			if r.done || r.token != token {
				return
			}
			r.token++
			if calling {
				completedInline = true
				return
			}
			r.advance()
		})
		calling = false
		if err != nil {
			r.fail(err)
			return
		}
		if !completedInline {
			return
		}
	}
}

func (r *runner) fail(err error) {
	if r.done {
		return
	}
	err = wrapTarget("xanimation.Package.play", r.key.target, err)
	if r.pkg.starting {
		r.pkg.startErrs = append(r.pkg.startErrs, err)
	} else if r.pkg.fault == nil {
		r.pkg.fault = err
		fluiderrors.ReportError("xanimation.Package.play", fluiderrors.KindTarget, err)
	}
	r.finish()
}

func (r *runner) finish() {
	if r.done {
		return
	}
	r.done = true
	r.token++
	r.delay.Stop()
	r.delay = nil
	r.pkg.running--
	if r.pkg.running == 0 && !r.pkg.starting {
		r.pkg.complete()
	}
}
