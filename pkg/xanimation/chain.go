package xanimation

import (
	"time"

	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
)

// Chain is an ordered sequence of steps applied to a group of targets.
// Insertion order is playback order. Every new step inherits from the
// physically last step in the chain.
type Chain struct {
	pkg     *Package
	targets []Target
	steps   []*Transform
}

// Targets returns the targets the chain animates.
func (c *Chain) Targets() []Target {
	return append([]Target(nil), c.targets...)
}

// Len returns the number of committed steps.
func (c *Chain) Len() int {
	return len(c.steps)
}

// Steps returns copies of the committed steps.
func (c *Chain) Steps() []Transform {
	out := make([]Transform, len(c.steps))
	for i, s := range c.steps {
		out[i] = *s
	}
	return out
}

// Duration returns the length of the chain's scrub timeline: every step
// after the first contributes its delay and, unless it is applied directly,
// its duration.
func (c *Chain) Duration() time.Duration {
	return scrubDuration(c.Steps())
}

func (c *Chain) last() *Transform {
	if len(c.steps) == 0 {
		return nil
	}
	return c.steps[len(c.steps)-1]
}

// Add appends a step that inherits the visual state and duration of the last
// step (or the defaults when the chain is empty) and returns it for
// in-place configuration.
func (c *Chain) Add() *Transform {
	return c.add("xanimation.Chain.Add", true, false)
}

// AddWith appends an inheriting step configured by setup.
func (c *Chain) AddWith(setup func(*Transform)) error {
	return c.addWith("xanimation.Chain.AddWith", false, setup)
}

// Set appends an inheriting step that is applied directly, without
// interpolating from the previous visual state. Use it to seed a start point.
func (c *Chain) Set() *Transform {
	return c.add("xanimation.Chain.Set", true, true)
}

// SetWith appends a directly applied step configured by setup.
func (c *Chain) SetWith(setup func(*Transform)) error {
	return c.addWith("xanimation.Chain.SetWith", true, setup)
}

// Reset appends a step that discards inherited visual state and restores
// the defaults. Its duration is still inherited.
func (c *Chain) Reset() *Transform {
	return c.add("xanimation.Chain.Reset", false, false)
}

func (c *Chain) addWith(op string, only bool, setup func(*Transform)) error {
	if setup == nil {
		return fluiderrors.New(op, fluiderrors.KindConfig, fluiderrors.ErrNilArgument)
	}
	setup(c.add(op, true, only))
	return nil
}

func (c *Chain) add(op string, keep, only bool) *Transform {
	c.pkg.flushPending()
	t := c.newStep(keep)
	t.OnlyTransform = only
	c.append(op, t)
	return t
}

func (c *Chain) newStep(keep bool) *Transform {
	return newTransform(c.pkg.nextSeq(), c.last(), keep, c.pkg.defaultDuration)
}

// append commits t unless playback has started, in which case t stays
// detached and the package records a sticky state error.
func (c *Chain) append(op string, t *Transform) {
	if c.pkg.frozen != nil {
		c.pkg.closed(op)
		return
	}
	c.steps = append(c.steps, t)
}

func (c *Chain) matches(targets []Target) bool {
	if len(c.targets) != len(targets) {
		return false
	}
	for i := range targets {
		if c.targets[i] != targets[i] {
			return false
		}
	}
	return true
}
