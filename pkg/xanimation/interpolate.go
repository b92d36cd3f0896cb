package xanimation

import (
	"errors"
	"fmt"
	"math"
	"time"

	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
)

// ChainState is the resolved state of one chain at a scrub position.
type ChainState struct {
	Targets []Target
	State   Snapshot
}

// Resolve computes the state of every non-empty chain at fraction without
// touching any target. Fractions outside [0, 1] are clamped; NaN resolves
// to 0.
func (p *Package) Resolve(fraction float64) []ChainState {
	fraction = clampFraction(fraction)
	seqs := p.sequences()
	out := make([]ChainState, 0, len(seqs))
	for i, steps := range seqs {
		if len(steps) == 0 {
			continue
		}
		out = append(out, ChainState{
			Targets: p.chains[i].Targets(),
			State:   resolveSteps(steps, fraction),
		})
	}
	return out
}

// Interpolate renders every chain at fraction of its own timeline through the
// providers' Set. A target is left alone when its resolved state is the one
// last applied and the target still shows it, so repeating a fraction has no
// side effects. A target moved in between is rendered again. Fractions may
// arrive in any order.
//
// Interpolate is rejected while the package is playing. It does not change
// the package state. Rendering errors are returned after every target has
// been visited.
func (p *Package) Interpolate(fraction float64) error {
	const op = "xanimation.Package.Interpolate"
	if p.state == StatePlaying || p.state == StateReversing {
		return fluiderrors.New(op, fluiderrors.KindState,
			fmt.Errorf("%w: package is %s", fluiderrors.ErrInvalidState, p.state))
	}
	if math.IsNaN(fraction) {
		return fluiderrors.New(op, fluiderrors.KindConfig, errors.New("fraction is NaN"))
	}
	fraction = clampFraction(fraction)

	var first error
	for i, steps := range p.sequences() {
		if len(steps) == 0 {
			continue
		}
		state := resolveSteps(steps, fraction)
		for _, target := range p.chains[i].targets {
			key := runKey{chain: i, target: target}
			if last, ok := p.lastApplied[key]; ok && last == state && shows(target, state) {
				continue
			}
			err := p.render(key, state)
			if err != nil {
				delete(p.lastApplied, key)
				if first == nil {
					first = wrapTarget(op, target, err)
				}
				continue
			}
			p.lastApplied[key] = state
		}
	}
	return first
}

func (p *Package) render(key runKey, state Snapshot) error {
	prov, err := p.provider(key)
	if err != nil {
		return err
	}
	return prov.Set(transformOf(state))
}

// shows reports whether t currently renders s. Colour only counts when s
// carries one, since targets may keep their own background.
func shows(t Target, s Snapshot) bool {
	cur := t.Properties()
	if !s.HasColor {
		cur.Color, cur.HasColor = s.Color, s.HasColor
	}
	return cur == s
}

func clampFraction(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	return min(f, 1)
}

// scrubDuration is the length of a chain's scrub timeline. The first step is
// the starting keyframe and takes no time; every later step adds its delay
// and, unless applied directly, its duration.
func scrubDuration(steps []Transform) time.Duration {
	var total time.Duration
	for i := 1; i < len(steps); i++ {
		total += steps[i].Delay
		if !steps[i].OnlyTransform {
			total += steps[i].Duration
		}
	}
	return total
}

// resolveSteps returns the state at fraction of the timeline of a non-empty
// step list. The endpoints return the first and last step exactly. Inside a
// step's delay the previous state holds; inside its duration the state eases
// from the previous step to this one. Directly applied steps jump.
func resolveSteps(steps []Transform, fraction float64) Snapshot {
	n := len(steps)
	if fraction <= 0 {
		return steps[0].Snapshot()
	}
	if fraction >= 1 {
		return steps[n-1].Snapshot()
	}
	total := scrubDuration(steps)
	if total <= 0 {
		return steps[n-1].Snapshot()
	}

	at := fraction * float64(total)
	prev := steps[0].Snapshot()
	var elapsed float64
	for _, step := range steps[1:] {
		start := elapsed + float64(step.Delay)
		if at < start {
			return prev
		}
		var span float64
		if !step.OnlyTransform {
			span = float64(step.Duration)
		}
		end := start + span
		if at < end {
			t := step.Easing.Curve()((at - start) / span)
			return Lerp(prev, step.Snapshot(), t)
		}
		prev = step.Snapshot()
		elapsed = end
	}
	return prev
}
