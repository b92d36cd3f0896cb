package xanimation

import (
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
)

// State is the playback state of a Package.
//
//	Configuring ──Animate──► Playing ──► Completed ──AnimateReverse──► Reversing
//	                            ▲            │  ▲                          │
//	                            └──Animate───┘  └──────────────────────────┘
//
// Interpolate does not change the state.
type State int

const (
	// StateConfiguring accepts new steps.
	StateConfiguring State = iota
	// StatePlaying runs the chains forward.
	StatePlaying
	// StateReversing runs the chains backward.
	StateReversing
	// StateCompleted is reached when every run has finished.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateConfiguring:
		return "configuring"
	case StatePlaying:
		return "playing"
	case StateReversing:
		return "reversing"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Package groups the chains of one animation and plays them, either over
// time ([Package.Animate]) or at an externally driven position
// ([Package.Interpolate]).
//
// A Package is not safe for concurrent use; drive it from the UI loop.
type Package struct {
	factory         ProviderFactory
	defaultDuration time.Duration
	seq             int

	chains  []*Chain
	active  *Chain
	pending *Transform

	state     State
	configErr error
	fault     error

	// Set when playback first starts; the builder is closed from then on.
	frozen [][]Transform

	providers   map[runKey]Provider
	baselines   map[Target]Snapshot
	lastApplied map[runKey]Snapshot
	runners     []*runner
	running     int
	onCompleted func()

	// starting is set while play launches the runs; failures then are
	// returned to the caller instead of reported.
	starting  bool
	startErrs []error
}

type runKey struct {
	chain  int
	target Target
}

// NewPackage creates a package with one chain over targets. A nil factory
// uses [NewTickerProvider].
func NewPackage(factory ProviderFactory, targets ...Target) *Package {
	if factory == nil {
		factory = NewTickerProvider
	}
	p := &Package{
		factory:         factory,
		defaultDuration: DefaultDuration,
		providers:       make(map[runKey]Provider),
		baselines:       make(map[Target]Snapshot),
		lastApplied:     make(map[runKey]Snapshot),
	}
	if len(targets) > 0 {
		p.Chain(targets...)
	}
	return p
}

func (p *Package) nextSeq() int {
	id := p.seq
	p.seq++
	return id
}

// State returns the playback state.
func (p *Package) State() State { return p.state }

// Err returns the configuration error recorded by builder calls made after
// playback started, or else the last asynchronous playback fault.
func (p *Package) Err() error {
	if p.configErr != nil {
		return p.configErr
	}
	return p.fault
}

// Chains returns the package's chains in creation order.
func (p *Package) Chains() []*Chain {
	return append([]*Chain(nil), p.chains...)
}

// SetDefaultDuration sets the duration given to the first step of a chain.
func (p *Package) SetDefaultDuration(d time.Duration) *Package {
	if d < 0 {
		p.recordConfig(fluiderrors.New("xanimation.Package.SetDefaultDuration", fluiderrors.KindConfig,
			fmt.Errorf("negative duration %v", d)))
		return p
	}
	p.defaultDuration = d
	return p
}

// Chain selects the chain for targets, creating it when no chain has exactly
// these targets, and makes it the active chain. A pending shorthand step is
// committed first.
func (p *Package) Chain(targets ...Target) *Chain {
	p.flushPending()
	for _, c := range p.chains {
		if c.matches(targets) {
			p.active = c
			return c
		}
	}
	c := &Chain{pkg: p, targets: append([]Target(nil), targets...)}
	if p.frozen != nil {
		p.closed("xanimation.Package.Chain")
		return c
	}
	p.chains = append(p.chains, c)
	p.active = c
	return c
}

func (p *Package) activeChain() *Chain {
	if p.active == nil {
		return p.Chain()
	}
	return p.active
}

// Add appends an inheriting step to the active chain. See [Chain.Add].
func (p *Package) Add() *Transform { return p.activeChain().Add() }

// AddWith appends an inheriting step configured by setup to the active chain.
func (p *Package) AddWith(setup func(*Transform)) error { return p.activeChain().AddWith(setup) }

// SetStep appends a directly applied step to the active chain. See [Chain.Set].
func (p *Package) SetStep() *Transform { return p.activeChain().Set() }

// SetStepWith appends a directly applied step configured by setup.
func (p *Package) SetStepWith(setup func(*Transform)) error { return p.activeChain().SetWith(setup) }

// Reset appends a step restoring default visual state to the active chain.
func (p *Package) Reset() *Transform { return p.activeChain().Reset() }

// The shorthands below edit a pending step on the active chain. The pending
// step inherits like [Chain.Add] and is committed by Then, Set, Chain,
// Animate or Run.

func (p *Package) pendingStep() *Transform {
	if p.pending == nil {
		p.pending = p.activeChain().newStep(true)
	}
	return p.pending
}

// Scale sets the pending step's scale.
func (p *Package) Scale(scale float64) *Package {
	p.pendingStep().SetScale(scale)
	return p
}

// Rotate sets the pending step's rotation in degrees.
func (p *Package) Rotate(degrees float64) *Package {
	p.pendingStep().SetRotation(degrees)
	return p
}

// Translate sets the pending step's translation.
func (p *Package) Translate(x, y float64) *Package {
	p.pendingStep().SetTranslation(x, y)
	return p
}

// Fade sets the pending step's opacity.
func (p *Package) Fade(opacity float64) *Package {
	p.pendingStep().SetOpacity(opacity)
	return p
}

// Color sets the pending step's background colour.
func (p *Package) Color(c colorful.Color) *Package {
	p.pendingStep().SetColor(c)
	return p
}

// Duration sets the pending step's duration.
func (p *Package) Duration(d time.Duration) *Package {
	p.pendingStep().SetDuration(d)
	return p
}

// Delay sets the pending step's delay.
func (p *Package) Delay(d time.Duration) *Package {
	p.pendingStep().SetDelay(d)
	return p
}

// Ease sets the pending step's easing.
func (p *Package) Ease(e *Easing) *Package {
	p.pendingStep().SetEasingCurve(e)
	return p
}

// Then commits the pending step as an animated step. Without a pending step
// it does nothing.
func (p *Package) Then() *Package {
	p.commitPending(false)
	return p
}

// Set commits the pending step as a directly applied step. Without a pending
// step it commits a copy of the chain's last state.
func (p *Package) Set() *Package {
	p.pendingStep()
	p.commitPending(true)
	return p
}

func (p *Package) flushPending() {
	p.commitPending(false)
}

func (p *Package) commitPending(only bool) {
	if p.pending == nil {
		return
	}
	t := p.pending
	p.pending = nil
	t.OnlyTransform = only
	p.active.append("xanimation.Package.commit", t)
}

func (p *Package) closed(op string) {
	p.recordConfig(fluiderrors.New(op, fluiderrors.KindState,
		fmt.Errorf("%w: builder closed once playback started", fluiderrors.ErrInvalidState)))
}

func (p *Package) recordConfig(err *fluiderrors.FluidError) {
	if p.configErr == nil {
		p.configErr = err
	}
}

// sequences returns the steps of every chain: the frozen copies once playback
// has started, otherwise the live steps plus the pending step.
func (p *Package) sequences() [][]Transform {
	if p.frozen != nil {
		return p.frozen
	}
	out := make([][]Transform, len(p.chains))
	for i, c := range p.chains {
		out[i] = c.Steps()
		if p.pending != nil && c == p.active {
			out[i] = append(out[i], *p.pending)
		}
	}
	return out
}

func (p *Package) freeze() {
	p.flushPending()
	if p.frozen != nil {
		return
	}
	p.frozen = make([][]Transform, len(p.chains))
	for i, c := range p.chains {
		p.frozen[i] = c.Steps()
	}
}

// PlaybackDuration returns how long Animate takes: the longest chain's sum
// of delays and durations, counting directly applied steps as instant.
func (p *Package) PlaybackDuration() time.Duration {
	var longest time.Duration
	for _, steps := range p.sequences() {
		var total time.Duration
		for _, s := range steps {
			total += s.Delay
			if !s.OnlyTransform {
				total += s.Duration
			}
		}
		longest = max(longest, total)
	}
	return longest
}

func (p *Package) provider(key runKey) (Provider, error) {
	if prov, ok := p.providers[key]; ok {
		return prov, nil
	}
	prov := p.factory(key.target)
	if prov == nil {
		return nil, fluiderrors.New("xanimation.Package.provider", fluiderrors.KindConfig,
			fmt.Errorf("%w: provider factory returned nil", fluiderrors.ErrNilArgument))
	}
	if err := prov.Initialize(p); err != nil {
		return nil, wrapTarget("xanimation.Provider.Initialize", key.target, err)
	}
	p.providers[key] = prov
	return prov, nil
}

func wrapTarget(op string, target Target, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*fluiderrors.FluidError); ok {
		return err
	}
	return &fluiderrors.FluidError{Op: op, Kind: fluiderrors.KindTarget, Target: targetName(target), Err: err}
}
