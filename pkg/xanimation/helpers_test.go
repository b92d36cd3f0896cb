package xanimation

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

type fakeTarget struct {
	name     string
	state    Snapshot
	applies  int
	disposed bool
}

func newFakeTarget(name string) *fakeTarget {
	return &fakeTarget{name: name, state: DefaultSnapshot()}
}

func (f *fakeTarget) Properties() Snapshot { return f.state }

func (f *fakeTarget) Apply(s Snapshot) error {
	if f.disposed {
		return fluiderrors.ErrTargetDisposed
	}
	f.state = s
	f.applies++
	return nil
}

func (f *fakeTarget) String() string { return f.name }

// recordingProvider applies every step at once and completes inline.
type recordingProvider struct {
	target     Target
	pkg        *Package
	sets       []Transform
	animations []Transform
}

func (r *recordingProvider) Initialize(p *Package) error {
	r.pkg = p
	return nil
}

func (r *recordingProvider) Set(step Transform) error {
	r.sets = append(r.sets, step)
	return r.target.Apply(step.Snapshot())
}

func (r *recordingProvider) Animate(step Transform, onCompleted func()) error {
	r.animations = append(r.animations, step)
	if err := r.target.Apply(step.Snapshot()); err != nil {
		return err
	}
	onCompleted()
	return nil
}

type recorders map[Target]*recordingProvider

func (rs recorders) factory(target Target) Provider {
	rp := &recordingProvider{target: target}
	rs[target] = rp
	return rp
}

// captureHandler collects reported errors for the duration of a test.
type captureHandler struct {
	mu     sync.Mutex
	errors []*fluiderrors.FluidError
}

func (h *captureHandler) HandleError(err *fluiderrors.FluidError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, err)
}

func (h *captureHandler) HandlePanic(*fluiderrors.PanicError) {}

func (h *captureHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.errors)
}

func captureErrors(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	prev := fluiderrors.SetHandler(h)
	t.Cleanup(func() { fluiderrors.SetHandler(prev) })
	return h
}

func assertSnapshot(t *testing.T, got, want Snapshot) {
	t.Helper()
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}
