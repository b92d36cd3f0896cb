package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-fluid/fluid/pkg/animation"
	"github.com/go-fluid/fluid/pkg/platform"
)

// FrameDuration is the simulated frame interval used by Advance and PumpAndSettle.
const FrameDuration = 16 * time.Millisecond

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("pump and settle timed out")

// Tester drives the frame loop deterministically. It installs a FakeClock as
// the animation clock and a queueing UI dispatcher, and restores both when
// the test ends.
type Tester struct {
	clock      *FakeClock
	dispatches []func()
	frames     int
}

// NewTester creates a Tester bound to t's lifetime.
func NewTester(t testing.TB) *Tester {
	t.Helper()
	tester := &Tester{clock: NewFakeClock()}
	prevClock := animation.SetClock(tester.clock)
	platform.RegisterDispatch(tester.Dispatch)
	t.Cleanup(func() {
		animation.StopAllTickers()
		animation.SetClock(prevClock)
		platform.RegisterDispatch(nil)
	})
	return tester
}

// Clock returns the fake clock driving animations.
func (t *Tester) Clock() *FakeClock {
	return t.clock
}

// Dispatch queues a callback for the next frame, mirroring a UI-thread dispatcher.
func (t *Tester) Dispatch(fn func()) {
	t.dispatches = append(t.dispatches, fn)
}

// Frames returns how many frames have been pumped.
func (t *Tester) Frames() int {
	return t.frames
}

// Pump runs one frame: queued dispatches first, then active tickers.
func (t *Tester) Pump() {
	t.frames++
	pending := t.dispatches
	t.dispatches = nil
	for _, fn := range pending {
		fn()
	}
	animation.StepTickers()
}

// Advance moves the clock forward by d one frame at a time, pumping each frame.
func (t *Tester) Advance(d time.Duration) {
	for d > 0 {
		step := min(d, FrameDuration)
		t.clock.Advance(step)
		t.Pump()
		d -= step
	}
}

// PumpAndSettle pumps frames until no ticker is active and no dispatch is
// queued, or timeout of simulated time has elapsed.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed < timeout {
		t.Pump()
		if !t.needsWork() {
			return nil
		}
		t.clock.Advance(FrameDuration)
		elapsed += FrameDuration
	}
	return ErrSettleTimeout
}

func (t *Tester) needsWork() bool {
	return animation.HasActiveTickers() || len(t.dispatches) > 0
}
