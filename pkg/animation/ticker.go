// Package animation provides the frame-driven timing primitives that fluid's
// keyframe engine runs on.
//
// # Core Components
//
//   - [Ticker]: calls a callback once per frame while active. The host drives
//     every active ticker by calling [StepTickers] from its frame loop.
//
//   - [AnimationController]: progresses a value from 0.0 to 1.0 over a
//     duration, shaped by an easing curve, with value and status listeners.
//
//   - Curves: [CubicBezier] matches CSS cubic-bezier(); [Named] looks up the
//     Penner curves ("in-out-quad", "out-bounce", ...).
//
//   - [Tween]: interpolates between two values of any type.
//
// # Execution Model
//
// Tickers are single-threaded by contract: StepTickers runs callbacks on the
// calling goroutine, which should be the host's UI loop. Callbacks may start
// and stop tickers; tickers started during a step first tick on the next step.
package animation

import (
	"sync"
	"time"
)

var (
	tickerMu      sync.Mutex
	activeTickers = make(map[*Ticker]struct{})
)

// Ticker calls a callback on each frame while active.
//
// The callback receives the elapsed time since Start was called.
type Ticker struct {
	callback func(elapsed time.Duration)
	isActive bool
	start    time.Time
}

// NewTicker creates a new ticker with the given callback.
func NewTicker(callback func(elapsed time.Duration)) *Ticker {
	return &Ticker{
		callback: callback,
	}
}

// After starts a ticker that calls fn once, on the first frame at which d
// has elapsed, then stops itself. A non-positive d calls fn immediately and
// returns nil.
func After(d time.Duration, fn func()) *Ticker {
	if d <= 0 {
		fn()
		return nil
	}
	var t *Ticker
	t = NewTicker(func(elapsed time.Duration) {
		if elapsed < d {
			return
		}
		t.Stop()
		fn()
	})
	t.Start()
	return t
}

// Start activates the ticker.
func (t *Ticker) Start() {
	if t.isActive {
		return
	}
	t.isActive = true
	t.start = Now()
	tickerMu.Lock()
	activeTickers[t] = struct{}{}
	tickerMu.Unlock()
}

// Stop deactivates the ticker. Stopping a nil or inactive ticker is a no-op.
func (t *Ticker) Stop() {
	if t == nil || !t.isActive {
		return
	}
	t.isActive = false
	tickerMu.Lock()
	delete(activeTickers, t)
	tickerMu.Unlock()
}

// IsActive returns whether the ticker is currently running.
func (t *Ticker) IsActive() bool {
	return t != nil && t.isActive
}

// Elapsed returns the time since the ticker started.
func (t *Ticker) Elapsed() time.Duration {
	if !t.IsActive() {
		return 0
	}
	return Now().Sub(t.start)
}

// StepTickers advances all active tickers.
// This should be called once per frame from the host loop.
func StepTickers() {
	tickerMu.Lock()
	if len(activeTickers) == 0 {
		tickerMu.Unlock()
		return
	}
	// Copy so callbacks can start and stop tickers without holding the lock.
	tickers := make([]*Ticker, 0, len(activeTickers))
	for ticker := range activeTickers {
		tickers = append(tickers, ticker)
	}
	tickerMu.Unlock()

	now := Now()
	for _, ticker := range tickers {
		if ticker.isActive && ticker.callback != nil {
			ticker.callback(now.Sub(ticker.start))
		}
	}
}

// HasActiveTickers returns true if any tickers are active.
func HasActiveTickers() bool {
	tickerMu.Lock()
	defer tickerMu.Unlock()
	return len(activeTickers) > 0
}

// StopAllTickers deactivates every ticker. Hosts call it on teardown; tests
// call it to isolate cases from each other.
func StopAllTickers() {
	tickerMu.Lock()
	tickers := make([]*Ticker, 0, len(activeTickers))
	for ticker := range activeTickers {
		tickers = append(tickers, ticker)
	}
	tickerMu.Unlock()
	for _, ticker := range tickers {
		ticker.Stop()
	}
}
