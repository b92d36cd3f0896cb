// Package view provides a headless visual element that animations can target.
// Hosts without a native toolkit (the CLI, tests, server-side renderers) use
// it directly; toolkit adapters can mirror their native views into it.
package view

import (
	"fmt"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
	"github.com/go-fluid/fluid/pkg/xanimation"
)

// Rect is a frame in points, relative to the parent.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the midpoint of r.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// View is a rectangular element with a visual state. It implements
// [xanimation.Target]. Methods are safe for concurrent use so a renderer can
// read while the UI loop animates.
type View struct {
	Name string

	mu       sync.RWMutex
	frame    Rect
	state    xanimation.Snapshot
	disposed bool
	applies  int
}

var _ xanimation.Target = (*View)(nil)

// New creates a view with the default visual state.
func New(name string, frame Rect) *View {
	return &View{Name: name, frame: frame, state: xanimation.DefaultSnapshot()}
}

// WithColor sets the background colour and returns v.
func (v *View) WithColor(c colorful.Color) *View {
	v.mu.Lock()
	v.state.Color, v.state.HasColor = c, true
	v.mu.Unlock()
	return v
}

// Frame returns the view's frame.
func (v *View) Frame() Rect {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.frame
}

// SetFrame moves or resizes the view.
func (v *View) SetFrame(r Rect) {
	v.mu.Lock()
	v.frame = r
	v.mu.Unlock()
}

func (v *View) Properties() xanimation.Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Apply replaces the visual state. A snapshot without a colour keeps the
// view's background. It fails with ErrTargetDisposed once the view has been
// disposed.
func (v *View) Apply(s xanimation.Snapshot) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return &fluiderrors.FluidError{
			Op:     "view.Apply",
			Kind:   fluiderrors.KindTarget,
			Target: v.Name,
			Err:    fluiderrors.ErrTargetDisposed,
		}
	}
	if !s.HasColor {
		s.Color, s.HasColor = v.state.Color, v.state.HasColor
	}
	v.state = s
	v.applies++
	return nil
}

// Applies returns how many times Apply succeeded.
func (v *View) Applies() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.applies
}

// Dispose detaches the view. Further Apply calls fail.
func (v *View) Dispose() {
	v.mu.Lock()
	v.disposed = true
	v.mu.Unlock()
}

// IsDisposed reports whether Dispose has been called.
func (v *View) IsDisposed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.disposed
}

// Clone returns a live copy of v with the same frame and state.
func (v *View) Clone(name string) *View {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return &View{Name: name, frame: v.frame, state: v.state}
}

func (v *View) String() string {
	if v.Name == "" {
		return fmt.Sprintf("view@%p", v)
	}
	return v.Name
}
