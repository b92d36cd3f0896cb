// Package errors provides structured error handling for fluid.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates a builder or configuration call received an absent
	// or malformed argument.
	KindConfig
	// KindState indicates an operation invoked in a state that does not allow it.
	KindState
	// KindTarget indicates the visual target was unavailable (disposed or removed).
	KindTarget
	// KindTransport indicates a message broker or codec failure.
	KindTransport
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindState:
		return "state"
	case KindTarget:
		return "target"
	case KindTransport:
		return "transport"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinel errors wrapped by FluidError.Err.
var (
	// ErrNilArgument is returned when a required callback or argument is nil.
	ErrNilArgument = errors.New("required argument is nil")

	// ErrInvalidState is returned when playback is requested while a package
	// is already playing, or reversed before it ever played.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrTargetDisposed is returned when a disposed view is mutated.
	ErrTargetDisposed = errors.New("target disposed")

	// ErrNotChild is returned when removing a view a container does not hold.
	ErrNotChild = errors.New("view not part of child collection")

	// ErrEmptyStack is returned when popping an empty navigation stack.
	ErrEmptyStack = errors.New("navigation stack is empty")

	// ErrNoView is returned when no view is registered for a view model type.
	ErrNoView = errors.New("no view registered for view model")
)

// FluidError represents a structured error in fluid.
type FluidError struct {
	// Op is the operation that failed (e.g., "xanimation.Package.Animate").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Target names the view or topic involved, if applicable.
	Target string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

// New creates a FluidError for op.
func New(op string, kind ErrorKind, err error) *FluidError {
	return &FluidError{Op: op, Kind: kind, Err: err}
}

func (e *FluidError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s [%s] target=%s: %v", e.Op, e.Kind, e.Target, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *FluidError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first FluidError in err's chain.
func KindOf(err error) ErrorKind {
	var fe *FluidError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "messaging.Publish").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by fluid components.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *FluidError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
