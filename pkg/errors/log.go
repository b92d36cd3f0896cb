package errors

import (
	"github.com/sirupsen/logrus"
)

// LogHandler is an ErrorHandler that writes errors to a logrus logger.
type LogHandler struct {
	// Verbose includes stack traces in the log entries.
	Verbose bool

	logger logrus.FieldLogger
}

// NewLogHandler returns a LogHandler writing to logger, or to the logrus
// standard logger when logger is nil.
func NewLogHandler(logger logrus.FieldLogger) *LogHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogHandler{logger: logger}
}

func (h *LogHandler) log() logrus.FieldLogger {
	if h.logger == nil {
		return logrus.StandardLogger()
	}
	return h.logger
}

// HandleError logs a FluidError at error level.
func (h *LogHandler) HandleError(err *FluidError) {
	if err == nil {
		return
	}
	entry := h.log().WithField("op", err.Op)
	if h.Verbose {
		entry = entry.WithField("kind", err.Kind.String())
		if err.Target != "" {
			entry = entry.WithField("target", err.Target)
		}
		if err.StackTrace != "" {
			entry = entry.WithField("stack", err.StackTrace)
		}
	}
	entry.Error(err.Err)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	entry := h.log().WithField("panic", true)
	if err.Op != "" {
		entry = entry.WithField("op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		entry = entry.WithField("stack", err.StackTrace)
	}
	entry.Error(err.Value)
}
