// Package report defines the user-facing reporting sink for the manifest
// pipeline. Warn and Info return the message they emitted so callers and
// tests can verify exactly what was reported.
package report

import (
	"log/slog"

	"loom/internal/logging"
)

// Reporter emits user-facing pipeline messages.
type Reporter interface {
	Warn(message string) string
	Info(message string) string
}

// LogReporter routes reports through a structured logger.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter wraps the logger in a Reporter. A nil logger discards output.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Warn(message string) string {
	r.logger.Warn(message)
	return message
}

func (r *LogReporter) Info(message string) string {
	r.logger.Info(message)
	return message
}
