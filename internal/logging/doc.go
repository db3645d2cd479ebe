// Package logging assembles the structured slog loggers used across Loom.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and provides typed attribute helpers plus a no-op logger for
// tests and wiring code that cannot fail. The "auto" format picks console
// output on a terminal and JSON otherwise.
package logging
