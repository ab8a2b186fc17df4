// Package logging builds the slog loggers used across descant: a
// human-readable console handler for interactive terminals and a JSON
// handler for log files and non-TTY output, with helpers for the
// standardized structured field names the pipeline emits.
package logging
