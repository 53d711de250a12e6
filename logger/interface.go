// Package logger defines the structured logging contract shared by the
// request executor and the CLI, backed by zerolog. Field values that carry
// credentials (auth headers, URL userinfo, token query parameters) are
// redacted before they reach the output.
package logger

import "time"

// Logger creates log events at the four severities this codebase emits.
// Fatal is deliberately absent: callers surface errors and pick exit codes
// themselves.
type Logger interface {
	Debug() LogEvent
	Info() LogEvent
	Warn() LogEvent
	Error() LogEvent

	// WithFields returns a derived logger that stamps the given fields on
	// every event it produces. Credential-bearing values are redacted.
	WithFields(fields map[string]any) Logger
}

// LogEvent accumulates typed fields for a single log line. Msg or Msgf
// writes the line; an event that is never terminated produces no output.
type LogEvent interface {
	Str(key, value string) LogEvent
	Int(key string, value int) LogEvent
	Dur(key string, d time.Duration) LogEvent
	Err(err error) LogEvent
	Msg(msg string)
	Msgf(format string, args ...any)
}
