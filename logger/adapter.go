package logger

import (
	"time"

	"github.com/rs/zerolog"
)

// eventAdapter funnels fields through the redactor on their way into a
// zerolog event.
type eventAdapter struct {
	evt *zerolog.Event
	red *Redactor
}

var _ LogEvent = (*eventAdapter)(nil)

// Debug creates a debug-level log event.
func (l *ZeroLogger) Debug() LogEvent { return l.event(l.zlog.Debug()) }

// Info creates an info-level log event.
func (l *ZeroLogger) Info() LogEvent { return l.event(l.zlog.Info()) }

// Warn creates a warn-level log event.
func (l *ZeroLogger) Warn() LogEvent { return l.event(l.zlog.Warn()) }

// Error creates an error-level log event.
func (l *ZeroLogger) Error() LogEvent { return l.event(l.zlog.Error()) }

func (l *ZeroLogger) event(evt *zerolog.Event) LogEvent {
	return &eventAdapter{evt: evt, red: l.red}
}

// Str attaches a string field after redaction: credential keys are masked
// and URL values are scrubbed of embedded secrets.
func (a *eventAdapter) Str(key, value string) LogEvent {
	a.evt = a.evt.Str(key, a.red.Value(key, value))
	return a
}

// Int attaches an integer field.
func (a *eventAdapter) Int(key string, value int) LogEvent {
	a.evt = a.evt.Int(key, value)
	return a
}

// Dur attaches a duration field.
func (a *eventAdapter) Dur(key string, d time.Duration) LogEvent {
	a.evt = a.evt.Dur(key, d)
	return a
}

// Err attaches an error field.
func (a *eventAdapter) Err(err error) LogEvent {
	a.evt = a.evt.Err(err)
	return a
}

// Msg writes the event with the given message.
func (a *eventAdapter) Msg(msg string) {
	a.evt.Msg(msg)
}

// Msgf writes the event with a formatted message.
func (a *eventAdapter) Msgf(format string, args ...any) {
	a.evt.Msgf(format, args...)
}
