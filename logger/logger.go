package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger implements Logger on top of zerolog. Output goes to stderr so
// response bodies written to stdout stay machine-readable.
type ZeroLogger struct {
	zlog *zerolog.Logger
	red  *Redactor
}

var _ Logger = (*ZeroLogger)(nil)

// New returns a logger at the given level. Unknown or empty levels fall
// back to info. When pretty is true the output is a human-readable console
// format, otherwise one JSON object per line.
func New(level string, pretty bool) *ZeroLogger {
	return NewWithRedactor(level, pretty, NewRedactor())
}

// NewWithRedactor is New with a caller-supplied redactor, for programs that
// treat additional field names as sensitive.
func NewWithRedactor(level string, pretty bool, red *Redactor) *ZeroLogger {
	var l zerolog.Logger
	if pretty {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	} else {
		l = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	l = l.Level(parseLevel(level))

	if red == nil {
		red = NewRedactor()
	}
	return &ZeroLogger{zlog: &l, red: red}
}

func parseLevel(level string) zerolog.Level {
	level = strings.TrimSpace(strings.ToLower(level))
	if level == "" {
		return zerolog.InfoLevel
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return parsed
}

// WithFields returns a logger that stamps the given fields on every event.
// Values are redacted before they are attached.
func (l *ZeroLogger) WithFields(fields map[string]any) Logger {
	child := l.zlog.With().Fields(l.red.Fields(fields)).Logger()
	return &ZeroLogger{zlog: &child, red: l.red}
}
