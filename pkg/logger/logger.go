package logger

import (
	"io"
	"os"
	"regexp"
	"time"

	"github.com/rs/zerolog"
)

// secretSeedRe matches a ledger secret seed: 'S' followed by 55 base32 characters.
var secretSeedRe = regexp.MustCompile(`\bS[A-Z2-7]{55}\b`)

const redacted = "S***REDACTED***"

// New creates a configured zerolog.Logger.
// level: debug, info, warn, error. pretty: human-readable console output.
// Every line passes through a writer that masks secret seeds.
func New(level string, pretty bool) zerolog.Logger {
	var w io.Writer = RedactingWriter(os.Stdout)

	if pretty {
		w = zerolog.ConsoleWriter{
			Out:        RedactingWriter(os.Stdout),
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Caller().
		Str("service", "chappi-wallet").
		Logger()
}

// NewWithWriter creates a logger writing to a custom writer (useful for testing).
func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	return zerolog.New(RedactingWriter(w)).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// RedactingWriter wraps w so that any secret seed written through it is masked.
func RedactingWriter(w io.Writer) io.Writer {
	return &redactingWriter{out: w}
}

type redactingWriter struct {
	out io.Writer
}

func (r *redactingWriter) Write(p []byte) (int, error) {
	if !secretSeedRe.Match(p) {
		return r.out.Write(p)
	}
	if _, err := r.out.Write(secretSeedRe.ReplaceAll(p, []byte(redacted))); err != nil {
		return 0, err
	}
	// Report the original length so callers don't treat masking as a short write.
	return len(p), nil
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
