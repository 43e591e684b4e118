package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps read "HH:MM:SS.ms", e.g.
// "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logLevel maps the --verbose flag to a level.
func logLevel(verbose bool) log.Level {
	if verbose {
		return log.DebugLevel
	}
	return log.InfoLevel
}

// timed starts a clock and returns a function that logs msg with the
// elapsed time and kv appended. A non-nil error is logged at error level
// as "<msg> failed".
func timed(l *log.Logger, msg string, kv ...any) func(error) {
	start := time.Now()
	return func(err error) {
		fields := append(kv, "elapsed", time.Since(start).Round(time.Millisecond))
		if err != nil {
			l.Error(msg+" failed", append(fields, "err", err)...)
			return
		}
		l.Info(msg, fields...)
	}
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() outside a command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
