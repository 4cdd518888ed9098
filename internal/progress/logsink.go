package progress

import (
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/devsync/devsync/internal/category"
)

// LogSink writes every event to a zerolog logger and mirrors a short
// colored line to an io.Writer (normally os.Stdout), grounded on
// pkg/log.Logger's dual console+zerolog writes in the teacher.
type LogSink struct {
	log     zerolog.Logger
	console io.Writer
}

// NewLogSink builds a sink that writes structured entries to log and a
// short colored line per started or finished job to console.
func NewLogSink(log zerolog.Logger, console io.Writer) *LogSink {
	return &LogSink{log: log, console: console}
}

func (l *LogSink) Discovered(path string) {
	l.log.Debug().Str("path", path).Msg("discovered")
}

func (l *LogSink) Started(path string, tag category.Tag) {
	l.log.Info().Str("path", path).Str("category", tag.String()).Msg("processing")
	fmt := color.New(color.FgCyan).Sprint("→")
	writeLine(l.console, fmt, path, tag.String())
}

func (l *LogSink) Finished(path string, outcome Outcome, reason string) {
	ev := l.log.Info()
	if outcome == OutcomeFailed {
		ev = l.log.Error()
	}
	ev.Str("path", path).Str("outcome", outcome.String()).Str("reason", reason).Msg("finished")

	var symbol string
	switch outcome {
	case OutcomeDone:
		symbol = color.New(color.FgGreen).Sprint("✓")
	case OutcomeSkipped:
		symbol = color.New(color.FgYellow).Sprint("-")
	case OutcomeFailed:
		symbol = color.New(color.FgRed).Sprint("✗")
	}
	if reason != "" {
		writeLine(l.console, symbol, path, reason)
	} else {
		writeLine(l.console, symbol, path, "")
	}
}

func (l *LogSink) Logged(level LogLevel, message string) {
	switch level {
	case LevelDebug:
		l.log.Debug().Msg(message)
	case LevelWarn:
		l.log.Warn().Msg(message)
	case LevelError:
		l.log.Error().Msg(message)
	default:
		l.log.Info().Msg(message)
	}
}

func writeLine(w io.Writer, symbol, path, extra string) {
	if extra != "" {
		io.WriteString(w, symbol+" "+path+" ("+extra+")\n")
		return
	}
	io.WriteString(w, symbol+" "+path+"\n")
}
