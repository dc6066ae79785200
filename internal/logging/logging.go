// Package logging builds the logrus loggers used by the wavtoflac commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Options selects verbosity and destination.
type Options struct {
	// Level is a logrus level name such as "info" or "debug". Empty means info.
	Level string

	// Quiet silences all output. It wins over Debug.
	Quiet bool

	// Debug forces the debug level.
	Debug bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// ResolveLevel returns the effective level for opts.
func ResolveLevel(opts Options) (logrus.Level, error) {
	switch {
	case opts.Quiet:
		return logrus.PanicLevel, nil
	case opts.Debug:
		return logrus.DebugLevel, nil
	case strings.TrimSpace(opts.Level) == "":
		return logrus.InfoLevel, nil
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// New returns a logger configured from opts.
//
// Terminal output gets short, coloured lines without timestamps; anything
// else gets full timestamps so redirected logs stay useful.
func New(opts Options) (*logrus.Logger, error) {
	level, err := ResolveLevel(opts)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: isTerminal(out),
		FullTimestamp:    true,
	})
	return log, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return log
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
