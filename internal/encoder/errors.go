package encoder

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownBackend is returned by New for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown encoder backend")

	// ErrUnsupportedOption is returned when a backend cannot honour an
	// encoding option, e.g. a sample rate with the reference flac tool.
	ErrUnsupportedOption = errors.New("option not supported by encoder")

	// ErrToolNotFound is returned by Available when the backend's executable
	// cannot be located.
	ErrToolNotFound = errors.New("encoder executable not found")
)

// ExecError describes a failed encoder invocation.
type ExecError struct {
	// Tool is the executable that ran.
	Tool string

	// ExitCode is the process exit status, or -1 when it never started.
	ExitCode int

	// Stderr is everything the tool wrote to standard error.
	Stderr string

	Err error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	if e.ExitCode < 0 && e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Tool, e.Err)
	}
	if line := lastLine(e.Stderr); line != "" {
		msg += ": " + line
	}
	return msg
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// lastLine returns the last non-empty line of s, which is where ffmpeg and
// flac put the actual cause.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
