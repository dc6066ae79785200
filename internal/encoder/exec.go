package encoder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// runner executes an encoder and turns failures into *ExecError.
type runner struct {
	debug  bool
	stderr io.Writer
}

// run prepares target's directory, runs tool and removes target if the
// tool fails. When verbose, stderr is tee'd to the configured writer in
// real time; otherwise it is only captured.
func (r runner) run(ctx context.Context, tool string, args []string, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, tool, args...)

	var stderrBuf bytes.Buffer
	if r.debug && r.stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, r.stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}

	_ = os.Remove(target)

	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}

	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}

	return &ExecError{
		Tool:     tool,
		ExitCode: code,
		Stderr:   stderrBuf.String(),
		Err:      err,
	}
}
