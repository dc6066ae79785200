package main

import (
	"bytes"
	"testing"

	"github.com/handiism/wavtoflac/internal/convert"
	"github.com/handiism/wavtoflac/internal/encoder"
	"github.com/handiism/wavtoflac/internal/logging"
	"github.com/handiism/wavtoflac/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReporter(t *testing.T, quiet bool) (*cliReporter, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log, err := logging.New(logging.Options{Debug: true, Quiet: quiet, Output: &buf})
	require.NoError(t, err)
	return newCLIReporter(log, &buf, quiet), &buf
}

func TestCLIReporter_Bar(t *testing.T) {
	r, _ := newTestReporter(t, true)
	r.Start(3)
	assert.Nil(t, r.bar, "no bar when quiet")

	r, _ = newTestReporter(t, false)
	r.Start(0)
	assert.Nil(t, r.bar, "no bar without jobs")

	r.Start(2)
	require.NotNil(t, r.bar)
	r.Outcome(model.Succeeded(model.AudioJob{}, 0, nil))
	assert.EqualValues(t, 1, r.bar.State().CurrentNum)

	r.Finish(&convert.Summary{Queued: 2, Converted: 2})
	assert.Nil(t, r.bar)
}

func TestCLIReporter_Failure(t *testing.T) {
	r, buf := newTestReporter(t, false)

	job := model.AudioJob{Mapping: model.FileMapping{Source: "/src/A/B/01 One.wav", Target: "/dst/A/B/01 One.flac"}}
	execErr := &encoder.ExecError{Tool: "ffmpeg", ExitCode: 1, Stderr: "Invalid data found"}
	r.Outcome(model.Failed(job, model.StageEncode, execErr, 0))

	out := buf.String()
	assert.Contains(t, out, "Conversion failed")
	assert.Contains(t, out, "01 One.flac")
	assert.Contains(t, out, "Invalid data found")
	assert.Contains(t, out, "stage=encode")
}

func TestCLIReporter_Finish(t *testing.T) {
	r, buf := newTestReporter(t, false)
	r.Finish(&convert.Summary{})
	assert.Contains(t, buf.String(), "All files are already converted.")

	r, buf = newTestReporter(t, false)
	r.Finish(&convert.Summary{Queued: 2, Converted: 1, Failed: 1})
	assert.Contains(t, buf.String(), "Conversion completed in")
	assert.Contains(t, buf.String(), "1 file(s) failed")

	r, buf = newTestReporter(t, false)
	r.Event(convert.ProgressEvent{Message: "careful", Level: convert.LevelWarning})
	assert.Contains(t, buf.String(), "level=warning")
}
