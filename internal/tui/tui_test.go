package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/wavtoflac/internal/config"
	"github.com/handiism/wavtoflac/internal/convert"
	"github.com/handiism/wavtoflac/internal/model"
	"github.com/handiism/wavtoflac/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func job(name string) model.AudioJob {
	return model.AudioJob{Mapping: model.FileMapping{
		Source: filepath.Join("/src", "A", "B", name+".wav"),
		Target: filepath.Join("/dst", "A", "B", name+".flac"),
	}}
}

func TestModel_PromptsForRoots(t *testing.T) {
	m := NewModel(Options{})
	assert.Contains(t, m.View(), "Source directory:")

	m.textInput.SetValue("/music/wav")
	m = update(t, m, key("enter"))
	assert.Equal(t, "/music/wav", m.source)
	assert.Contains(t, m.View(), "Destination directory:")

	// Blank input is ignored
	m = update(t, m, key("enter"))
	assert.Empty(t, m.dest)

	m.textInput.SetValue("  /music/flac ")
	m = update(t, m, key("enter"))
	assert.Equal(t, "/music/flac", m.dest)
	assert.Equal(t, StateInput, m.state)
	assert.Contains(t, m.View(), "Destination: /music/flac")
}

func TestModel_Toggles(t *testing.T) {
	m := NewModel(Options{SourceRoot: "/src", DestRoot: "/dst"})
	require.False(t, m.playlist)

	m = update(t, m, key("p"))
	m = update(t, m, key("v"))
	m = update(t, m, key("n"))
	assert.True(t, m.playlist)
	assert.True(t, m.verbose)
	assert.True(t, m.dryRun)

	m = update(t, m, key("n"))
	assert.False(t, m.dryRun)
}

func TestModel_PlaylistFollowsSettings(t *testing.T) {
	s := config.DefaultSettings()
	s.Playlist = "m3u"
	m := NewModel(Options{Settings: s, SourceRoot: "/src", DestRoot: "/dst"})
	assert.True(t, m.playlist)
}

func TestModel_Progress(t *testing.T) {
	m := NewModel(Options{SourceRoot: "/src", DestRoot: "/dst"})
	m.state = StateConverting
	m.sub = make(chan tea.Msg, 1)

	m = update(t, m, StartMsg{Total: 3})
	assert.Equal(t, 3, m.total)

	m = update(t, m, ProgressMsg{Event: convert.ProgressEvent{Message: "detail", Level: convert.LevelVerbose}})
	assert.Empty(t, m.logs, "verbose events are hidden by default")

	m = update(t, m, OutcomeMsg{Outcome: model.Succeeded(job("01 One"), time.Second, nil)})
	m = update(t, m, OutcomeMsg{Outcome: model.Succeeded(job("02 Two"), time.Second, errors.New("bad cover"))})
	m = update(t, m, OutcomeMsg{Outcome: model.Failed(job("03 Three"), model.StageEncode, errors.New("exit 1"), time.Second)})

	assert.Equal(t, 3, m.finished)
	assert.Equal(t, 1, m.failed)
	assert.Equal(t, 1, m.warnings)
	require.Len(t, m.logs, 2)
	assert.Equal(t, convert.LevelWarning, m.logs[0].Level)
	assert.Equal(t, convert.LevelError, m.logs[1].Level)
	assert.Contains(t, m.logs[1].Message, "03 Three.wav")
	assert.Contains(t, m.View(), "Files: 3/3 | Failed: 1 | Warnings: 1")
}

func TestModel_LogsAreBounded(t *testing.T) {
	m := NewModel(Options{SourceRoot: "/src", DestRoot: "/dst"})
	m.sub = make(chan tea.Msg, 1)
	for i := 0; i < maxLogs+5; i++ {
		m = update(t, m, ProgressMsg{Event: convert.ProgressEvent{Message: "x", Level: convert.LevelInfo}})
	}
	assert.Len(t, m.logs, maxLogs)
}

func TestModel_Done(t *testing.T) {
	m := NewModel(Options{SourceRoot: "/src", DestRoot: "/dst"})
	m.state = StateConverting

	done := update(t, m, DoneMsg{Summary: &convert.Summary{}})
	assert.Equal(t, StateComplete, done.state)
	assert.Contains(t, done.View(), "All files are already converted.")

	failed := update(t, m, DoneMsg{Err: convert.ErrNotADirectory})
	assert.Equal(t, StateError, failed.state)
	assert.ErrorIs(t, failed.err, convert.ErrNotADirectory)

	m = update(t, m, key("esc"))
	cancelled := update(t, m, DoneMsg{Summary: &convert.Summary{}, Err: context.Canceled})
	assert.Equal(t, StateError, cancelled.state)
	assert.ErrorIs(t, cancelled.err, errCancelled)

	again := update(t, cancelled, key("r"))
	assert.Equal(t, StateInput, again.state)
	assert.NoError(t, again.ctx.Err())
}

func TestChannelReporter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := make(chan tea.Msg, 2)
	r := channelReporter{ctx: ctx, sub: sub}

	r.Start(2)
	r.Outcome(model.Succeeded(job("01 One"), 0, nil))
	assert.Equal(t, StartMsg{Total: 2}, <-sub)
	assert.IsType(t, OutcomeMsg{}, <-sub)

	// A cancelled run must not block on a full channel
	r.Event(convert.ProgressEvent{Message: "a"})
	r.Event(convert.ProgressEvent{Message: "b"})
	cancel()
	r.Event(convert.ProgressEvent{Message: "dropped"})
	assert.Len(t, sub, 2)
}

func TestModel_DryRunConversion(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	testutil.WriteWAV(t, filepath.Join(src, "A", "B", "01 One.wav"))
	testutil.WriteWAV(t, filepath.Join(src, "A", "B", "02 Two.wav"))

	m := NewModel(Options{SourceRoot: src, DestRoot: dst})
	m.dryRun = true
	m.state = StateConverting

	cmd := m.startConversion()
	go cmd()

	var done DoneMsg
	deadline := time.After(10 * time.Second)
	for done.Summary == nil && done.Err == nil {
		select {
		case msg := <-m.sub:
			m = update(t, m, msg)
			if d, ok := msg.(DoneMsg); ok {
				done = d
			}
		case <-deadline:
			t.Fatal("run did not finish")
		}
	}

	require.NoError(t, done.Err)
	assert.Equal(t, 2, done.Summary.Queued)
	assert.Equal(t, StateComplete, m.state)
	assert.Contains(t, m.View(), "To convert: 2")
	assert.Len(t, m.logs, 2)
}
