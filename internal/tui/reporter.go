package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/wavtoflac/internal/convert"
	"github.com/handiism/wavtoflac/internal/model"
)

// Message types
type (
	// StartMsg is sent once the number of audio jobs is known.
	StartMsg struct {
		Total int
	}

	// ProgressMsg is sent for every conversion progress event.
	ProgressMsg struct {
		Event convert.ProgressEvent
	}

	// OutcomeMsg is sent when one file finished.
	OutcomeMsg struct {
		Outcome model.Outcome
	}

	// DoneMsg is sent when the run has ended.
	DoneMsg struct {
		Summary *convert.Summary
		Err     error
	}
)

// channelReporter forwards Manager callbacks to the UI as messages.
type channelReporter struct {
	ctx context.Context
	sub chan<- tea.Msg
}

func (r channelReporter) send(msg tea.Msg) {
	select {
	case r.sub <- msg:
	case <-r.ctx.Done():
	}
}

func (r channelReporter) Start(total int)               { r.send(StartMsg{Total: total}) }
func (r channelReporter) Event(e convert.ProgressEvent) { r.send(ProgressMsg{Event: e}) }
func (r channelReporter) Outcome(o model.Outcome)       { r.send(OutcomeMsg{Outcome: o}) }

// Finish is a no-op; the summary arrives with DoneMsg once Run returns.
func (r channelReporter) Finish(*convert.Summary) {}

// waitForActivity blocks until the next message from the run.
func waitForActivity(sub <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}
