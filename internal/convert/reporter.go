package convert

import "github.com/handiism/wavtoflac/internal/model"

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

func (l ProgressLevel) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// ProgressEvent represents a conversion progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Reporter receives everything a run wants to tell the user.
//
// The Manager calls Start once before dispatching audio jobs, Outcome once
// per finished job and Finish once at the end. Event may be called at any
// time in between. All calls come from the goroutine running Manager.Run.
type Reporter interface {
	Start(total int)
	Event(event ProgressEvent)
	Outcome(outcome model.Outcome)
	Finish(summary *Summary)
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Start(int)             {}
func (NopReporter) Event(ProgressEvent)   {}
func (NopReporter) Outcome(model.Outcome) {}
func (NopReporter) Finish(*Summary)       {}
