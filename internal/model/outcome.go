package model

import (
	"fmt"
	"time"
)

// Status is the terminal state of an executed job.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
)

func (s Status) String() string {
	if s == StatusFailure {
		return "failure"
	}
	return "success"
}

// Stage identifies the step an audio job was executing when it finished.
type Stage int

const (
	StageDerive Stage = iota
	StageEncode
	StageTag
	StageFinalize
)

func (s Stage) String() string {
	switch s {
	case StageDerive:
		return "derive tags"
	case StageEncode:
		return "encode"
	case StageTag:
		return "tag"
	case StageFinalize:
		return "finalize"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Outcome is the result of executing one AudioJob.
type Outcome struct {
	Job    AudioJob
	Status Status

	// Stage is the last stage reached. For failures it is where the job stopped.
	Stage Stage

	// Err is the failure cause. Nil on success.
	Err error

	// Warning holds a non-fatal problem on an otherwise successful job,
	// such as a cover that could not be embedded.
	Warning error

	Elapsed time.Duration
}

// Succeeded returns a success outcome for job.
func Succeeded(job AudioJob, elapsed time.Duration, warning error) Outcome {
	return Outcome{Job: job, Status: StatusSuccess, Stage: StageFinalize, Warning: warning, Elapsed: elapsed}
}

// Failed returns a failure outcome for job stopped at stage.
func Failed(job AudioJob, stage Stage, err error, elapsed time.Duration) Outcome {
	return Outcome{Job: job, Status: StatusFailure, Stage: stage, Err: err, Elapsed: elapsed}
}

// OK reports whether the job succeeded.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}
