package convert

import (
	"fmt"
	"time"

	"github.com/handiism/wavtoflac/internal/discovery"
	"github.com/handiism/wavtoflac/internal/model"
)

// Summary totals one run.
type Summary struct {
	// RunID identifies the run in log output.
	RunID string

	DryRun bool

	// Discovered counts audio sources found by the walk, converted or not.
	Discovered int

	// Skipped counts files that are neither audio nor covers.
	Skipped int

	// Existing counts sources whose destination was already present.
	Existing int

	// Collisions counts sources rejected because they share a destination.
	Collisions int

	// Queued is the number of audio jobs submitted to the workers.
	Queued int

	Converted int
	Failed    int

	CoversCopied int
	CoversFailed int
	Playlists    int

	// Warnings counts converted files with a non-fatal problem.
	Warnings int

	Elapsed time.Duration

	// Failures holds every failed outcome in completion order.
	Failures []model.Outcome
}

func newSummary(runID string, dryRun bool, res *discovery.Result) *Summary {
	return &Summary{
		RunID:      runID,
		DryRun:     dryRun,
		Discovered: res.Stats.Audio,
		Skipped:    res.Stats.Skipped,
		Existing:   res.Stats.Existing,
		Collisions: res.Stats.Collided,
		Queued:     len(res.AudioJobs),
	}
}

func (s *Summary) record(o model.Outcome) {
	if !o.OK() {
		s.Failed++
		s.Failures = append(s.Failures, o)
		return
	}
	s.Converted++
	if o.Warning != nil {
		s.Warnings++
	}
}

// UpToDate reports whether the run found nothing left to convert or copy.
func (s *Summary) UpToDate() bool {
	return s.Queued == 0 && s.CoversCopied == 0 && s.CoversFailed == 0
}

// String returns a one-line summary.
func (s *Summary) String() string {
	if s.DryRun {
		return fmt.Sprintf("Dry run: %d to convert, %d discovered, %d already converted, %d skipped, %d collisions",
			s.Queued, s.Discovered, s.Existing, s.Skipped, s.Collisions)
	}
	return fmt.Sprintf("%d converted, %d failed, %d discovered, %d skipped, %d collisions in %s",
		s.Converted, s.Failed, s.Discovered, s.Skipped, s.Collisions, s.Elapsed.Round(time.Millisecond))
}
