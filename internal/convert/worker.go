package convert

import (
	"context"
	"os"
	"time"

	"github.com/handiism/wavtoflac/internal/audio"
	ioutils "github.com/handiism/wavtoflac/internal/io"
	"github.com/handiism/wavtoflac/internal/model"
	"golang.org/x/sync/errgroup"
)

// dispatch runs jobs on a bounded pool and hands every outcome to handle.
//
// Exactly one outcome per job arrives on the results channel and dispatch
// drains exactly len(jobs) of them before waiting for the pool. handle
// runs on the calling goroutine.
func (m *Manager) dispatch(ctx context.Context, jobs []model.AudioJob, handle func(model.Outcome)) {
	n := len(jobs)
	if n == 0 {
		return
	}

	workers := min(m.workers(), n)
	queue := make(chan model.AudioJob)
	results := make(chan model.Outcome, workers)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for job := range queue {
				results <- m.execute(gctx, job)
			}
			return nil
		})
	}

	go func() {
		defer close(queue)
		for _, job := range jobs {
			queue <- job
		}
	}()

	for i := 0; i < n; i++ {
		handle(<-results)
	}

	// Workers never return errors; Wait only joins them.
	_ = g.Wait()
}

// execute converts one source.
//
// Tags are derived before anything is written. The encoder writes to a
// hidden staging file next to the target, which is tagged and then renamed
// onto the target. Any failure removes the staging file, so the target
// either appears complete or not at all. A cover that cannot be embedded
// only produces a warning.
func (m *Manager) execute(ctx context.Context, job model.AudioJob) model.Outcome {
	start := time.Now()

	if m.opts.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.JobTimeout)
		defer cancel()
	}

	tags, err := audio.DeriveTags(job.Mapping.Target)
	if err != nil {
		return model.Failed(job, model.StageDerive, err, time.Since(start))
	}

	if err := ctx.Err(); err != nil {
		return model.Failed(job, model.StageEncode, err, time.Since(start))
	}

	staging := ioutils.StagingPath(job.Mapping.Target)
	if err := m.encoder.Encode(ctx, job.Mapping.Source, staging, job.Options); err != nil {
		_ = os.Remove(staging)
		return model.Failed(job, model.StageEncode, err, time.Since(start))
	}

	var warning error
	if err := m.tagger.Tag(ctx, staging, tags, job.Cover); err != nil {
		if !audio.IsCoverError(err) {
			_ = os.Remove(staging)
			return model.Failed(job, model.StageTag, err, time.Since(start))
		}
		warning = err
	}

	if err := os.Rename(staging, job.Mapping.Target); err != nil {
		_ = os.Remove(staging)
		return model.Failed(job, model.StageFinalize, err, time.Since(start))
	}

	return model.Succeeded(job, time.Since(start), warning)
}
