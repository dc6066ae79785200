package main

import (
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/handiism/wavtoflac/internal/convert"
	"github.com/handiism/wavtoflac/internal/encoder"
	"github.com/handiism/wavtoflac/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// cliReporter logs run events and draws a progress bar on out.
type cliReporter struct {
	log   logrus.FieldLogger
	out   io.Writer
	quiet bool
	bar   *progressbar.ProgressBar
}

func newCLIReporter(log logrus.FieldLogger, out io.Writer, quiet bool) *cliReporter {
	return &cliReporter{log: log, out: out, quiet: quiet}
}

// Start shows a bar for total jobs. Nothing is drawn when quiet or when
// there is nothing to convert.
func (r *cliReporter) Start(total int) {
	if r.quiet || total == 0 {
		return
	}
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *cliReporter) Event(e convert.ProgressEvent) {
	r.clear()
	switch e.Level {
	case convert.LevelVerbose:
		r.log.Debug(e.Message)
	case convert.LevelWarning:
		r.log.Warn(e.Message)
	case convert.LevelError:
		r.log.Error(e.Message)
	default:
		r.log.Info(e.Message)
	}
}

func (r *cliReporter) Outcome(o model.Outcome) {
	entry := r.log.WithFields(logrus.Fields{
		"file":    filepath.Base(o.Job.Mapping.Target),
		"elapsed": o.Elapsed.Round(time.Millisecond),
	})

	switch {
	case !o.OK():
		r.clear()
		entry = entry.WithFields(logrus.Fields{"source": o.Job.Mapping.Source, "stage": o.Stage.String()})
		var execErr *encoder.ExecError
		if errors.As(o.Err, &execErr) && execErr.Stderr != "" {
			entry.WithField("stderr", execErr.Stderr).Debug("Encoder output")
		}
		entry.WithError(o.Err).Error("Conversion failed")
	case o.Warning != nil:
		r.clear()
		entry.WithError(o.Warning).Warn("Converted without cover")
	default:
		entry.Debug("Converted")
	}

	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

func (r *cliReporter) Finish(s *convert.Summary) {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}

	switch {
	case s.DryRun:
		r.log.Info(s.String())
	case s.UpToDate():
		r.log.Info("All files are already converted.")
	default:
		r.log.Infof("Conversion completed in %s.", s.Elapsed.Round(time.Millisecond))
		r.log.Info(s.String())
		if s.Failed > 0 {
			r.log.Warnf("%d file(s) failed; run again to retry them", s.Failed)
		}
	}
}

func (r *cliReporter) clear() {
	if r.bar != nil {
		_ = r.bar.Clear()
	}
}

var _ convert.Reporter = (*cliReporter)(nil)
