package encoder

import (
	"context"
	"fmt"

	"github.com/handiism/wavtoflac/internal/model"
)

// ReferenceFLAC encodes with the reference "flac" tool.
//
// It writes FLAC only and never resamples. The tool reads WAV and AIFF
// natively and does not copy foreign metadata chunks unless asked to.
type ReferenceFLAC struct {
	// Path is the flac executable.
	Path string

	runner runner
}

// Args builds the flac argument list, or fails with ErrUnsupportedOption.
func (f *ReferenceFLAC) Args(source, target string, opts model.EncodingOptions) ([]string, error) {
	if opts.Format != model.FormatFLAC {
		return nil, fmt.Errorf("%w: flac cannot write %s", ErrUnsupportedOption, opts.Format)
	}
	if opts.SampleRate > 0 {
		return nil, fmt.Errorf("%w: flac cannot resample to %d Hz", ErrUnsupportedOption, opts.SampleRate)
	}

	level, _ := opts.EffectiveCompression()
	return []string{
		"--silent",
		"--force",
		fmt.Sprintf("--compression-level-%d", level),
		"-o", target,
		source,
	}, nil
}

// Encode implements Encoder.
func (f *ReferenceFLAC) Encode(ctx context.Context, source, target string, opts model.EncodingOptions) error {
	args, err := f.Args(source, target, opts)
	if err != nil {
		return err
	}
	return f.runner.run(ctx, f.Path, args, target)
}
