package encoder

import (
	"context"
	"strconv"

	"github.com/handiism/wavtoflac/internal/model"
)

// FFmpeg encodes with the ffmpeg command line tool.
type FFmpeg struct {
	// Path is the ffmpeg executable.
	Path string

	runner runner
}

// Args builds the complete ffmpeg argument list for one conversion.
//
// Only audio streams are mapped and global metadata is dropped, so nothing
// from the source survives into the output. The muxer is named explicitly
// because target is usually a staging name.
func (f *FFmpeg) Args(source, target string, opts model.EncodingOptions) []string {
	args := make([]string, 0, 24)

	// Preamble
	args = append(args, "-hide_banner", "-nostdin", "-loglevel", "error", "-y")

	// Input
	args = append(args, "-i", source)

	// Streams and metadata
	args = append(args, "-map", "0:a", "-map_metadata", "-1")

	// Codec
	args = append(args, "-c:a", opts.Format.Codec())
	if level, ok := opts.EffectiveCompression(); ok {
		args = append(args, "-compression_level", strconv.Itoa(level))
	}
	if opts.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(opts.SampleRate))
	}

	// Output
	args = append(args, "-f", opts.Format.Muxer(), target)

	return args
}

// Encode implements Encoder.
func (f *FFmpeg) Encode(ctx context.Context, source, target string, opts model.EncodingOptions) error {
	return f.runner.run(ctx, f.Path, f.Args(source, target, opts), target)
}
