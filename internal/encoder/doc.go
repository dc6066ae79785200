// Package encoder turns lossless sources into FLAC or ALAC files by running
// an external encoder.
//
// Two backends exist:
//   - FFmpeg: any supported format, optional resampling
//   - ReferenceFLAC: the reference "flac" tool, FLAC output only
//
// Both implement Encoder and are selected once at startup:
//
//	enc, err := encoder.New(encoder.Config{Backend: encoder.BackendFFmpeg})
//	err = enc.Encode(ctx, "/src/A/B/01 Song.wav", "/dst/A/B/.01 Song.tmp.flac", opts)
//
// Source metadata is never carried over; tags are written afterwards by
// the audio package. On failure the returned error is an *ExecError with
// the tool's stderr, and any partial output has been removed.
package encoder
