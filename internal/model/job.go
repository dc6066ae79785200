package model

import "path/filepath"

// FileMapping pairs a source file with the destination path it produces.
//
// Target is derived deterministically from Source: the source root prefix
// is replaced by the destination root and, for audio, the extension is
// swapped for the output format's extension.
type FileMapping struct {
	// Source is the absolute path of the input file.
	Source string

	// Target is the absolute path the job writes.
	Target string
}

// EncodingOptions controls how audio sources are encoded.
//
// Options are built once per run and shared read-only by every worker.
type EncodingOptions struct {
	// Format selects codec, extension and container.
	Format Format

	// CompressionLevel is only honoured by formats that support it.
	// Nil means the format default.
	CompressionLevel *int

	// SampleRate resamples the output when greater than zero.
	SampleRate int
}

// EffectiveCompression returns the compression level to pass to the
// encoder and whether one applies at all.
//
// FLAC falls back to DefaultFLACCompression when no level is configured.
// Formats without compression always report false.
func (o EncodingOptions) EffectiveCompression() (int, bool) {
	if !o.Format.SupportsCompression() {
		return 0, false
	}
	if o.CompressionLevel == nil {
		return DefaultFLACCompression, true
	}
	return *o.CompressionLevel, true
}

// AudioJob converts one audio source into the configured output format.
type AudioJob struct {
	Mapping FileMapping
	Options EncodingOptions

	// Cover is the cover file to embed, empty when none applies.
	Cover string
}

// Dir returns the destination directory of the job.
func (j AudioJob) Dir() string {
	return filepath.Dir(j.Mapping.Target)
}

// CoverJob copies one cover image into the destination tree unchanged.
type CoverJob struct {
	Mapping FileMapping
}
