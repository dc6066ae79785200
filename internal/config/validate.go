package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/handiism/wavtoflac/internal/audio"
	"github.com/handiism/wavtoflac/internal/encoder"
	"github.com/handiism/wavtoflac/internal/model"
)

var validLogLevels = map[string]bool{
	"panic": true, "fatal": true, "error": true, "warn": true, "warning": true,
	"info": true, "debug": true, "trace": true, "": true,
}

// MaxSampleRate is the highest sample rate accepted for resampling.
const MaxSampleRate = 768000

// Validate checks the settings for errors.
// Returns a slice of error messages (empty if valid).
func (s *Settings) Validate() []string {
	var errs []string

	// Output
	if s.CompressionLevel != nil {
		if lvl := *s.CompressionLevel; lvl < 0 || lvl > model.MaxFLACCompression {
			errs = append(errs, fmt.Sprintf("compression_level: must be between 0 and %d, got %d", model.MaxFLACCompression, lvl))
		}
	}
	if s.SampleRate < 0 || s.SampleRate > MaxSampleRate {
		errs = append(errs, fmt.Sprintf("sample_rate: must be between 0 (keep source rate) and %d Hz, got %d", MaxSampleRate, s.SampleRate))
	}

	// Encoder
	backend := strings.ToLower(s.Encoder)
	if backend != "" && !slices.Contains(encoder.Backends(), backend) {
		errs = append(errs, fmt.Sprintf("encoder: must be one of %s; got %q", strings.Join(encoder.Backends(), ", "), s.Encoder))
	}
	if backend == encoder.BackendFLAC {
		if s.Format != model.FormatFLAC {
			errs = append(errs, fmt.Sprintf("encoder: flac cannot write %s", s.Format))
		}
		if s.SampleRate > 0 {
			errs = append(errs, "sample_rate: not supported by the flac encoder")
		}
	}

	// Concurrency
	if s.Workers < 0 {
		errs = append(errs, fmt.Sprintf("workers: must not be negative, got %d", s.Workers))
	}
	if s.JobTimeout.Duration < 0 {
		errs = append(errs, fmt.Sprintf("job_timeout: must not be negative, got %s", s.JobTimeout))
	}

	// Covers
	if s.CoverName == "" {
		errs = append(errs, "cover_name: required")
	} else if filepath.Base(s.CoverName) != s.CoverName {
		errs = append(errs, fmt.Sprintf("cover_name: must be a file name, got %q", s.CoverName))
	}
	if s.EmbedCoverMaxSize < 0 {
		errs = append(errs, fmt.Sprintf("embed_cover_max_size: must not be negative, got %d", s.EmbedCoverMaxSize))
	}

	// Playlist
	if _, err := audio.ParsePlaylistFormat(s.Playlist); err != nil {
		errs = append(errs, fmt.Sprintf("playlist: %v", err))
	}

	if !validLogLevels[strings.ToLower(s.LogLevel)] {
		errs = append(errs, fmt.Sprintf("log_level: must be one of debug, info, warn, error; got %q", s.LogLevel))
	}

	return errs
}
