package encoder

//go:generate mockgen -source=encoder.go -destination=mocks/mock_encoder.go -package=mocks

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/handiism/wavtoflac/internal/model"
)

// Backend names accepted by New.
const (
	BackendFFmpeg = "ffmpeg"
	BackendFLAC   = "flac"
)

// Encoder converts one source file into target.
//
// Implementations create target's parent directory, discard all source
// metadata and remove target again if encoding fails.
type Encoder interface {
	Encode(ctx context.Context, source, target string, opts model.EncodingOptions) error
}

// Config selects and parameterises a backend.
type Config struct {
	// Backend is BackendFFmpeg or BackendFLAC. Empty means ffmpeg.
	Backend string

	// FFmpegPath and FLACPath override the executables looked up on PATH.
	FFmpegPath string
	FLACPath   string

	// Debug copies the tool's stderr to Stderr while it runs.
	Debug  bool
	Stderr io.Writer
}

// Backends returns the accepted backend names.
func Backends() []string {
	return []string{BackendFFmpeg, BackendFLAC}
}

// New returns the Encoder named by cfg.Backend.
func New(cfg Config) (Encoder, error) {
	r := runner{debug: cfg.Debug, stderr: cfg.Stderr}

	switch strings.ToLower(cfg.Backend) {
	case "", BackendFFmpeg:
		return &FFmpeg{Path: cfg.Tool(), runner: r}, nil
	case BackendFLAC:
		return &ReferenceFLAC{Path: cfg.Tool(), runner: r}, nil
	default:
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnknownBackend, cfg.Backend, strings.Join(Backends(), ", "))
	}
}

// Available reports whether the executable of the configured backend can
// be found.
func Available(cfg Config) error {
	tool := cfg.Tool()
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrToolNotFound, tool, err)
	}
	return nil
}

// Tool returns the executable the configured backend runs.
func (c Config) Tool() string {
	if strings.ToLower(c.Backend) == BackendFLAC {
		if c.FLACPath != "" {
			return c.FLACPath
		}
		return "flac"
	}
	if c.FFmpegPath != "" {
		return c.FFmpegPath
	}
	return "ffmpeg"
}
