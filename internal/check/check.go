// Package check provides system diagnostics ("wavtoflac check") and
// pre-run dependency validation (Deps) for the external encoders.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/handiism/wavtoflac/internal/encoder"
	"github.com/sirupsen/logrus"
)

// Sentinel errors returned by Deps when the selected tool is missing.
var (
	ErrFFmpegNotFound = errors.New("ffmpeg not found on PATH")
	ErrFlacNotFound   = errors.New("flac not found on PATH")
)

// versionTimeout bounds each version probe.
const versionTimeout = 10 * time.Second

// Run prints the availability and version of every supported encoder and,
// for ffmpeg, whether it can write FLAC and ALAC. It returns false when the
// configured backend is unusable. Informational only: it does not stop on
// failure.
func Run(ctx context.Context, cfg encoder.Config, log logrus.FieldLogger) bool {
	log.Info("=== System Check ===")

	ffmpegCfg := cfg
	ffmpegCfg.Backend = encoder.BackendFFmpeg
	ffmpegOK := checkTool(ctx, ffmpegCfg.Tool(), "-version", log)
	if ffmpegOK {
		checkFFmpegEncoders(ctx, ffmpegCfg.Tool(), log)
	}

	flacCfg := cfg
	flacCfg.Backend = encoder.BackendFLAC
	flacOK := checkTool(ctx, flacCfg.Tool(), "--version", log)

	selected := Deps(cfg) == nil
	if selected {
		log.WithField("encoder", cfg.Tool()).Info("Configured encoder is available")
	} else {
		log.WithField("encoder", cfg.Tool()).Error("Configured encoder is not available")
	}
	return selected && (ffmpegOK || flacOK)
}

// Deps is the pre-run validation: it verifies that the executable of the
// configured backend can be found. Returns a sentinel error on failure.
func Deps(cfg encoder.Config) error {
	if err := encoder.Available(cfg); err != nil {
		if strings.EqualFold(cfg.Backend, encoder.BackendFLAC) {
			return fmt.Errorf("%w: %v", ErrFlacNotFound, err)
		}
		return fmt.Errorf("%w: %v", ErrFFmpegNotFound, err)
	}
	return nil
}

// Version runs tool with versionFlag and returns the first line it prints.
func Version(ctx context.Context, tool, versionFlag string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, tool, versionFlag).Output()
	if err != nil {
		return "", err
	}
	return firstLine(string(out)), nil
}

// checkTool verifies tool is on PATH and logs its version string.
func checkTool(ctx context.Context, tool, versionFlag string, log logrus.FieldLogger) bool {
	if _, err := exec.LookPath(tool); err != nil {
		log.WithField("tool", tool).Warn("Not found")
		return false
	}
	version, err := Version(ctx, tool, versionFlag)
	if err != nil {
		log.WithField("tool", tool).WithError(err).Warn("Found but version query failed")
		return false
	}
	log.WithField("tool", tool).Info(version)
	return true
}

// checkFFmpegEncoders reports whether ffmpeg was built with the FLAC and
// ALAC encoders.
func checkFFmpegEncoders(ctx context.Context, tool string, log logrus.FieldLogger) {
	out, err := exec.CommandContext(ctx, tool, "-hide_banner", "-encoders").Output()
	if err != nil {
		log.WithError(err).Warn("Could not list ffmpeg encoders")
		return
	}

	found := HasEncoders(string(out))
	for _, codec := range []string{"flac", "alac"} {
		entry := log.WithField("codec", codec)
		if found[codec] {
			entry.Info("ffmpeg encoder available")
		} else {
			entry.Warn("ffmpeg encoder missing")
		}
	}
}

// HasEncoders parses "ffmpeg -encoders" output and reports which of the
// flac and alac audio encoders it lists.
//
// Encoder lines look like " A....D flac   FLAC (Free Lossless Audio Codec)".
func HasEncoders(listing string) map[string]bool {
	found := map[string]bool{"flac": false, "alac": false}
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "A") {
			continue
		}
		if _, ok := found[fields[1]]; ok {
			found[fields[1]] = true
		}
	}
	return found
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
