package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/handiism/wavtoflac/internal/audio"
	"github.com/handiism/wavtoflac/internal/encoder"
	"github.com/handiism/wavtoflac/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Output settings
	Format           model.Format `toml:"format"`
	CompressionLevel *int         `toml:"compression_level,omitempty"`
	SampleRate       int          `toml:"sample_rate,omitempty"`

	// Encoder settings
	Encoder    string `toml:"encoder"` // ffmpeg, flac
	FFmpegPath string `toml:"ffmpeg_path,omitempty"`
	FLACPath   string `toml:"flac_path,omitempty"`

	// Concurrency
	Workers    int      `toml:"workers"`
	JobTimeout Duration `toml:"job_timeout"`

	// Cover art settings
	CoverName         string `toml:"cover_name"`
	EmbedCover        bool   `toml:"embed_cover"`
	EmbedCoverMaxSize int    `toml:"embed_cover_max_size"`

	// Playlist settings
	Playlist         string `toml:"playlist"` // none, m3u, pls, wpl, zpl
	PlaylistExtended bool   `toml:"playlist_extended"`

	LogLevel string `toml:"log_level"`
}

// Duration is a time.Duration written as a string such as "90s" or "5m".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Format:  model.FormatFLAC,
		Encoder: encoder.BackendFFmpeg,

		Workers: 0,

		CoverName:  "cover.jpg",
		EmbedCover: true,

		Playlist:         "none",
		PlaylistExtended: true,

		LogLevel: "info",
	}
}

// Load reads settings from a TOML file on top of DefaultSettings.
//
// ${VAR} references are replaced with environment values before parsing.
// Unresolved variables, unknown keys and invalid values are collected into
// a *ConfigError; the settings are returned alongside it.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	settings := DefaultSettings()
	md, err := toml.Decode(content, settings)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfgErr := &ConfigError{Path: path, Missing: missing}
	for _, key := range md.Undecoded() {
		cfgErr.Errors = append(cfgErr.Errors, fmt.Sprintf("%s: unknown setting", key))
	}
	cfgErr.Errors = append(cfgErr.Errors, settings.Validate()...)

	if cfgErr.HasErrors() {
		return settings, cfgErr
	}
	return settings, nil
}

// Save writes settings to a TOML file, creating parent directories.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return s.Write(f)
}

// Write serializes the settings as TOML.
func (s *Settings) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(s)
}

// EncodingOptions converts settings to the options attached to every job.
func (s *Settings) EncodingOptions() model.EncodingOptions {
	opts := model.EncodingOptions{
		Format:     s.Format,
		SampleRate: s.SampleRate,
	}
	if s.CompressionLevel != nil && s.Format.SupportsCompression() {
		level := *s.CompressionLevel
		opts.CompressionLevel = &level
	}
	return opts
}

// EncoderConfig converts settings to an encoder.Config.
func (s *Settings) EncoderConfig(debug bool, stderr io.Writer) encoder.Config {
	return encoder.Config{
		Backend:    s.Encoder,
		FFmpegPath: s.FFmpegPath,
		FLACPath:   s.FLACPath,
		Debug:      debug,
		Stderr:     stderr,
	}
}

// TagConfig converts settings to an audio.TagConfig.
func (s *Settings) TagConfig() *audio.TagConfig {
	cfg := audio.DefaultTagConfig()
	cfg.EmbedCover = s.EmbedCover
	cfg.CoverMaxSize = s.EmbedCoverMaxSize
	return cfg
}

// PlaylistFormat returns the configured playlist format, FormatNone when
// the value is invalid.
func (s *Settings) PlaylistFormat() audio.PlaylistFormat {
	f, err := audio.ParsePlaylistFormat(s.Playlist)
	if err != nil {
		return audio.FormatNone
	}
	return f
}

// envVarPattern matches ${VAR_NAME} and ${VAR_NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
// and returns the names that were not set, sorted and unique. With
// ${VAR_NAME:-default} an unset or empty variable yields default.
func substituteEnvVars(content string) (string, []string) {
	unset := make(map[string]bool)
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		inner := match[2 : len(match)-1] // Strip ${ and }
		varName, def, hasDefault := strings.Cut(inner, ":-")
		value, ok := os.LookupEnv(varName)
		if ok && (value != "" || !hasDefault) {
			return value
		}
		if hasDefault {
			return def
		}
		unset[varName] = true
		return match // Leave unchanged if not found
	})

	var missing []string
	for name := range unset {
		missing = append(missing, name)
	}
	sort.Strings(missing)
	return out, missing
}
