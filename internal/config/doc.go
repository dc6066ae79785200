// Package config provides configuration management for wavtoflac.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - ${VAR} environment substitution
//   - Default configuration values and validation
//   - Conversion to the option types of other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// FLAC through ffmpeg, compression level 4
//	// One worker per CPU
//	// Embeds cover.jpg, no playlists
//
// # Loading from File
//
//	settings, path, err := config.LoadDiscovered(flagValue)
//	var cfgErr *config.ConfigError
//	if errors.As(err, &cfgErr) {
//	    // Missing variables or invalid values
//	}
//
// A file only needs the keys it changes:
//
//	format = "alac"
//	workers = 4
//	job_timeout = "10m"
//	ffmpeg_path = "${HOME}/bin/ffmpeg"
//
// # Saving Settings
//
//	err := config.DefaultSettings().Save(config.DefaultPath())
package config
