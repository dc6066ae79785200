package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// EnvConfig names the environment variable that points at a config file.
const EnvConfig = "WAVTOFLAC_CONFIG"

// LocalFile is the config file looked up in the working directory.
const LocalFile = "wavtoflac.toml"

const xdgRelPath = "wavtoflac/config.toml"

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, filepath.FromSlash(xdgRelPath))
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. explicit, usually the --config flag
//  2. WAVTOFLAC_CONFIG environment variable
//  3. ./wavtoflac.toml (current directory)
//  4. $XDG_CONFIG_HOME/wavtoflac/config.toml, then $XDG_CONFIG_DIRS
//
// A path given by 1 or 2 must exist. When nothing is found Discover
// returns "" and no error; callers fall back to DefaultSettings.
func Discover(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("--config %s: %w", explicit, err)
		}
		return explicit, nil
	}

	if envPath := os.Getenv(EnvConfig); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, envPath, err)
		}
		return envPath, nil
	}

	if _, err := os.Stat(LocalFile); err == nil {
		return LocalFile, nil
	}

	if p, err := xdg.SearchConfigFile(xdgRelPath); err == nil {
		return p, nil
	}

	return "", nil
}

// LoadDiscovered loads the file Discover finds, or defaults when there is
// none. The returned path is empty in the latter case.
func LoadDiscovered(explicit string) (*Settings, string, error) {
	path, err := Discover(explicit)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return DefaultSettings(), "", nil
	}

	settings, err := Load(path)
	return settings, path, err
}
