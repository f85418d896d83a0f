// Package paths provides centralized path handling for logtrim,
// following the XDG Base Directory specification with environment
// variable overrides.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvStorePath overrides the exemption store location
	EnvStorePath = "LOGTRIM_STORE"

	// EnvConfigPath overrides the config file location
	EnvConfigPath = "LOGTRIM_CONFIG"
)

const (
	// AppDirName is the directory name for logtrim-specific files
	AppDirName = "logtrim"

	// DefaultStoreName is the default exemption store file name
	DefaultStoreName = "messages.ignore"
)

// DefaultStorePath returns the exemption store location: the
// LOGTRIM_STORE override, an existing messages.ignore in the working
// directory, or the XDG config location.
func DefaultStorePath() string {
	if path := os.Getenv(EnvStorePath); path != "" {
		return path
	}
	if _, err := os.Stat(DefaultStoreName); err == nil {
		return DefaultStoreName
	}
	return filepath.Join(xdg.ConfigHome, AppDirName, DefaultStoreName)
}

// FindConfigFile returns the config file to load, or "" when none
// exists: the LOGTRIM_CONFIG override, else the first of
// logtrim.toml/logtrim.yaml under the XDG config directory.
func FindConfigFile() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	for _, name := range []string{"logtrim.toml", "logtrim.yaml", "logtrim.yml"} {
		path := filepath.Join(xdg.ConfigHome, AppDirName, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
