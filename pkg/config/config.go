// Package config loads logtrim's layered configuration: embedded
// defaults, then an optional config file, then LOGTRIM_* environment
// variables. The config carries everything that varies between build
// systems: the built-in noise lists, the path-normalization markers, the
// matcher branching factor and the exemption-store location.
package config

import (
	_ "embed"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/logtrim/pkg/errors"
	"github.com/arthur-debert/logtrim/pkg/paths"
)

//go:embed logtrim.toml
var defaultConfig []byte

// envPrefix is the prefix for environment variable overrides, e.g.
// LOGTRIM_MATCHER_BRANCH_FACTOR=16.
const envPrefix = "LOGTRIM_"

// Config is the fully merged configuration.
type Config struct {
	Matcher   MatcherConfig `koanf:"matcher"`
	Store     StoreConfig   `koanf:"store"`
	Stack     StackConfig   `koanf:"stack"`
	Noise     NoiseConfig   `koanf:"noise"`
	Normalize []Marker      `koanf:"normalize"`
}

// MatcherConfig tunes the hierarchical matcher.
type MatcherConfig struct {
	BranchFactor int `koanf:"branch_factor"`
}

// StoreConfig locates the exemption store.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// StackConfig lists stack-frame prefixes considered uninteresting.
type StackConfig struct {
	BoringPrefixes []string `koanf:"boring_prefixes"`
}

// NoiseConfig lists messages that are never interesting.
type NoiseConfig struct {
	Lines    []string `koanf:"lines"`
	Prefixes []string `koanf:"prefixes"`
}

// Marker describes one path-normalization rule: a declaration line in
// the log ("OUT_DIR=/some/path") whose value is replaced everywhere with
// a stable placeholder. Aliases rewrite subdirectories first.
type Marker struct {
	Key         string  `koanf:"key"`
	Replacement string  `koanf:"replacement"`
	Aliases     []Alias `koanf:"aliases"`
}

// Alias maps a subdirectory of a marker's value to its own placeholder.
type Alias struct {
	Subpath     string `koanf:"subpath"`
	Replacement string `koanf:"replacement"`
}

// Load builds the configuration from embedded defaults, the config file
// at path (optional, TOML or YAML by extension), and the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultConfig), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load default configuration")
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config file %s", path)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	if cfg.Matcher.BranchFactor < 1 {
		return nil, errors.Newf(errors.ErrConfigValid,
			"matcher.branch_factor must be at least 1, got %d", cfg.Matcher.BranchFactor)
	}
	return &cfg, nil
}

// Default returns the embedded default configuration.
func Default() (*Config, error) {
	return Load("")
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported config file extension %q", ext)
	}
}

// envToKey maps LOGTRIM_MATCHER_BRANCH_FACTOR to matcher.branch_factor.
// Single underscores inside a section name survive because only the
// first underscore after a known section separates the path; in practice
// our keys are one level deep, so the first underscore is the separator.
//
// The path-override variables are special: LOGTRIM_STORE is the
// documented shorthand for store.path, and LOGTRIM_CONFIG names the
// config file itself, so it never becomes a key.
func envToKey(s string) string {
	switch s {
	case paths.EnvStorePath:
		return "store.path"
	case paths.EnvConfigPath:
		return ""
	}
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}
