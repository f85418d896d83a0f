package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/logtrim/pkg/errors"
)

func TestDefaults(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Matcher.BranchFactor)
	assert.Empty(t, cfg.Store.Path)
	assert.Contains(t, cfg.Stack.BoringPrefixes, "\tat org.gradle")
	assert.Contains(t, cfg.Noise.Lines, "w: ATTENTION!")
	assert.Contains(t, cfg.Noise.Prefixes, "See the profiling report at:")

	require.Len(t, cfg.Normalize, 3)
	assert.Equal(t, "DIST_DIR=", cfg.Normalize[0].Key)
	assert.Equal(t, "$DIST_DIR", cfg.Normalize[0].Replacement)
	assert.Equal(t, "CHECKOUT=", cfg.Normalize[2].Key)
	require.Len(t, cfg.Normalize[2].Aliases, 1)
	assert.Equal(t, "$SUPPORT", cfg.Normalize[2].Aliases[0].Replacement)
}

func TestFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logtrim.toml")
	content := "[matcher]\nbranch_factor = 4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Matcher.BranchFactor)
	// Untouched sections keep their defaults
	assert.NotEmpty(t, cfg.Noise.Lines)
}

func TestYAMLConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logtrim.yaml")
	content := "matcher:\n  branch_factor: 8\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Matcher.BranchFactor)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LOGTRIM_MATCHER_BRANCH_FACTOR", "7")

	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Matcher.BranchFactor)
}

func TestPathOverrideVariables(t *testing.T) {
	t.Setenv("LOGTRIM_STORE", "/tmp/custom.ignore")
	t.Setenv("LOGTRIM_CONFIG", "/tmp/custom.toml")

	cfg, err := Default()
	require.NoError(t, err)
	// LOGTRIM_STORE is shorthand for store.path; LOGTRIM_CONFIG names the
	// config file itself and never becomes a key.
	assert.Equal(t, "/tmp/custom.ignore", cfg.Store.Path)
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := Load("logtrim.json")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestInvalidBranchFactorRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logtrim.toml")
	require.NoError(t, os.WriteFile(path, []byte("[matcher]\nbranch_factor = 0\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}
