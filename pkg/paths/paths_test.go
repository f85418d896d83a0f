package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStorePathEnvOverride(t *testing.T) {
	t.Setenv(EnvStorePath, "/custom/messages.ignore")
	assert.Equal(t, "/custom/messages.ignore", DefaultStorePath())
}

func TestDefaultStorePathPrefersWorkingDirectory(t *testing.T) {
	t.Setenv(EnvStorePath, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultStoreName), []byte("pattern\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	assert.Equal(t, DefaultStoreName, DefaultStorePath())
}

func TestDefaultStorePathFallsBackToXDG(t *testing.T) {
	t.Setenv(EnvStorePath, "")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	path := DefaultStorePath()
	assert.Equal(t, DefaultStoreName, filepath.Base(path))
	assert.Contains(t, path, AppDirName)
}

func TestFindConfigFileEnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/custom/logtrim.toml")
	assert.Equal(t, "/custom/logtrim.toml", FindConfigFile())
}
