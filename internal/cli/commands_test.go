package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandStructure(t *testing.T) {
	rootCmd := NewRootCmd()
	assert.Equal(t, "logtrim", rootCmd.Use)

	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"report", "validate", "update", "version", "man"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestGlobalFlags(t *testing.T) {
	rootCmd := NewRootCmd()
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("store"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReportCommandRuns(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "build.log", "Downloading 42 files\n")
	storePath := writeFile(t, dir, "messages.ignore", `Downloading \d+ files`+"\n")

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"report", logPath, "--store", storePath})
	assert.NoError(t, rootCmd.Execute())
}

func TestBareLogArgumentRunsReport(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "build.log", "Downloading 42 files\n")
	storePath := writeFile(t, dir, "messages.ignore", `Downloading \d+ files`+"\n")

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{logPath, "--store", storePath})
	assert.NoError(t, rootCmd.Execute())
}

func TestConfigStorePathHonored(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "build.log", "Downloading 42 files!!\n")
	storePath := writeFile(t, dir, "custom.ignore", `Downloading \d+ files`+"\n")
	configPath := writeFile(t, dir, "logtrim.toml", "[store]\npath = \""+storePath+"\"\n")

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"update", logPath, "--config", configPath})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(storePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `Downloading [0-9]+ files!!`)
}

func TestStoreEnvOverrideLoads(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "build.log", "Downloading 42 files\n")
	storePath := writeFile(t, dir, "env.ignore", `Downloading \d+ files`+"\n")
	t.Setenv("LOGTRIM_STORE", storePath)

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"report", logPath})
	assert.NoError(t, rootCmd.Execute())
}

func TestValidateCommandFailsOnNovelContent(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "build.log", "Downloading 42 files!!\n")
	storePath := writeFile(t, dir, "messages.ignore", `Downloading \d+ files`+"\n")

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"validate", logPath, "--store", storePath})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 new messages")

	// The suggestion artifact is written alongside the log
	data, err := os.ReadFile(logPath + ".ignore")
	require.NoError(t, err)
	assert.Contains(t, string(data), `Downloading [0-9]+ files!!`)
}

func TestValidateCommandPassesOnCleanLog(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "build.log", "Downloading 42 files\n")
	storePath := writeFile(t, dir, "messages.ignore", `Downloading \d+ files`+"\n")

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"validate", logPath, "--store", storePath})
	assert.NoError(t, rootCmd.Execute())
}

func TestUpdateCommandRewritesStore(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "build.log", "Downloading 42 files!!\n")
	storePath := writeFile(t, dir, "messages.ignore", `Downloading \d+ files`+"\n")

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"update", logPath, "--store", storePath})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(storePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `Downloading [0-9]+ files!!`)
}
