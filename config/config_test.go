package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morler/frontpack/syntax"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "frontpack"}
	InitFlags(cmd)
	return cmd
}

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	cfgFile = ""
	t.Cleanup(func() {
		viper.Reset()
		cfgFile = ""
	})
}

func TestLoadConfigsDefaults(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()

	config, err := LoadConfigs(newRootCommand(), dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "src"), config.ScriptInputFolder)
	assert.Equal(t, filepath.Join(dir, "src", "main.ts"), config.EntryFile)
	assert.Equal(t, dir, config.CompilerOptions.BaseURL)
	assert.Equal(t, 300*time.Millisecond, config.WatchDebounce())
	assert.True(t, config.EnableLint)

	options, err := config.BuildCompilerOptions()
	require.NoError(t, err)
	assert.Equal(t, syntax.TargetLatest, options.Target)
	assert.Equal(t, []string{".vue"}, options.SyntheticExtensions)
}

func TestLoadConfigsReadsFileAndFlags(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frontpack-config.yml"), []byte(`
script_input_folder: app
entry_file: app/index.ts
watch_debounce_ms: 150
compiler_options:
  target: es2017
  paths:
    "@/*": ["app/*"]
`), 0o644))

	cmd := newRootCommand()
	require.NoError(t, cmd.PersistentFlags().Set("code_frames", "false"))

	config, err := LoadConfigs(cmd, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "app"), config.ScriptInputFolder)
	assert.Equal(t, filepath.Join(dir, "app", "index.ts"), config.EntryFile)
	assert.Equal(t, 150*time.Millisecond, config.WatchDebounce())
	assert.False(t, config.CodeFrames)

	options, err := config.BuildCompilerOptions()
	require.NoError(t, err)
	assert.Equal(t, syntax.TargetES2017, options.Target)
	assert.Equal(t, map[string][]string{"@/*": {"app/*"}}, options.Paths)
}

func TestLoadConfigsReadsDotEnv(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FRONTPACK_ENTRY_FILE=web/boot.ts\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("FRONTPACK_ENTRY_FILE") })

	config, err := LoadConfigs(newRootCommand(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "web", "boot.ts"), config.EntryFile)
}

func TestLoadConfigsFailsOnMissingExplicitFile(t *testing.T) {
	resetViper(t)
	cmd := newRootCommand()
	cfgFile = filepath.Join(t.TempDir(), "nope.yml")

	_, err := LoadConfigs(cmd, t.TempDir())
	assert.Error(t, err)
}

func TestBuildCompilerOptionsRejectsUnknownTarget(t *testing.T) {
	config := &Config{CompilerOptions: CompilerConfig{Target: "es1999"}}
	_, err := config.BuildCompilerOptions()
	assert.Error(t, err)
}

func TestGetConfigFileType(t *testing.T) {
	assert.Equal(t, "json", GetConfigFileType("frontpack-config.json"))
	assert.Equal(t, "yaml", GetConfigFileType("frontpack-config.yml"))
	assert.Equal(t, "", GetConfigFileType("frontpack-config.toml"))
}
