package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/morler/frontpack/compiler"
	"github.com/morler/frontpack/constants/lipgloss"
	"github.com/morler/frontpack/syntax"
)

// CompilerConfig mirrors the tsconfig options the checker understands.
type CompilerConfig struct {
	Target  string              `mapstructure:"target"`
	BaseURL string              `mapstructure:"base_url"`
	Paths   map[string][]string `mapstructure:"paths"`
}

// Config represents the structure of the configuration file
type Config struct {
	Version           string         `mapstructure:"version"`
	Theme             string         `mapstructure:"theme"`
	ScriptInputFolder string         `mapstructure:"script_input_folder"`
	EntryFile         string         `mapstructure:"entry_file"`
	LintConfig        string         `mapstructure:"lint_config"`
	EnableLint        bool           `mapstructure:"enable_lint"`
	CodeFrames        bool           `mapstructure:"code_frames"`
	WatchDebounceMs   int            `mapstructure:"watch_debounce_ms"`
	CompilerOptions   CompilerConfig `mapstructure:"compiler_options"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:           "0.4.0",
	Theme:             "dracula",
	ScriptInputFolder: "src",
	EntryFile:         "src/main.ts",
	EnableLint:        true,
	CodeFrames:        true,
	WatchDebounceMs:   300,
	CompilerOptions: CompilerConfig{
		Target: string(syntax.TargetLatest),
	},
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from .env, file, flags, and
// environment variables, and returns the final config with paths made
// absolute against cwd.
func LoadConfigs(rootCmd *cobra.Command, cwd string) (*Config, error) {
	// .env values never override variables already set in the environment
	if err := godotenv.Load(filepath.Join(cwd, ".env")); err != nil && !os.IsNotExist(err) {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: failed to load .env: %v", err)))
	}

	setDefaults()
	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if configType := GetConfigFileType(cfgFile); configType != "" {
			viper.SetConfigType(configType)
		}
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		viper.SetConfigName("frontpack-config")
		viper.AddConfigPath(cwd)
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
			fmt.Println(lipgloss.Gray.Render("No configuration file found, using defaults"))
		}
	}

	if rootCmd != nil {
		bindFlags(rootCmd)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.resolvePaths(cwd)
	return &config, nil
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("script_input_folder", DefaultConfig.ScriptInputFolder)
	viper.SetDefault("entry_file", DefaultConfig.EntryFile)
	viper.SetDefault("lint_config", DefaultConfig.LintConfig)
	viper.SetDefault("enable_lint", DefaultConfig.EnableLint)
	viper.SetDefault("code_frames", DefaultConfig.CodeFrames)
	viper.SetDefault("watch_debounce_ms", DefaultConfig.WatchDebounceMs)
	viper.SetDefault("compiler_options.target", DefaultConfig.CompilerOptions.Target)
	viper.SetDefault("compiler_options.base_url", DefaultConfig.CompilerOptions.BaseURL)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	_ = viper.BindEnv("theme", "FRONTPACK_THEME")
	_ = viper.BindEnv("script_input_folder", "FRONTPACK_SCRIPT_INPUT_FOLDER")
	_ = viper.BindEnv("entry_file", "FRONTPACK_ENTRY_FILE")
	_ = viper.BindEnv("lint_config", "FRONTPACK_LINT_CONFIG")
	_ = viper.BindEnv("enable_lint", "FRONTPACK_ENABLE_LINT")
	_ = viper.BindEnv("code_frames", "FRONTPACK_CODE_FRAMES")
	_ = viper.BindEnv("watch_debounce_ms", "FRONTPACK_WATCH_DEBOUNCE_MS")
	_ = viper.BindEnv("compiler_options.target", "FRONTPACK_TARGET")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("theme", flags.Lookup("theme"))
	_ = viper.BindPFlag("script_input_folder", flags.Lookup("script_input_folder"))
	_ = viper.BindPFlag("entry_file", flags.Lookup("entry_file"))
	_ = viper.BindPFlag("lint_config", flags.Lookup("lint_config"))
	_ = viper.BindPFlag("enable_lint", flags.Lookup("enable_lint"))
	_ = viper.BindPFlag("code_frames", flags.Lookup("code_frames"))
	_ = viper.BindPFlag("watch_debounce_ms", flags.Lookup("watch_debounce_ms"))
	_ = viper.BindPFlag("compiler_options.target", flags.Lookup("target"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML).")

	flags.String("theme", DefaultConfig.Theme, "Chroma theme used to highlight code frames (e.g., 'dracula', 'monokai', 'github').")
	flags.String("script_input_folder", DefaultConfig.ScriptInputFolder, "Folder holding the .ts, .tsx and .vue sources.")
	flags.String("entry_file", DefaultConfig.EntryFile, "Entry file of the application; always part of the program.")
	flags.String("lint_config", DefaultConfig.LintConfig, "Path to a tslint.json or frontpack-lint.yml file. Discovered in the project root when empty.")
	flags.Bool("enable_lint", DefaultConfig.EnableLint, "Run lint rules on files without compiler errors.")
	flags.Bool("code_frames", DefaultConfig.CodeFrames, "Print the offending source line below each diagnostic.")
	flags.Int("watch_debounce_ms", DefaultConfig.WatchDebounceMs, "Quiet period after the last change before a watch pass starts.")
	flags.String("target", DefaultConfig.CompilerOptions.Target, "Language level sources are checked against (e.g., 'ES2017', 'ESNext').")

	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}

// GetConfigFileType returns the type of the configuration file based on its extension
func GetConfigFileType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "json"
	} else if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		return "yaml"
	}
	return ""
}

func (c *Config) resolvePaths(cwd string) {
	absolute := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return filepath.Clean(path)
		}
		return filepath.Join(cwd, path)
	}

	c.ScriptInputFolder = absolute(c.ScriptInputFolder)
	c.EntryFile = absolute(c.EntryFile)
	if c.LintConfig != "" {
		c.LintConfig = absolute(c.LintConfig)
	}
	if c.CompilerOptions.BaseURL == "" {
		c.CompilerOptions.BaseURL = cwd
	} else {
		c.CompilerOptions.BaseURL = absolute(c.CompilerOptions.BaseURL)
	}
}

// WatchDebounce returns the configured debounce delay.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMs) * time.Millisecond
}

// BuildCompilerOptions converts the compiler section into program options.
func (c *Config) BuildCompilerOptions() (*compiler.CompilerOptions, error) {
	target, err := syntax.ParseTarget(c.CompilerOptions.Target)
	if err != nil {
		return nil, err
	}

	options := compiler.DefaultCompilerOptions()
	options.Target = target
	options.BaseURL = c.CompilerOptions.BaseURL
	options.Paths = c.CompilerOptions.Paths
	return options, nil
}
