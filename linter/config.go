package linter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigFileNames are looked up in order in the project root.
var ConfigFileNames = []string{"tslint.json", "tslint.yaml", "tslint.yml", "frontpack-lint.yml", "frontpack-lint.yaml"}

// RuleConfig is one entry of the "rules" map.
type RuleConfig struct {
	Enabled bool
	Options []interface{}
}

// LintConfig holds the rules of a discovered lint configuration.
type LintConfig struct {
	Path  string
	Rules map[string]RuleConfig
}

// DiscoverConfig loads the first lint configuration found in dir. It returns
// nil without error when there is none.
func DiscoverConfig(dir string) (*LintConfig, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		return LoadConfig(path)
	}
	return nil, nil
}

// LoadConfig reads a JSON or YAML lint configuration with a "rules" map.
func LoadConfig(path string) (*LintConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read lint config %s: %w", path, err)
	}

	config := &LintConfig{Path: path, Rules: make(map[string]RuleConfig)}
	for name, value := range v.GetStringMap("rules") {
		config.Rules[name] = parseRuleConfig(value)
	}

	return config, nil
}

// parseRuleConfig accepts the tslint forms: true, [true, ...options],
// {"severity": ..., "options": ...} and a bare option value.
func parseRuleConfig(value interface{}) RuleConfig {
	switch v := value.(type) {
	case nil:
		return RuleConfig{}
	case bool:
		return RuleConfig{Enabled: v}
	case []interface{}:
		if len(v) == 0 {
			return RuleConfig{}
		}
		if enabled, ok := v[0].(bool); ok {
			return RuleConfig{Enabled: enabled, Options: v[1:]}
		}
		return RuleConfig{Enabled: true, Options: v}
	case map[string]interface{}:
		config := RuleConfig{Enabled: true}
		if severity, ok := v["severity"].(string); ok && (severity == "off" || severity == "none") {
			config.Enabled = false
		}
		switch options := v["options"].(type) {
		case nil:
		case []interface{}:
			config.Options = options
		default:
			config.Options = []interface{}{options}
		}
		return config
	default:
		return RuleConfig{Enabled: true, Options: []interface{}{v}}
	}
}

func optionInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func optionStrings(options []interface{}) []string {
	var values []string
	for _, option := range options {
		switch v := option.(type) {
		case string:
			values = append(values, v)
		case []interface{}:
			values = append(values, optionStrings(v)...)
		}
	}
	return values
}

func hasOption(options []interface{}, name string) bool {
	for _, value := range optionStrings(options) {
		if value == name {
			return true
		}
	}
	return false
}
