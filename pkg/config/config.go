// Package config loads the tsfang project configuration from .tsfang.yaml
// and TSFANG_* environment variables.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/tsfang/pkg/discover"
	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
)

// Sentinel validation errors.
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrUnknownRuleSet = errors.New("unknown rule set")
)

// Default configuration values.
const (
	DefaultExtends      = RuleSetRecommended
	DefaultWorkers      = 0
	DefaultMaxFixPasses = lint.DefaultMaxFixPasses
	DefaultMaxFileSize  = discover.DefaultMaxFileSize
	DefaultFormat       = "text"
	DefaultGitignore    = true
	envPrefix           = "TSFANG"
	configName          = ".tsfang"
)

//go:embed schema.json
var schema []byte

// Config holds the project configuration.
type Config struct {
	Extends      string                  `mapstructure:"extends"`
	Format       string                  `mapstructure:"format"`
	Exclude      []string                `mapstructure:"exclude"`
	Rules        map[string]RuleSettings `mapstructure:"rules"`
	Workers      int                     `mapstructure:"workers"`
	MaxFixPasses int                     `mapstructure:"max_fix_passes"`
	MaxFileSize  int64                   `mapstructure:"max_file_size"`
	Gitignore    bool                    `mapstructure:"gitignore"`
}

// RuleSettings override one rule of the extended rule set.
type RuleSettings struct {
	// Enabled defaults to true for a listed rule.
	Enabled *bool `mapstructure:"enabled"`
	// Severity "off" disables the rule.
	Severity string `mapstructure:"severity"`
	// Options replace the options of the rule set when present.
	Options any `mapstructure:"options"`
}

// LoadConfig loads configuration from configPath, or from .tsfang.yaml in
// the working directory when configPath is empty. A missing default file is
// not an error. Environment variables override file values.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	// Environment values arrive as strings, so the schema only sees the file.
	validateErr := validateSchema(viperCfg.AllSettings())
	if validateErr != nil {
		return nil, validateErr
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr = validateConfig(&config)
	if validateErr != nil {
		return nil, validateErr
	}

	return &config, nil
}

// Default returns the configuration used without any file.
func Default() *Config {
	return &Config{
		Extends:      DefaultExtends,
		Format:       DefaultFormat,
		Workers:      DefaultWorkers,
		MaxFixPasses: DefaultMaxFixPasses,
		MaxFileSize:  DefaultMaxFileSize,
		Gitignore:    DefaultGitignore,
	}
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("extends", DefaultExtends)
	viperCfg.SetDefault("format", DefaultFormat)
	viperCfg.SetDefault("workers", DefaultWorkers)
	viperCfg.SetDefault("max_fix_passes", DefaultMaxFixPasses)
	viperCfg.SetDefault("max_file_size", DefaultMaxFileSize)
	viperCfg.SetDefault("gitignore", DefaultGitignore)
}

func validateSchema(settings map[string]any) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewGoLoader(settings))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func validateConfig(config *Config) error {
	if config.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative: %d", ErrInvalidConfig, config.Workers)
	}

	if config.MaxFixPasses < 1 {
		return fmt.Errorf("%w: max_fix_passes must be positive: %d", ErrInvalidConfig, config.MaxFixPasses)
	}

	if config.MaxFileSize < 1 {
		return fmt.Errorf("%w: max_file_size must be positive: %d", ErrInvalidConfig, config.MaxFileSize)
	}

	if _, err := RuleSet(config.Extends); err != nil {
		return err
	}

	return nil
}

// RuleConfigs resolves the extended rule set and the per-rule overrides
// into the configuration of every rule.
func (c *Config) RuleConfigs() (map[string]lint.RuleConfig, error) {
	out, err := RuleSet(c.Extends)
	if err != nil {
		return nil, err
	}

	for name, settings := range c.Rules {
		rc := out[name]
		rc.Enabled = settings.Enabled == nil || *settings.Enabled

		if settings.Severity != "" {
			severity, err := lint.ParseSeverity(settings.Severity)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", name, err)
			}

			rc.Severity = severity
			rc.Enabled = rc.Enabled && severity != lint.SeverityOff
		}

		if settings.Options != nil {
			rc.Options = settings.Options
		}

		out[name] = rc
	}

	return out, nil
}
