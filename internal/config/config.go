package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultBaseFile     = "Base_Config.txt"
	defaultOverrideFile = "Project_Config.txt"
	defaultDumpFormat   = "text"
	defaultRepeatKey    = "R"
	defaultLogLevel     = "info"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config aggregates runtime settings resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	BaseFile     string `yaml:"base_file" validate:"required"`
	OverrideFile string `yaml:"override_file" validate:"required"`
	DumpFormat   string `yaml:"dump_format" validate:"oneof=text yaml"`
	RepeatKey    string `yaml:"repeat_key" validate:"len=1"`
	LogLevel     string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// yamlConfig represents the YAML settings file structure.
type yamlConfig struct {
	BaseFile     string `yaml:"base_file"`
	OverrideFile string `yaml:"override_file"`
	DumpFormat   string `yaml:"dump_format"`
	RepeatKey    string `yaml:"repeat_key"`
	LogLevel     string `yaml:"log_level"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile   string
	BaseFile     *string
	OverrideFile *string
	DumpFormat   *string
	RepeatKey    *string
	LogLevel     *string
}

// Load extracts settings from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Environment variables
	applyEnvConfig(&cfg)

	// YAML file (overrides environment)
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		BaseFile:     defaultBaseFile,
		OverrideFile: defaultOverrideFile,
		DumpFormat:   defaultDumpFormat,
		RepeatKey:    defaultRepeatKey,
		LogLevel:     defaultLogLevel,
	}
}

// loadFromFile loads settings from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies non-empty YAML values to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	setIfPresent(&cfg.BaseFile, yamlCfg.BaseFile)
	setIfPresent(&cfg.OverrideFile, yamlCfg.OverrideFile)
	setIfPresent(&cfg.DumpFormat, strings.ToLower(yamlCfg.DumpFormat))
	setIfPresent(&cfg.RepeatKey, yamlCfg.RepeatKey)
	setIfPresent(&cfg.LogLevel, strings.ToLower(yamlCfg.LogLevel))
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	setIfPresent(&cfg.BaseFile, os.Getenv("SIMCONFIG_BASE_FILE"))
	setIfPresent(&cfg.OverrideFile, os.Getenv("SIMCONFIG_OVERRIDE_FILE"))
	setIfPresent(&cfg.DumpFormat, strings.ToLower(os.Getenv("SIMCONFIG_DUMP_FORMAT")))
	setIfPresent(&cfg.LogLevel, strings.ToLower(os.Getenv("SIMCONFIG_LOG_LEVEL")))
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.BaseFile != nil {
		setIfPresent(&cfg.BaseFile, *overrides.BaseFile)
	}
	if overrides.OverrideFile != nil {
		setIfPresent(&cfg.OverrideFile, *overrides.OverrideFile)
	}
	if overrides.DumpFormat != nil {
		setIfPresent(&cfg.DumpFormat, strings.ToLower(*overrides.DumpFormat))
	}
	if overrides.RepeatKey != nil {
		setIfPresent(&cfg.RepeatKey, *overrides.RepeatKey)
	}
	if overrides.LogLevel != nil {
		setIfPresent(&cfg.LogLevel, strings.ToLower(*overrides.LogLevel))
	}
}

func setIfPresent(dst *string, raw string) {
	if value := strings.TrimSpace(raw); value != "" {
		*dst = value
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (got %q)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
