package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/mcncl/jsonflat/internal/errors"
	"gopkg.in/yaml.v3"
)

// Supported output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatEnv  = "env"
)

// UnsetIndent marks an indent that was not given on the command line
const UnsetIndent = -1

// Config represents the complete configuration for jsonflat
type Config struct {
	Output OutputConfig `yaml:"output"`
	Env    EnvConfig    `yaml:"env"`
	Dev    DevConfig    `yaml:"dev"`
}

// OutputConfig controls how the flattened document is rendered
type OutputConfig struct {
	Format  string        `yaml:"format"`
	Indent  int           `yaml:"indent"`
	Exclude []ExcludeRule `yaml:"exclude"`
}

// ExcludeRule drops every entry whose pointer matches Pattern from the output
type ExcludeRule struct {
	Pattern string `yaml:"pattern"`
	Comment string `yaml:"comment,omitempty"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// EnvConfig controls env-style KEY=value output
type EnvConfig struct {
	Prefix              string            `yaml:"prefix"`
	IncludePlaceholders bool              `yaml:"include_placeholders"`
	KeyMappings         map[string]string `yaml:"key_mappings"` // pointer -> variable name
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format:  FormatJSON,
			Indent:  2,
			Exclude: []ExcludeRule{},
		},
		Env: EnvConfig{
			Prefix:              "",
			IncludePlaceholders: false,
			KeyMappings:         make(map[string]string),
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.compilePatterns(); err != nil {
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFileFrom(currentDir)
}

func findConfigFileFrom(dir string) string {
	configNames := []string{".jsonflat.yml", ".jsonflat.yaml", "jsonflat.yml", "jsonflat.yaml"}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			// Reached root directory
			break
		}
		dir = parentDir
	}

	return ""
}

// Validate checks that the configuration can be acted upon
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatJSON, FormatYAML, FormatEnv:
	default:
		return fmt.Errorf("output format %q: %w", c.Output.Format, errors.ErrUnknownFormat)
	}
	if c.Output.Indent < 0 {
		return fmt.Errorf("output indent must not be negative, got %d", c.Output.Indent)
	}
	return nil
}

// compilePatterns compiles all regex patterns in the config
func (c *Config) compilePatterns() error {
	for i := range c.Output.Exclude {
		rule := &c.Output.Exclude[i]
		regex, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", rule.Pattern, err)
		}
		rule.regex = regex
	}
	return nil
}

// MatchesPointer checks if this rule matches the given JSON pointer
func (r *ExcludeRule) MatchesPointer(ptr string) bool {
	if r.regex == nil {
		// Try to compile if not already compiled (fallback)
		regex, err := regexp.Compile(r.Pattern)
		if err != nil {
			return false
		}
		r.regex = regex
	}
	return r.regex.MatchString(ptr)
}

// IsExcluded reports whether any exclude rule matches ptr
func (c *Config) IsExcluded(ptr string) bool {
	for i := range c.Output.Exclude {
		if c.Output.Exclude[i].MatchesPointer(ptr) {
			return true
		}
	}
	return false
}

// EnvKeyFor returns the configured variable name for ptr, if any
func (c *Config) EnvKeyFor(ptr string) (string, bool) {
	key, ok := c.Env.KeyMappings[ptr]
	return key, ok
}

// LoadConfigWithCLI loads config with CLI argument precedence.
// Empty strings and UnsetIndent leave the file (or default) value in place.
func LoadConfigWithCLI(configPath, cliFormat string, cliIndent int, cliPrefix string, cliDebug bool) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cliFormat != "" {
		cfg.Output.Format = cliFormat
	}
	if cliIndent != UnsetIndent {
		cfg.Output.Indent = cliIndent
	}
	if cliPrefix != "" {
		cfg.Env.Prefix = cliPrefix
	}
	if cliDebug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
