package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory
const FileName = "weaver.yaml"

// EnvPrefix prefixes the environment variables overriding configuration keys
const EnvPrefix = "WEAVER"

// Config represents weaver.yaml configuration
type Config struct {
	ProjectsPath string              `yaml:"projects_path" mapstructure:"projects_path"`
	Separator    string              `yaml:"separator" mapstructure:"separator"`
	LogLevel     string              `yaml:"log_level" mapstructure:"log_level"`
	Services     map[string][]string `yaml:"services" mapstructure:"services"`
	Graph        GraphConfig         `yaml:"graph" mapstructure:"graph"`
	Watch        WatchConfig         `yaml:"watch" mapstructure:"watch"`
}

// GraphConfig holds diagram settings
type GraphConfig struct {
	Title string `yaml:"title" mapstructure:"title"`
}

// WatchConfig holds watch mode settings
type WatchConfig struct {
	DebounceMillis int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ProjectsPath: "projects",
		Separator:    ".",
		LogLevel:     "warn",
		Services: map[string][]string{
			"default": {"host", "port"},
			"mysql":   {"host", "port", "user", "password", "database"},
			"http":    {"url"},
		},
		Graph: GraphConfig{
			Title: "Detailed dependencies for {{ .Project }}",
		},
		Watch: WatchConfig{
			DebounceMillis: 500,
		},
	}
}

// SetDefaults registers DefaultConfig values on a viper instance
func SetDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("projects_path", defaults.ProjectsPath)
	v.SetDefault("separator", defaults.Separator)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("services", defaults.Services)
	v.SetDefault("graph.title", defaults.Graph.Title)
	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMillis)
}

// Load reads configuration through v. An explicit path must exist; without
// one, weaver.yaml is looked up in the working directory and its absence
// leaves the defaults in place. WEAVER_* environment variables override
// file values.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values the rest of the tool relies on
func (c *Config) Validate() error {
	if c.Separator == "" {
		return fmt.Errorf("separator must not be empty")
	}
	if c.Watch.DebounceMillis < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", c.Watch.DebounceMillis)
	}
	return nil
}

// Save writes configuration to a YAML file. Existing files are left
// untouched unless overwrite is set.
func Save(path string, cfg *Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
