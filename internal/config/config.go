package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Bridge   BridgeConfig   `yaml:"bridge"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Script   string         `yaml:"script"` // Default script for -apply
}

// BridgeConfig contains Hue bridge connection settings
type BridgeConfig struct {
	Address      string   `yaml:"address"`
	Username     string   `yaml:"username"`
	Timeout      Duration `yaml:"timeout"` // HTTP timeout for bridge requests
	RateLimitRPS float64  `yaml:"rate_limit_rps"`
	Gamut        string   `yaml:"gamut"` // Colour gamut used for rgb() in scripts: A, B or C
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	JSON   bool   `yaml:"json"`
	Colors bool   `yaml:"colors"`
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses configuration data, expanding environment variables and applying defaults.
func Parse(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./huesnap.sqlite"
	}
	if cfg.Script == "" {
		cfg.Script = "main.lua"
	}

	// Bridge defaults
	if cfg.Bridge.Timeout == 0 {
		cfg.Bridge.Timeout = Duration(30 * time.Second)
	}
	if cfg.Bridge.RateLimitRPS == 0 {
		cfg.Bridge.RateLimitRPS = 10.0 // 10 requests per second
	}
	cfg.Bridge.Gamut = strings.ToUpper(cfg.Bridge.Gamut)
	if cfg.Bridge.Gamut == "" {
		cfg.Bridge.Gamut = "C"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Bridge.Gamut {
	case "A", "B", "C":
	default:
		return fmt.Errorf("bridge.gamut must be one of A, B or C, got %q", c.Bridge.Gamut)
	}
	if c.Bridge.RateLimitRPS < 0 {
		return fmt.Errorf("bridge.rate_limit_rps must not be negative")
	}
	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
