// Package config contains the configuration of the rtspquery command.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the configuration of the rtspquery command.
type Config struct {
	// URL of the stream to query.
	Target string `yaml:"target"`
	// timeout of each request.
	Timeout time.Duration `yaml:"timeout"`
	// User-Agent header. It defaults to the library one.
	UserAgent string `yaml:"user_agent"`
	// whether to perform SETUP, PLAY and TEARDOWN after DESCRIBE.
	Play bool `yaml:"play"`
	// duration of packet reading, when play is enabled.
	ReadDuration time.Duration `yaml:"read_duration"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig is the logging section of the configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
	// disable colors.
	NoColor bool `yaml:"no_color"`
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		ReadDuration: 5 * time.Second,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads the configuration from a YAML file.
// Fields that are missing from the file keep their default value.
// If path is empty, the default configuration is returned.
func Load(path string) (*Config, error) {
	conf := Default()

	if path == "" {
		return conf, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return conf, nil
}

// Validate checks whether the configuration is valid.
func (c *Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("target not provided")
	}

	u, err := url.Parse(c.Target)
	if err != nil {
		return fmt.Errorf("invalid target: %w", err)
	}

	if u.Scheme != "rtsp" {
		return fmt.Errorf("invalid target scheme: '%s' (must be rtsp)", u.Scheme)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %v (must be positive)", c.Timeout)
	}

	if c.Play && c.ReadDuration <= 0 {
		return fmt.Errorf("invalid read_duration: %v (must be positive)", c.ReadDuration)
	}

	levelValid := false
	for _, level := range validLevels {
		if strings.ToLower(c.Logging.Level) == level {
			levelValid = true
			break
		}
	}
	if !levelValid {
		return fmt.Errorf("invalid log level: %s (must be one of: %v)", c.Logging.Level, validLevels)
	}

	return nil
}

// SlogLevel returns the log level as slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
