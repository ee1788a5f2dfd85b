package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/core-tools/hsu-tray/pkg/errors"
	"github.com/core-tools/hsu-tray/pkg/logfiles"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	DefaultPollInterval = 50 * time.Millisecond
)

// Config is the optional configuration file, in YAML or TOML
type Config struct {
	AppName       string              `yaml:"app_name,omitempty" toml:"app_name"`
	LogsDir       string              `yaml:"logs_dir,omitempty" toml:"logs_dir"`
	Log           LogConfig           `yaml:"log" toml:"log"`
	Tray          TrayConfig          `yaml:"tray" toml:"tray"`
	Supervisor    SupervisorConfig    `yaml:"supervisor" toml:"supervisor"`
	Notifications NotificationsConfig `yaml:"notifications" toml:"notifications"`
}

type LogConfig struct {
	Level  string `yaml:"level,omitempty" toml:"level"`
	Format string `yaml:"format,omitempty" toml:"format"` // console or json
}

type TrayConfig struct {
	// Tooltip overrides the default tooltip, which is the full command line
	Tooltip string `yaml:"tooltip,omitempty" toml:"tooltip"`

	// Icon is a path to an image file; the built-in icon is used if empty
	Icon string `yaml:"icon,omitempty" toml:"icon"`
}

type SupervisorConfig struct {
	// Zero means the default; a negative interval busy-polls
	PollInterval time.Duration `yaml:"poll_interval,omitempty" toml:"poll_interval"`
}

type NotificationsConfig struct {
	Enabled *bool `yaml:"enabled,omitempty" toml:"enabled"` // Pointer to distinguish unset from false
}

// NotificationsEnabled reports whether desktop notifications are on; unset means on
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications.Enabled == nil || *c.Notifications.Enabled
}

// Overrides carries command-line values; zero values leave the file value alone
type Overrides struct {
	AppName      string
	LogLevel     string
	Tooltip      string
	Icon         string
	PollInterval time.Duration
	NoNotify     bool
}

// DefaultConfig is the configuration used when no file is given
func DefaultConfig() *Config {
	config := &Config{}
	setConfigDefaults(config)
	return config
}

// LoadConfigFromFile loads configuration from a YAML (.yaml, .yml) or TOML (.toml) file
func LoadConfigFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.NewIOError("failed to read configuration file", err).WithContext("filename", filename)
	}

	var config Config
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, errors.NewValidationError("failed to parse YAML configuration", err).WithContext("filename", filename)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &config); err != nil {
			return nil, errors.NewValidationError("failed to parse TOML configuration", err).WithContext("filename", filename)
		}
	default:
		return nil, errors.NewValidationError(
			fmt.Sprintf("unsupported configuration file extension: %q", ext),
			nil,
		).WithContext("supported_extensions", ".yaml, .yml, .toml")
	}

	setConfigDefaults(&config)

	return &config, nil
}

// ApplyOverrides copies the non-zero command-line values over config
func ApplyOverrides(config *Config, overrides Overrides) {
	if overrides.AppName != "" {
		config.AppName = overrides.AppName
	}
	if overrides.LogLevel != "" {
		config.Log.Level = overrides.LogLevel
	}
	if overrides.Tooltip != "" {
		config.Tray.Tooltip = overrides.Tooltip
	}
	if overrides.Icon != "" {
		config.Tray.Icon = overrides.Icon
	}
	if overrides.PollInterval != 0 {
		config.Supervisor.PollInterval = overrides.PollInterval
	}
	if overrides.NoNotify {
		disabled := false
		config.Notifications.Enabled = &disabled
	}
}

// ValidateConfig validates the entire configuration structure
func ValidateConfig(config *Config) error {
	if config == nil {
		return errors.NewValidationError("configuration cannot be nil", nil)
	}

	if config.AppName == "" || strings.ContainsAny(config.AppName, `/\`) || config.AppName == "." || config.AppName == ".." {
		return errors.NewValidationError(
			fmt.Sprintf("invalid app name: %q", config.AppName),
			nil,
		).WithContext("reason", "must be a single directory name")
	}

	if config.LogsDir != "" && !filepath.IsAbs(config.LogsDir) {
		return errors.NewValidationError("logs directory must be an absolute path", nil).
			WithContext("logs_dir", config.LogsDir)
	}

	if err := validateLogConfig(&config.Log); err != nil {
		return errors.NewValidationError("invalid log configuration", err)
	}

	if config.Tray.Icon != "" {
		info, err := os.Stat(config.Tray.Icon)
		if err != nil {
			return errors.NewValidationError("tray icon file is not accessible", err).WithContext("icon", config.Tray.Icon)
		}
		if info.IsDir() {
			return errors.NewValidationError("tray icon must be a file", nil).WithContext("icon", config.Tray.Icon)
		}
	}

	return nil
}

// setConfigDefaults applies default values to configuration
func setConfigDefaults(config *Config) {
	if config.AppName == "" {
		config.AppName = logfiles.DefaultAppName
	}
	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}
	if config.Supervisor.PollInterval == 0 {
		config.Supervisor.PollInterval = DefaultPollInterval
	}
	if config.Notifications.Enabled == nil {
		enabled := true
		config.Notifications.Enabled = &enabled
	}
}

func validateLogConfig(config *LogConfig) error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, config.Level) {
		return errors.NewValidationError(
			fmt.Sprintf("invalid log level: %s", config.Level),
			nil,
		).WithContext("valid_levels", "debug, info, warn, error")
	}

	validFormats := []string{"console", "json"}
	if !contains(validFormats, config.Format) {
		return errors.NewValidationError(
			fmt.Sprintf("invalid log format: %s", config.Format),
			nil,
		).WithContext("valid_formats", "console, json")
	}

	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
