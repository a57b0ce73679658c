package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default agent settings.
const (
	DefaultDataDir     = "/var/lib/burrow"
	DefaultMetricsAddr = ":9477"
)

// Duration is a time.Duration that unmarshals from YAML strings such as
// "250ms" or "1m30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the agent configuration loaded at process start.
type Config struct {
	// DataDir is where the agent keeps its local state (inventory db).
	DataDir string `yaml:"data_dir"`

	// MetricsAddr is the listen address of the metrics endpoint.
	MetricsAddr string `yaml:"metrics_addr"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log"`

	// LVM configures the command cache.
	LVM LVMConfig `yaml:"lvm"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// LVMConfig configures the lvm command cache.
type LVMConfig struct {
	// Path is the lvm binary path.
	Path string `yaml:"path"`

	// UserDevices are merged into every device filter in addition to the
	// devices reported by multipath.
	UserDevices []string `yaml:"user_devices"`

	// MaxCommands bounds concurrent lvm processes.
	MaxCommands int `yaml:"max_commands"`

	// ReadOnlyRetries bounds retries of shared-mode commands.
	ReadOnlyRetries int `yaml:"read_only_retries"`

	// RetryDelay is the sleep between shared-mode attempts.
	RetryDelay Duration `yaml:"retry_delay"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:     DefaultDataDir,
		MetricsAddr: DefaultMetricsAddr,
		Log: LogConfig{
			Level: "info",
			JSON:  true,
		},
	}
}

// Load reads a YAML configuration file, applying defaults for absent fields.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}
