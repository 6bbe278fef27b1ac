// Package config provides application-wide configuration loaded from an
// optional YAML file and env vars. Env vars win over the file, the file wins
// over defaults, and every field has a default so the binary runs without
// any setup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime configuration for termcp.
type Config struct {
	// Executor
	Shell         string        `yaml:"shell"`          // TERMCP_SHELL: empty selects the platform shell
	LaunchTimeout time.Duration `yaml:"launch_timeout"` // TERMCP_LAUNCH_TIMEOUT: default 30s
	ExecTimeout   time.Duration `yaml:"exec_timeout"`   // TERMCP_EXEC_TIMEOUT: default 30s
	WaitDelay     time.Duration `yaml:"wait_delay"`     // TERMCP_WAIT_DELAY: default 2s

	// Readme resource, resolved under the home directory on every read.
	ReadmeDir  string `yaml:"readme_dir"`  // TERMCP_README_DIR: default "Desktop"
	ReadmeName string `yaml:"readme_name"` // TERMCP_README_NAME: default "mcpreadme.md"

	EnableDownloadDemo bool   `yaml:"enable_download_demo"` // TERMCP_ENABLE_DOWNLOAD_DEMO: default false
	HTTPAddr           string `yaml:"http_addr"`            // TERMCP_HTTP_ADDR: default "127.0.0.1:8080"

	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // TERMCP_LOG_LEVEL: debug|info|warn|error, default info
	Format string `yaml:"format"` // TERMCP_LOG_FORMAT: json|console, default json
}

const (
	envKeyShell              = "TERMCP_SHELL"
	envKeyLaunchTimeout      = "TERMCP_LAUNCH_TIMEOUT"
	envKeyExecTimeout        = "TERMCP_EXEC_TIMEOUT"
	envKeyWaitDelay          = "TERMCP_WAIT_DELAY"
	envKeyReadmeDir          = "TERMCP_README_DIR"
	envKeyReadmeName         = "TERMCP_README_NAME"
	envKeyEnableDownloadDemo = "TERMCP_ENABLE_DOWNLOAD_DEMO"
	envKeyHTTPAddr           = "TERMCP_HTTP_ADDR"
	envKeyLogLevel           = "TERMCP_LOG_LEVEL"
	envKeyLogFormat          = "TERMCP_LOG_FORMAT"
)

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		LaunchTimeout: 30 * time.Second,
		ExecTimeout:   30 * time.Second,
		WaitDelay:     2 * time.Second,
		ReadmeDir:     "Desktop",
		ReadmeName:    "mcpreadme.md",
		HTTPAddr:      "127.0.0.1:8080",
		Log:           LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads configuration from environment variables, applying defaults for missing values.
func Load() (Config, error) {
	cfg := Defaults()
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path on the defaults, then applies env
// overrides. An empty path behaves like Load.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Load()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Shell = envOr(envKeyShell, cfg.Shell)
	cfg.ReadmeDir = envOr(envKeyReadmeDir, cfg.ReadmeDir)
	cfg.ReadmeName = envOr(envKeyReadmeName, cfg.ReadmeName)
	cfg.HTTPAddr = envOr(envKeyHTTPAddr, cfg.HTTPAddr)
	cfg.Log.Level = envOr(envKeyLogLevel, cfg.Log.Level)
	cfg.Log.Format = envOr(envKeyLogFormat, cfg.Log.Format)

	var err error
	if cfg.LaunchTimeout, err = envDuration(envKeyLaunchTimeout, cfg.LaunchTimeout); err != nil {
		return err
	}
	if cfg.ExecTimeout, err = envDuration(envKeyExecTimeout, cfg.ExecTimeout); err != nil {
		return err
	}
	if cfg.WaitDelay, err = envDuration(envKeyWaitDelay, cfg.WaitDelay); err != nil {
		return err
	}
	if v := os.Getenv(envKeyEnableDownloadDemo); v != "" {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, envKeyEnableDownloadDemo, v, perr)
		}
		cfg.EnableDownloadDemo = b
	}
	return nil
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s=%q must be a positive duration", ErrInvalidConfig, key, v)
	}
	return d, nil
}
