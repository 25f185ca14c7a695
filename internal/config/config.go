package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings the panel itself needs. Backend TTS settings
// live on the server and are not part of this file.
type Config struct {
	APIBase        string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	ToastDuration  time.Duration
	LogFile        string
	LogLevel       string
	Theme          string
}

const (
	appName               = "readaloud"
	configFileName        = "panel.toml"
	logFileName           = "panel.log"
	defaultAPIBase        = "127.0.0.1:5000"
	defaultPollInterval   = 10 * time.Second
	defaultRequestTimeout = 10 * time.Second
	defaultToastDuration  = 3 * time.Second
	defaultLogLevel       = "info"
	envPrefix             = "READALOUD_"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		APIBase:        defaultAPIBase,
		PollInterval:   defaultPollInterval,
		RequestTimeout: defaultRequestTimeout,
		ToastDuration:  defaultToastDuration,
		LogFile:        DefaultLogPath(),
		LogLevel:       defaultLogLevel,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	path, err := gap.NewScope(gap.User, appName).ConfigPath(configFileName)
	if err != nil {
		return filepath.Join("~", ".config", appName, configFileName)
	}
	return path
}

// DefaultLogPath returns the default panel log location.
func DefaultLogPath() string {
	path, err := gap.NewScope(gap.User, appName).LogPath(logFileName)
	if err != nil {
		return mustExpand(filepath.Join("~", ".local", "share", appName, logFileName))
	}
	return path
}

type fileConfig struct {
	APIBase        string `toml:"api_base"`
	PollInterval   string `toml:"poll_interval"`
	RequestTimeout string `toml:"request_timeout"`
	ToastDuration  string `toml:"toast_duration"`
	LogFile        string `toml:"log_file"`
	LogLevel       string `toml:"log_level"`
	Theme          string `toml:"theme"`
}

type envConfig struct {
	APIBase      string        `env:"API_BASE"`
	PollInterval time.Duration `env:"POLL_INTERVAL"`
	LogFile      string        `env:"LOG_FILE"`
	LogLevel     string        `env:"LOG_LEVEL"`
}

// Load locates and parses the panel config, falling back to defaults when
// missing, then applies READALOUD_* environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if raw != nil {
		if err := cfg.apply(*raw); err != nil {
			return Config{}, err
		}
	}

	var overrides envConfig
	if err := env.ParseWithOptions(&overrides, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.applyEnv(overrides)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string) (*fileConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &raw, nil
}

func (c *Config) apply(raw fileConfig) error {
	if v := strings.TrimSpace(raw.APIBase); v != "" {
		c.APIBase = v
	}
	durations := []struct {
		key   string
		value string
		dest  *time.Duration
	}{
		{"poll_interval", raw.PollInterval, &c.PollInterval},
		{"request_timeout", raw.RequestTimeout, &c.RequestTimeout},
		{"toast_duration", raw.ToastDuration, &c.ToastDuration},
	}
	for _, d := range durations {
		v := strings.TrimSpace(d.value)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: %s: %w", d.key, err)
		}
		*d.dest = parsed
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	c.Theme = strings.TrimSpace(raw.Theme)
	return nil
}

func (c *Config) applyEnv(e envConfig) {
	if v := strings.TrimSpace(e.APIBase); v != "" {
		c.APIBase = v
	}
	if e.PollInterval > 0 {
		c.PollInterval = e.PollInterval
	}
	if v := strings.TrimSpace(e.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(e.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}

// Validate rejects values the panel cannot run with.
func (c Config) Validate() error {
	if c.PollInterval < time.Second {
		return fmt.Errorf("poll_interval must be at least 1s, got %s", c.PollInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.ToastDuration <= 0 {
		return fmt.Errorf("toast_duration must be positive, got %s", c.ToastDuration)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(DefaultPath())
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	expanded, err := homedir.Expand(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Abs(expanded)
}
