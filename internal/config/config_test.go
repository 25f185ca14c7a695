package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
)

func init() {
	// Tests swap HOME per case.
	homedir.DisableCache = true
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "panel.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != defaultAPIBase {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, defaultAPIBase)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Fatalf("PollInterval = %v, want 10s", cfg.PollInterval)
	}
	if cfg.ToastDuration != 3*time.Second {
		t.Fatalf("ToastDuration = %v, want 3s", cfg.ToastDuration)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if !strings.HasSuffix(cfg.LogFile, logFileName) {
		t.Fatalf("LogFile = %q, want it to end with %s", cfg.LogFile, logFileName)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_base = "  10.0.0.5:8080  "
poll_interval = "30s"
request_timeout = "2s"
toast_duration = "5s"
log_file = "  ~/logs/panel.log  "
log_level = "DEBUG"
theme = "Slate"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "10.0.0.5:8080" {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, "10.0.0.5:8080")
	}
	if cfg.PollInterval != 30*time.Second || cfg.RequestTimeout != 2*time.Second || cfg.ToastDuration != 5*time.Second {
		t.Fatalf("durations = %v/%v/%v, want 30s/2s/5s", cfg.PollInterval, cfg.RequestTimeout, cfg.ToastDuration)
	}
	if cfg.LogFile != filepath.Join(home, "logs", "panel.log") {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Theme != "Slate" {
		t.Fatalf("Theme = %q, want Slate", cfg.Theme)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
api_base = "   "
poll_interval = ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != defaultAPIBase {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, defaultAPIBase)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, defaultPollInterval)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("READALOUD_API_BASE", "http://tts.lan:5000")
	t.Setenv("READALOUD_POLL_INTERVAL", "15s")
	t.Setenv("READALOUD_LOG_LEVEL", "warn")

	path := writeConfig(t, `
api_base = "127.0.0.1:9999"
poll_interval = "30s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "http://tts.lan:5000" {
		t.Fatalf("APIBase = %q, want env value", cfg.APIBase)
	}
	if cfg.PollInterval != 15*time.Second {
		t.Fatalf("PollInterval = %v, want 15s", cfg.PollInterval)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := writeConfig(t, `api_base = [`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidDurationFails(t *testing.T) {
	path := writeConfig(t, `poll_interval = "often"`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "poll_interval") {
		t.Fatalf("Load error = %v, want poll_interval parse error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults ok", func(*Config) {}, ""},
		{"poll too fast", func(c *Config) { c.PollInterval = 100 * time.Millisecond }, "poll_interval"},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, "request_timeout"},
		{"zero toast", func(c *Config) { c.ToastDuration = 0 }, "toast_duration"},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate returned error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate error = %v, want it to mention %s", err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
