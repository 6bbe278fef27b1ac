// No t.Parallel(): env vars are process-global.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var allKeys = []string{
	envKeyShell, envKeyLaunchTimeout, envKeyExecTimeout, envKeyWaitDelay,
	envKeyReadmeDir, envKeyReadmeName, envKeyEnableDownloadDemo, envKeyHTTPAddr,
	envKeyLogLevel, envKeyLogFormat,
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.LaunchTimeout != 30*time.Second || cfg.ExecTimeout != 30*time.Second {
		t.Errorf("unexpected timeouts: launch=%s exec=%s", cfg.LaunchTimeout, cfg.ExecTimeout)
	}
	if cfg.ReadmeDir != "Desktop" || cfg.ReadmeName != "mcpreadme.md" {
		t.Errorf("unexpected readme location: %s/%s", cfg.ReadmeDir, cfg.ReadmeName)
	}
	if cfg.EnableDownloadDemo {
		t.Error("download demo must be disabled by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(envKeyShell, "/bin/bash")
	t.Setenv(envKeyLaunchTimeout, "5s")
	t.Setenv(envKeyExecTimeout, "1m")
	t.Setenv(envKeyWaitDelay, "500ms")
	t.Setenv(envKeyReadmeDir, "docs")
	t.Setenv(envKeyReadmeName, "notes.md")
	t.Setenv(envKeyEnableDownloadDemo, "true")
	t.Setenv(envKeyHTTPAddr, ":9090")
	t.Setenv(envKeyLogLevel, "debug")
	t.Setenv(envKeyLogFormat, "console")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Config{
		Shell:              "/bin/bash",
		LaunchTimeout:      5 * time.Second,
		ExecTimeout:        time.Minute,
		WaitDelay:          500 * time.Millisecond,
		ReadmeDir:          "docs",
		ReadmeName:         "notes.md",
		EnableDownloadDemo: true,
		HTTPAddr:           ":9090",
		Log:                LogConfig{Level: "debug", Format: "console"},
	}
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		envKeyExecTimeout:        "thirty",
		envKeyLaunchTimeout:      "-1s",
		envKeyWaitDelay:          "0s",
		envKeyEnableDownloadDemo: "maybe",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got: %v", err)
			}
		})
	}
}

func TestLoadFile_OverlayThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "termcp.yaml")
	body := "exec_timeout: 10s\nreadme_name: team.md\nenable_download_demo: true\nlog:\n  level: warn\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(envKeyLogLevel, "error")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if cfg.ExecTimeout != 10*time.Second {
		t.Errorf("exec timeout = %s, want 10s", cfg.ExecTimeout)
	}
	if cfg.LaunchTimeout != 30*time.Second {
		t.Errorf("launch timeout = %s, want default 30s", cfg.LaunchTimeout)
	}
	if cfg.ReadmeName != "team.md" || cfg.ReadmeDir != "Desktop" {
		t.Errorf("unexpected readme location: %s/%s", cfg.ReadmeDir, cfg.ReadmeName)
	}
	if !cfg.EnableDownloadDemo {
		t.Error("expected download demo enabled from file")
	}
	if cfg.Log.Level != "error" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	clearEnv(t)
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got: %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("exec_timeout: [1, 2\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got: %v", err)
	}
}

func TestLoadFile_EmptyPathUsesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(envKeyHTTPAddr, ":7000")
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if cfg.HTTPAddr != ":7000" {
		t.Errorf("expected env addr, got %q", cfg.HTTPAddr)
	}
}

func TestEnvOr_Present(t *testing.T) {
	t.Setenv("TEST_ENVOR_KEY", "custom-value")
	if got := envOr("TEST_ENVOR_KEY", "fallback"); got != "custom-value" {
		t.Errorf("expected 'custom-value', got %q", got)
	}
}

func TestEnvOr_Absent(t *testing.T) {
	t.Setenv("TEST_ENVOR_MISSING", "")
	if got := envOr("TEST_ENVOR_MISSING", "fallback"); got != "fallback" {
		t.Errorf("expected 'fallback', got %q", got)
	}
}
