package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestRun_Version_PrintsVersion(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"version"}, &out, &errOut)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (%s)", code, errOut.String())
	}
	if !strings.Contains(out.String(), "termcp version") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRun_VersionJSON(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	if code := run(context.Background(), []string{"version", "--json"}, &out, &errOut); code != 0 {
		t.Fatalf("expected exit code 0, got %d (%s)", code, errOut.String())
	}
	var info map[string]string
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatalf("decode version json: %v", err)
	}
	if info["version"] == "" || info["go_version"] == "" {
		t.Fatalf("unexpected version info: %v", info)
	}
}

func TestRun_Help_PrintsUsage(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"--help"}, &out, &errOut)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "Usage:") || !strings.Contains(out.String(), "serve-http") {
		t.Fatalf("expected help output, got %q", out.String())
	}
}

func TestRun_InvalidFlag_Returns2(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"--unknown-flag"}, &out, &errOut)

	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestRun_UnexpectedArgs_Returns2(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{"bogus"},
		{"version", "extra"},
		{"tools", "extra"},
		{"serve", "extra"},
		{"serve-http", "extra"},
	} {
		var out, errOut bytes.Buffer
		if code := run(context.Background(), args, &out, &errOut); code != 2 {
			t.Fatalf("run(%q): expected exit code 2, got %d (%s)", args, code, errOut.String())
		}
	}
}

func TestRun_MissingConfigFile_Returns1(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"tools", "--config", t.TempDir() + "/missing.yaml"}, &out, &errOut)

	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errOut.String(), "missing.yaml") {
		t.Fatalf("expected config path in error, got %q", errOut.String())
	}
}

// Env vars are process-global, so this test is not parallel.
func TestRun_Tools_ListsSurface(t *testing.T) {
	t.Setenv("TERMCP_ENABLE_DOWNLOAD_DEMO", "")

	var out, errOut bytes.Buffer
	if code := run(context.Background(), []string{"tools"}, &out, &errOut); code != 0 {
		t.Fatalf("expected exit code 0, got %d (%s)", code, errOut.String())
	}

	var info struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
		Resources []struct {
			URI string `json:"uri"`
		} `json:"resources"`
	}
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatalf("decode tools output: %v\n%s", err, out.String())
	}
	if len(info.Tools) != 1 || info.Tools[0].Name != "run_terminal_command" {
		t.Fatalf("unexpected tools: %+v", info.Tools)
	}
	if len(info.Resources) != 1 || info.Resources[0].URI != "file://mcpreadme" {
		t.Fatalf("unexpected resources: %+v", info.Resources)
	}
}

func TestRun_Tools_DownloadDemoEnabled(t *testing.T) {
	t.Setenv("TERMCP_ENABLE_DOWNLOAD_DEMO", "true")

	var out, errOut bytes.Buffer
	if code := run(context.Background(), []string{"tools"}, &out, &errOut); code != 0 {
		t.Fatalf("expected exit code 0, got %d (%s)", code, errOut.String())
	}
	if !strings.Contains(out.String(), `"benign_tool"`) {
		t.Fatalf("expected benign_tool in output, got %s", out.String())
	}
	if !strings.Contains(errOut.String(), "download demo tool enabled") {
		t.Fatalf("expected warning log, got %q", errOut.String())
	}
}
