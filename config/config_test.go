package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func noDotenv(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadMissingToken(t *testing.T) {
	_, err := Load("miro-mcp", []string{"--env-file", ""}, envFrom(nil), io.Discard)
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("miro-mcp", []string{"--env-file", ""}, envFrom(map[string]string{EnvToken: "tok"}), io.Discard)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	want.Token = "tok"
	if *cfg != want {
		t.Fatalf("got %+v, want %+v", *cfg, want)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "miro.yaml")
	yamlDoc := `
base_url: https://file.example/v2
timeout: 45s
transport: http
http:
  addr: ":9000"
  rate_limit: 2
  burst: 4
log:
  level: debug
  format: json
`
	if err := os.WriteFile(file, []byte(yamlDoc), 0o600); err != nil {
		t.Fatal(err)
	}

	env := map[string]string{
		EnvToken:      "env-token",
		EnvConfigFile: file,
		EnvAddr:       ":9100",
		EnvLogLevel:   "warn",
	}
	args := []string{"--env-file", "", "--token", "flag-token", "--log-level", "error"}
	cfg, err := Load("miro-mcp", args, envFrom(env), io.Discard)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Token != "flag-token" {
		t.Errorf("flag should beat env for token, got %q", cfg.Token)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("flag should beat env for log level, got %q", cfg.Log.Level)
	}
	if cfg.HTTP.Addr != ":9100" {
		t.Errorf("env should beat file for addr, got %q", cfg.HTTP.Addr)
	}
	if cfg.BaseURL != "https://file.example/v2" || cfg.Timeout != 45*time.Second || cfg.Transport != TransportHTTP {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.HTTP.RateLimit != 2 || cfg.HTTP.Burst != 4 || cfg.Log.Format != "json" {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("MIRO_OAUTH_TOKEN=from-dotenv\nMIRO_MCP_TRANSPORT=http\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("miro-mcp", []string{"--env-file", path}, envFrom(map[string]string{EnvTransport: "stdio"}), io.Discard)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "from-dotenv" {
		t.Errorf("token from dotenv not applied: %q", cfg.Token)
	}
	if cfg.Transport != TransportStdio {
		t.Errorf("real environment should beat dotenv, got %q", cfg.Transport)
	}
}

func TestLoadExplicitEnvFileMustExist(t *testing.T) {
	_, err := Load("miro-mcp", []string{"--env-file", noDotenv(t)}, envFrom(map[string]string{EnvToken: "t"}), io.Discard)
	if err == nil || !strings.Contains(err.Error(), "env file") {
		t.Fatalf("expected env file error, got %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := [][]string{
		{"--transport", "carrier-pigeon"},
		{"--log-format", "xml"},
		{"--timeout", "0s"},
		{"--base-url", "not a url"},
	}
	for _, extra := range cases {
		args := append([]string{"--env-file", "", "--token", "t"}, extra...)
		if _, err := Load("miro-mcp", args, envFrom(nil), io.Discard); err == nil {
			t.Fatalf("%v: expected validation error", extra)
		}
	}
	if _, err := Load("miro-mcp", []string{"--env-file", ""}, envFrom(map[string]string{EnvToken: "t", EnvBurst: "many"}), io.Discard); err == nil {
		t.Fatalf("expected error for malformed %s", EnvBurst)
	}
}

func TestLoadHelp(t *testing.T) {
	if _, err := Load("miro-mcp", []string{"-h"}, envFrom(nil), io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
}
