package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/KamdynS/go-miro-mcp/config"
	obs "github.com/KamdynS/go-miro-mcp/observability"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestRunMissingTokenExitsOne(t *testing.T) {
	var stderr bytes.Buffer
	code := run(context.Background(), []string{"--env-file", ""}, env(nil), &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stderr.String(), config.EnvToken) {
		t.Fatalf("stderr should name the missing variable: %q", stderr.String())
	}
}

func TestRunHelpExitsZero(t *testing.T) {
	if code := run(context.Background(), []string{"-h"}, env(nil), io.Discard); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
}

func TestNewAppRegistersCatalog(t *testing.T) {
	oldM, oldT := obs.MetricsImpl, obs.TracerImpl
	t.Cleanup(func() { obs.SetMetrics(oldM); obs.SetTracer(oldT) })

	logger, _ := test.NewNullLogger()
	cfg := config.Default()
	cfg.Token = "tok"
	cfg.Tracing = true

	a, err := newApp(&cfg, logger)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.close()

	names := a.reg.List()
	if len(names) != 7 {
		t.Fatalf("expected 7 operations, got %v", names)
	}
	if _, ok := obs.TracerImpl.(*obs.NoOpTracer); ok {
		t.Fatalf("tracing flag should install the otel tracer")
	}
	if _, ok := obs.MetricsImpl.(*obs.DefaultMetrics); !ok || a.metrics != nil {
		t.Fatalf("stdio transport should count in memory, got %T", obs.MetricsImpl)
	}
}

func TestNewAppLogsTotalsOnClose(t *testing.T) {
	oldM := obs.MetricsImpl
	t.Cleanup(func() { obs.SetMetrics(oldM) })

	logger, hook := test.NewNullLogger()
	cfg := config.Default()
	cfg.Token = "tok"

	a, err := newApp(&cfg, logger)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if _, err := a.reg.Execute(context.Background(), "no_such_tool", nil); err == nil {
		t.Fatalf("expected unknown operation")
	}
	a.close()

	entry := hook.LastEntry()
	if entry == nil || entry.Message != "session totals" {
		t.Fatalf("expected totals entry, got %+v", entry)
	}
	errs, _ := entry.Data["errors"].(map[string]int64)
	if errs["unknown_operation"] != 1 {
		t.Fatalf("unexpected error totals %v", entry.Data["errors"])
	}
}

func TestServeHTTPStopsOnCancel(t *testing.T) {
	oldM := obs.MetricsImpl
	t.Cleanup(func() { obs.SetMetrics(oldM) })

	logger, _ := test.NewNullLogger()
	cfg := config.Default()
	cfg.Token = "tok"
	cfg.Transport = config.TransportHTTP
	cfg.HTTP.Addr = "127.0.0.1:0"

	a, err := newApp(&cfg, logger)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.serve(ctx); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if _, ok := obs.MetricsImpl.(*obs.DefaultMetrics); ok || a.metrics == nil {
		t.Fatalf("http transport should export prometheus metrics")
	}
}
