package prom

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KamdynS/go-miro-mcp/observability"
)

func TestExporterMetricsAndHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := New(reg)

	labels := map[string]string{observability.LabelTool: "create_shape", observability.LabelOutcome: "validation"}
	e.IncrementRequests(labels)
	e.RecordLatency(3*time.Millisecond, labels)
	e.RecordError("validation", labels)
	e.RecordAPIRequest("POST", 201, 40*time.Millisecond)
	e.IncrementRequests(map[string]string{observability.LabelTool: "list_boards"})

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	body := rr.Body.String()
	for _, want := range []string{
		`miro_mcp_tool_calls_total{outcome="validation",tool="create_shape"} 1`,
		`miro_mcp_tool_calls_total{outcome="ok",tool="list_boards"} 1`,
		`miro_mcp_tool_errors_total{kind="validation"} 1`,
		`miro_mcp_api_requests_total{method="POST",status="201"} 1`,
		"miro_mcp_tool_latency_seconds_bucket",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics body lacks %s: %s", want, body)
		}
	}
}
