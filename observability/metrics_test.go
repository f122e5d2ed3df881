package observability

import (
	"testing"
	"time"
)

func TestNoOpMetrics(t *testing.T) {
	var m Metrics = &NoOpMetrics{}
	m.IncrementRequests(nil)
	m.RecordLatency(time.Millisecond, nil)
	m.RecordError("x", nil)
	m.RecordAPIRequest("GET", 200, time.Millisecond)
}

func TestDefaultMetrics(t *testing.T) {
	m := NewDefaultMetrics()
	labels := map[string]string{LabelTool: "list_boards", LabelOutcome: "ok"}
	m.IncrementRequests(labels)
	m.IncrementRequests(labels)
	m.RecordLatency(2*time.Millisecond, labels)
	m.RecordError("validation", labels)
	m.RecordAPIRequest("POST", 201, time.Millisecond)
	m.RecordAPIRequest("GET", 0, time.Millisecond)

	s := m.GetStats()
	if s["requests"].(map[string]int64)["list_boards"] != 2 {
		t.Fatalf("requests wrong: %+v", s)
	}
	if s["errors"].(map[string]int64)["validation"] != 1 {
		t.Fatalf("errors wrong: %+v", s)
	}
	api := s["api_requests"].(map[string]int64)
	if api["POST 201"] != 1 || api["GET 0"] != 1 {
		t.Fatalf("api requests wrong: %+v", api)
	}
	if s["total_latency"].(string) != "2ms" {
		t.Fatalf("latency wrong: %+v", s)
	}
}
