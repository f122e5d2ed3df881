package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics defines the interface for collecting tool and API metrics
type Metrics interface {
	// IncrementRequests counts one tool invocation
	IncrementRequests(labels map[string]string)

	// RecordLatency records tool execution latency
	RecordLatency(duration time.Duration, labels map[string]string)

	// RecordError increments the error counter for errorType
	RecordError(errorType string, labels map[string]string)

	// RecordAPIRequest records one round trip to the remote API. status is 0
	// when no response was received.
	RecordAPIRequest(method string, status int, duration time.Duration)
}

// NoOpMetrics is a no-operation implementation of Metrics
type NoOpMetrics struct{}

// IncrementRequests implements Metrics interface
func (n *NoOpMetrics) IncrementRequests(labels map[string]string) {}

// RecordLatency implements Metrics interface
func (n *NoOpMetrics) RecordLatency(duration time.Duration, labels map[string]string) {}

// RecordError implements Metrics interface
func (n *NoOpMetrics) RecordError(errorType string, labels map[string]string) {}

// RecordAPIRequest implements Metrics interface
func (n *NoOpMetrics) RecordAPIRequest(method string, status int, duration time.Duration) {}

// DefaultMetrics is a simple in-memory metrics collector
type DefaultMetrics struct {
	mu           sync.Mutex
	requests     map[string]int64
	totalLatency time.Duration
	errors       map[string]int64
	apiRequests  map[string]int64
}

// NewDefaultMetrics creates a new DefaultMetrics instance
func NewDefaultMetrics() *DefaultMetrics {
	return &DefaultMetrics{
		requests:    make(map[string]int64),
		errors:      make(map[string]int64),
		apiRequests: make(map[string]int64),
	}
}

// IncrementRequests implements Metrics interface
func (m *DefaultMetrics) IncrementRequests(labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[labels[LabelTool]]++
}

// RecordLatency implements Metrics interface
func (m *DefaultMetrics) RecordLatency(duration time.Duration, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalLatency += duration
}

// RecordError implements Metrics interface
func (m *DefaultMetrics) RecordError(errorType string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[errorType]++
}

// RecordAPIRequest implements Metrics interface
func (m *DefaultMetrics) RecordAPIRequest(method string, status int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiRequests[method+" "+strconv.Itoa(status)]++
}

// GetStats returns current statistics
func (m *DefaultMetrics) GetStats() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]interface{}{
		"requests":      copyCounts(m.requests),
		"total_latency": m.totalLatency.String(),
		"errors":        copyCounts(m.errors),
		"api_requests":  copyCounts(m.apiRequests),
	}
}

func copyCounts(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Label keys shared by metrics implementations
const (
	LabelTool    = "tool"
	LabelOutcome = "outcome"
)

// Ensure implementations satisfy the interface
var _ Metrics = (*NoOpMetrics)(nil)
var _ Metrics = (*DefaultMetrics)(nil)
