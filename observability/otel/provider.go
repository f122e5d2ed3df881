package otel

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NewProvider builds an SDK tracer provider tagged with serviceName that
// hands every finished span to exporter.
func NewProvider(serviceName string, exporter sdktrace.SpanExporter) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
	)
}

// LogExporter writes finished spans to a logrus logger at debug level.
type LogExporter struct {
	log *logrus.Logger
}

func NewLogExporter(log *logrus.Logger) *LogExporter {
	return &LogExporter{log: log}
}

func (e *LogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		fields := logrus.Fields{
			"span":        s.Name(),
			"trace_id":    s.SpanContext().TraceID().String(),
			"span_id":     s.SpanContext().SpanID().String(),
			"duration":    s.EndTime().Sub(s.StartTime()),
			"status_code": s.Status().Code.String(),
		}
		if s.Parent().IsValid() {
			fields["parent_span_id"] = s.Parent().SpanID().String()
		}
		for _, kv := range s.Attributes() {
			fields[string(kv.Key)] = kv.Value.AsInterface()
		}
		e.log.WithFields(fields).Debug("span")
	}
	return nil
}

func (e *LogExporter) Shutdown(ctx context.Context) error { return nil }

var _ sdktrace.SpanExporter = (*LogExporter)(nil)
