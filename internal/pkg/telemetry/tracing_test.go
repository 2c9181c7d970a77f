package telemetry_test

import (
	"context"
	"testing"

	"github.com/samirrijal/polymap/internal/pkg/telemetry"
)

func TestInitTracer_NoEndpoint(t *testing.T) {
	shutdown, err := telemetry.InitTracer(context.Background(), "api", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := telemetry.Shutdown(shutdown); err != nil {
		t.Errorf("noop shutdown failed: %v", err)
	}

	_, span := telemetry.Tracer().Start(context.Background(), telemetry.SpanEditorSave)
	if span.SpanContext().IsValid() {
		t.Error("expected a no-op span without a provider")
	}
	span.End()
}
