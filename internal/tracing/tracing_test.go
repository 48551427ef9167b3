package tracing

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewProviderDisabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.IsEnabled() {
		t.Error("disabled provider should report not enabled")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("no-op shutdown should not error: %v", err)
	}
	if p.Tracer("test") == nil {
		t.Error("disabled provider should still hand out a tracer")
	}
}

func TestNewProviderValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing service name", Config{Enabled: true, SamplingRate: 0.5}},
		{"sampling above one", Config{Enabled: true, ServiceName: "svc", SamplingRate: 1.5}},
		{"sampling negative", Config{Enabled: true, ServiceName: "svc", SamplingRate: -0.5}},
		{"unknown exporter", Config{Enabled: true, ServiceName: "svc", ExporterType: "jaeger"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProvider(context.Background(), tt.cfg); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSamplerFor(t *testing.T) {
	if got := samplerFor(1.0); got.Description() != sdktrace.AlwaysSample().Description() {
		t.Errorf("samplerFor(1.0) = %s", got.Description())
	}
	if got := samplerFor(0.0); got.Description() != sdktrace.NeverSample().Description() {
		t.Errorf("samplerFor(0.0) = %s", got.Description())
	}
	if got := samplerFor(0.25); got.Description() != sdktrace.TraceIDRatioBased(0.25).Description() {
		t.Errorf("samplerFor(0.25) = %s", got.Description())
	}
}
