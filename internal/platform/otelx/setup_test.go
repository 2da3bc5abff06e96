package otelx

import (
	"context"
	"testing"

	"vet-booking/internal/config"
)

func TestSetup_DisabledIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	got := FromConfig(config.Config{
		AppName:         "vet-booking",
		OtelEnabled:     true,
		OtelEndpoint:    "jaeger:4317",
		OtelSampleRatio: 0.5,
	})
	want := Config{Enabled: true, ServiceName: "vet-booking", OTLPEndpoint: "jaeger:4317", SampleRatio: 0.5}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}
