package platform

import (
	"io"
	"log/slog"
	"testing"

	"github.com/merchware/creditledger/internal/config"
)

func TestNewClientUsesConfig(t *testing.T) {
	cfg := &config.Config{PlatformAddress: "http://example.com"}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	client, err := newClient(clientParams{Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := client.(*HTTPClient); !ok {
		t.Fatalf("expected HTTP client, got %T", client)
	}
}

func TestNewClientWithoutAddressIsNoop(t *testing.T) {
	client, err := newClient(clientParams{Config: &config.Config{}, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := client.(NoopClient); !ok {
		t.Fatalf("expected noop client, got %T", client)
	}
}
