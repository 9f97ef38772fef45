package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"peticia-hq/minerva/pkg/config"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.TelemetryConfig{LogLevel: "info", LogFormat: "json"}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("plan computed", "document_type", "pareceres_natureza_cirurgia")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	if entry["document_type"] != "pareceres_natureza_cirurgia" {
		t.Errorf("entry = %v, missing field", entry)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.TelemetryConfig{LogLevel: "warn", LogFormat: "text"}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Error("info record emitted at warn level")
	}
	if !strings.Contains(out, "emitted") {
		t.Error("warn record missing")
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New(config.TelemetryConfig{LogLevel: "loud"}, nil); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(config.TelemetryConfig{LogFormat: "xml"}, nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.TelemetryConfig{LogFormat: "json"}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithDocumentType(ctx, "pareceres_natureza_cirurgia")

	FromContext(ctx, logger).Info("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	if entry["request_id"] != "req-123" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
	if entry["document_type"] != "pareceres_natureza_cirurgia" {
		t.Errorf("document_type = %v", entry["document_type"])
	}
	if GetRequestID(ctx) != "req-123" {
		t.Error("GetRequestID lost the value")
	}
}
