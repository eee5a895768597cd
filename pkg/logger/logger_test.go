package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", &buf)
	log.Info("cycle completed", "cycle", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "cycle completed" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if entry["cycle"] != float64(3) {
		t.Fatalf("cycle attr = %v", entry["cycle"])
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)
	log.Info("hidden")
	log.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record emitted at warn level")
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn record missing")
	}
}

func TestNewTextEmitsKeyValues(t *testing.T) {
	var buf bytes.Buffer
	log := NewText("info", &buf)
	log.Info("sampled", "count", 2)
	if !strings.Contains(buf.String(), "count=2") {
		t.Fatalf("text output missing attribute: %s", buf.String())
	}
}
