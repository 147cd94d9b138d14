package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/calclab/internal/config"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := LevelFromString(tt.in); got != tt.want {
			t.Errorf("LevelFromString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "warn"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "expr", "x^2")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "expr=x^2") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestNew_JSONWithSource(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "debug", JSON: true, IncludeSrc: true}, &buf)
	logger.Debug("sampled", "n", 5)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not JSON: %v: %q", err, buf.String())
	}
	if rec["msg"] != "sampled" {
		t.Errorf("unexpected msg %v", rec["msg"])
	}
	src, ok := rec["source"].(map[string]any)
	if !ok {
		t.Fatalf("missing source: %v", rec)
	}
	if file, _ := src["file"].(string); file != "logging_test.go" {
		t.Errorf("source file should be trimmed to base name, got %q", file)
	}
}

func TestNew_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calclab.log")
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "info", ToFile: true, Filename: path, MaxSize: 1}, &buf)
	logger.Info("to both")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "to both") || !strings.Contains(buf.String(), "to both") {
		t.Errorf("record should reach file and writer")
	}
}
