package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/parth238/VibraVision/internal/config"
)

func TestNew_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}, "1.2.3", "vibravision")

	logger.Info("telemetry received", "frequency", 12.5)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	for k, want := range map[string]any{"msg": "telemetry received", "app": "vibravision", "version": "1.2.3", "env": "prod"} {
		if rec[k] != want {
			t.Errorf("%s = %v, want %v", k, rec[k], want)
		}
	}
	if rec["frequency"] != 12.5 {
		t.Errorf("frequency = %v, want 12.5", rec["frequency"])
	}
}

func TestNew_DevUsesTextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, config.Config{AppEnv: "dev", LogLevel: slog.LevelInfo}, "dev", "vibravision")

	logger.Info("started")

	out := buf.String()
	if !strings.Contains(out, "started") || !strings.Contains(out, "app=vibravision") {
		t.Errorf("output = %q, want message and app attribute", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("dev output looks like JSON: %q", out)
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, config.Config{AppEnv: "prod", LogLevel: slog.LevelWarn}, "1.0.0", "vibravision")

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info log written at warn level: %q", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn log missing: %q", buf.String())
	}
}
