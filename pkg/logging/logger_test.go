package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// lastRecord decodes the final JSON line written to buf.
func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) == 0 || lines[0] == "" {
		t.Fatal("no log output")
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &record); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	return record
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"debug", "DEBUG", slog.LevelDebug},
		{"lowercase", "debug", slog.LevelDebug},
		{"warn", "WARN", slog.LevelWarn},
		{"warning alias", "warning", slog.LevelWarn},
		{"error", "ERROR", slog.LevelError},
		{"padded", "  info  ", slog.LevelInfo},
		{"unset defaults to info", "", slog.LevelInfo},
		{"garbage defaults to info", "verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLogger_InfoRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf)

	logger.Info(context.Background(), "Client connected",
		"client_id", "pilot-1",
		"controller", true,
	)

	record := lastRecord(t, &buf)
	if record["msg"] != "Client connected" {
		t.Errorf("msg = %v, want Client connected", record["msg"])
	}
	if record["client_id"] != "pilot-1" {
		t.Errorf("client_id = %v, want pilot-1", record["client_id"])
	}
	if record["controller"] != true {
		t.Errorf("controller = %v, want true", record["controller"])
	}
}

func TestLogger_ErrorAttachesCause(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf)

	logger.Error(context.Background(), "Failed to launch aircraft",
		errors.New("deck at capacity"),
		"airborne", 3,
		"cooling", 2,
	)

	record := lastRecord(t, &buf)
	if record["error"] != "deck at capacity" {
		t.Errorf("error = %v, want deck at capacity", record["error"])
	}
	if record["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", record["level"])
	}
}

func TestLogger_ErrorNilCauseOmitsAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf)

	logger.Error(context.Background(), "Server address not configured", nil)

	record := lastRecord(t, &buf)
	if _, present := record["error"]; present {
		t.Error("nil cause should not produce an error attribute")
	}
}

func TestLogger_DebugSuppressedAtDefaultLevel(t *testing.T) {
	t.Setenv("CARRIER_LOG_LEVEL", "")

	var buf bytes.Buffer
	logger := newLogger(&buf)

	logger.Debug(context.Background(), "State broadcast", "tick", 42)

	if buf.Len() != 0 {
		t.Errorf("debug record emitted at default level: %s", buf.String())
	}
}

func TestLogger_DebugEnabledByEnv(t *testing.T) {
	t.Setenv("CARRIER_LOG_LEVEL", "DEBUG")

	var buf bytes.Buffer
	logger := newLogger(&buf)

	logger.Debug(context.Background(), "State broadcast", "tick", 42)

	record := lastRecord(t, &buf)
	if record["msg"] != "State broadcast" {
		t.Errorf("msg = %v, want State broadcast", record["msg"])
	}
}

func TestLogger_WithStampsEveryRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf).With("component", "uplink")

	logger.Warn(context.Background(), "Reconnect attempt failed", "attempt", 2)

	record := lastRecord(t, &buf)
	if record["component"] != "uplink" {
		t.Errorf("component = %v, want uplink", record["component"])
	}
	if record["attempt"] != float64(2) {
		t.Errorf("attempt = %v, want 2", record["attempt"])
	}
}

func TestRedactSensitive(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		redacted bool
	}{
		{"password masked", "password", "hunter2", true},
		{"embedded token masked", "session_token", "abc123", true},
		{"auth header masked", "authorization", "Bearer xyz", true},
		{"plain attribute passes", "player_name", "Maverick", false},
		{"address passes", "server_address", "localhost:4566", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf)

			logger.Info(context.Background(), "attribute check", tt.key, tt.value)

			record := lastRecord(t, &buf)
			got := record[tt.key]
			if tt.redacted && got != "[REDACTED]" {
				t.Errorf("%s = %v, want [REDACTED]", tt.key, got)
			}
			if !tt.redacted && got != tt.value {
				t.Errorf("%s = %v, want %v", tt.key, got, tt.value)
			}
		})
	}
}
