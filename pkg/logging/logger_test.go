package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONLoggerWritesStructuredEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("analysis complete", String("run_id", "r1"), Int("nodes", 42))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Log entry is not valid JSON: %v", err)
	}
	if entry.Level != "INFO" || entry.Message != "analysis complete" {
		t.Errorf("Unexpected entry: %+v", entry)
	}
	if entry.Fields["run_id"] != "r1" {
		t.Errorf("Field run_id lost: %v", entry.Fields)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("visible")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "visible") {
		t.Errorf("Expected only the warning, got %q", buf.String())
	}
}

func TestWithPresetsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	child := logger.With(String("stage", "interval"))

	child.Info("converged")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Log entry is not valid JSON: %v", err)
	}
	if entry.Fields["stage"] != "interval" {
		t.Errorf("Preset field lost: %v", entry.Fields)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != DebugLevel || ParseLevel("ERROR") != ErrorLevel {
		t.Error("ParseLevel mapping broken")
	}
	if ParseLevel("nonsense") != InfoLevel {
		t.Error("Unknown level must default to info")
	}
}

func TestErrorField(t *testing.T) {
	f := Error(nil)
	if f.Key != "error" || f.Value != nil {
		t.Errorf("Error(nil) = %+v", f)
	}
}
