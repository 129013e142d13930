package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "info", Format: "json", Out: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	log.Debug().Msg("hidden")
	log.Info().Str("file", "photo.jpg").Msg("moved")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if entry["message"] != "moved" || entry["file"] != "photo.jpg" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatal("expected timestamp field")
	}
}

func TestNewConsoleWithoutColour(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "debug", Format: "console", Out: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	log.Debug().Str("date", "2023-05-14").Msg("resolved")

	out := buf.String()
	if !strings.Contains(out, "resolved") || !strings.Contains(out, "date=2023-05-14") {
		t.Fatalf("unexpected console output %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("non-terminal output should not be colourised: %q", out)
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
