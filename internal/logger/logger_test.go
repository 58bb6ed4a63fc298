package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "JSON", slog.LevelInfo)
	l.Info("entry logged", "habit_id", "h1")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected json output, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "entry logged" || rec["habit_id"] != "h1" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "text", slog.LevelWarn)
	l.Info("quiet")
	l.Warn("streak at risk", "habit_id", "h1")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "msg=\"streak at risk\"") || !strings.Contains(out, "habit_id=h1") {
		t.Fatalf("unexpected text output %q", out)
	}
}

func TestGet_DefaultsWhenUnset(t *testing.T) {
	defaultLogger = nil
	if Get() == nil {
		t.Fatal("expected a default logger")
	}
}
