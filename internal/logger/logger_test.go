package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false, "json")

	l.Info("feed fetched", "source", "BBC World")

	var rec map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if rec["source"] != "BBC World" {
		t.Errorf("Expected source attribute, got %v", rec["source"])
	}
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer

	New(&buf, false, "text").Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected debug to be filtered, got %q", buf.String())
	}

	New(&buf, true, "text").Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("Expected debug line, got %q", buf.String())
	}
}
