package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestVerboseGating(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetVerbose(false)

	SetVerbose(false)
	Debug("hidden %d", 1)
	Info("hidden")
	Warn("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output when verbose is off, got %q", buf.String())
	}

	SetVerbose(true)
	Debug("shown %d", 2)
	Info("also shown")
	Section("Pipeline")

	out := buf.String()
	if !strings.Contains(out, "[DEBUG] shown 2") {
		t.Errorf("missing debug line in %q", out)
	}
	if !strings.Contains(out, "[INFO] also shown") {
		t.Errorf("missing info line in %q", out)
	}
	if !strings.Contains(out, "=== Pipeline ===") {
		t.Errorf("missing section header in %q", out)
	}
}

func TestErrorAlwaysPrints(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(false)
	Error("boom: %v", "cause")

	if !strings.Contains(buf.String(), "[ERROR] boom: cause") {
		t.Errorf("expected error output, got %q", buf.String())
	}
}

func TestIsVerbose(t *testing.T) {
	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose")
	}
	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected not verbose")
	}
}
