package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Debugf("hidden %d", 1)
	l.Infof("hidden too")
	l.Warnf("shown %s", "warning")
	l.Errorf("shown error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below warn leaked: %q", out)
	}
	if !strings.Contains(out, "shown warning") || !strings.Contains(out, "shown error") {
		t.Errorf("warn/error messages missing: %q", out)
	}
}

func TestInvalidLevelDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "loud")

	l.Infof("info message")
	if buf.Len() != 0 {
		t.Errorf("invalid level should default to warn, got %q", buf.String())
	}
	l.Warnf("warn message")
	if buf.Len() == 0 {
		t.Error("warn message should be emitted")
	}
}

func TestNilWriterDiscards(t *testing.T) {
	l := New(nil, "trace")
	// Must not panic.
	l.Errorf("goes nowhere")
}

func TestTimestampPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug")
	l.Debugf("msg")

	line := buf.String()
	if len(line) < 11 || line[0] != '[' || line[9] != ']' {
		t.Errorf("expected [HH:MM:SS] prefix, got %q", line)
	}
	if !strings.Contains(line, "[DEBUG]") {
		t.Errorf("expected level tag, got %q", line)
	}
}
