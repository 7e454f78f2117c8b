package trace

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestInfoLineHasNoDecoration(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)

	logger.Info("Invalid address 0x80000004")

	if got, want := buf.String(), "Invalid address 0x80000004\n"; got != want {
		t.Fatalf("expected %q; got %q", want, got)
	}
}

func TestDebugLineSuppressedWithoutDebugFlag(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)

	logger.Debug("PGZERO: 0x80000000")

	if got := buf.String(); got != "" {
		t.Fatalf("expected debug line to be suppressed; got %q", got)
	}
}

func TestDebugLinePrintsWithDebugFlag(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	logger.Debug("PGZERO: 0x80000000")

	if got, want := buf.String(), "PGZERO: 0x80000000\n"; got != want {
		t.Fatalf("expected %q; got %q", want, got)
	}
}

func TestInfoLineAlwaysPrintsRegardlessOfDebugFlag(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)

	logger.Info("ZOMBIE 0")

	if got, want := buf.String(), "ZOMBIE 0\n"; got != want {
		t.Fatalf("expected %q; got %q", want, got)
	}
}

func TestHandlerImplementsSlogHandler(t *testing.T) {
	var _ slog.Handler = NewLineHandler(&bytes.Buffer{}, false)
}
