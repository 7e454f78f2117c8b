// Package trace implements the simulator's stable, line-based event
// stream: "Invalid address 0x...", "Mapping already registered for
// 0x....", "ZOMBIE <pid>", and the debug-gated "PGZERO: 0x..." /
// "PGCOPY: 0x...".
//
// A debug flag gates Debug-level records while everything above Debug
// always prints. LineHandler drops the timestamp/level prefix and
// key=value attribute rendering in favor of exact, undecorated trace
// lines.
package trace

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// LineHandler is a slog.Handler that writes one undecorated line per
// record. Records at slog.LevelDebug are dropped unless debug is true;
// every other level always prints.
type LineHandler struct {
	out   io.Writer
	mu    *sync.Mutex
	debug bool
	attrs []slog.Attr
}

// NewLineHandler constructs a LineHandler writing to out.
func NewLineHandler(out io.Writer, debug bool) *LineHandler {
	return &LineHandler{
		out:   out,
		mu:    &sync.Mutex{},
		debug: debug,
	}
}

// NewLogger is a convenience wrapper building a *slog.Logger over a fresh
// LineHandler.
func NewLogger(out io.Writer, debug bool) *slog.Logger {
	return slog.New(NewLineHandler(out, debug))
}

func (h *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level <= slog.LevelDebug {
		return h.debug
	}
	return true
}

func (h *LineHandler) Handle(_ context.Context, r slog.Record) error {
	strs := make([]string, 0, 1+r.NumAttrs()+len(h.attrs))
	strs = append(strs, r.Message)

	for _, a := range h.attrs {
		strs = append(strs, a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		strs = append(strs, a.Value.String())
		return true
	})

	line := strings.Join(strs, " ") + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write([]byte(line))
	return err
}

func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &LineHandler{out: h.out, mu: h.mu, debug: h.debug, attrs: merged}
}

func (h *LineHandler) WithGroup(_ string) slog.Handler {
	return h
}
