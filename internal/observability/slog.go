// Package observability provides logging initialization.
package observability

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/stolasapp/rodtl/internal/config"
)

// InitSlog initializes a logger writing to stderr. When running in a
// terminal, it uses a human-readable text format; otherwise it uses JSON for
// structured logging.
func InitSlog(cfg config.Log) *slog.Logger {
	return NewLogger(os.Stderr, term.IsTerminal(int(os.Stdin.Fd())), cfg)
}

// NewLogger builds the logger InitSlog returns, writing to w.
func NewLogger(w io.Writer, text bool, cfg config.Log) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: cfg.Dev,
		Level:     cfg.Level,
	}
	var handler slog.Handler
	if text {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}
