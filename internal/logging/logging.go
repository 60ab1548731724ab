package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/golang-cz/devslog"
)

// New returns a logger writing to stderr. Pretty selects the colored
// developer handler.
func New(debug, pretty bool) *slog.Logger {
	return NewTo(os.Stderr, debug, pretty)
}

func NewTo(w io.Writer, debug, pretty bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	if pretty {
		return slog.New(devslog.NewHandler(w, &devslog.Options{HandlerOptions: opts}))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
