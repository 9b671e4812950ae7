package testutil

import (
	"io"
	"log/slog"
)

// DiscardLogger returns a logger that drops everything, for handlers under
// test that require one.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
