package testutil

import "log/slog"

// DiscardLogger returns a slog.Logger that discards all output. Use it in
// tests to reduce noise; prefer log.NewNop when working with the
// internal/log package directly.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
