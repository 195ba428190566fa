// Package runtime holds the process-level plumbing every service binary
// needs: logger construction, health endpoints and signal handling.
package runtime

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the JSON slog logger. LOG_LEVEL=debug lowers the
// threshold; anything else stays at info.
func NewLogger(service string) *slog.Logger {
	level := slog.LevelInfo
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("service", service)
}
