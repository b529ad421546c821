package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/yanqian/fitness-wizard/internal/infra/config"
)

// New constructs the JSON slog logger shared by every component.
func New(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.App.LogLevel)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", cfg.App.Name, "env", cfg.App.Env)
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
