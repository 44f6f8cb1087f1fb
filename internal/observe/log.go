package observe

import (
	"log/slog"
	"os"
	"strings"
)

var base = newLogger()

func newLogger() *slog.Logger {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: levelFromEnv(os.Getenv("LOG_LEVEL")),
	})
	return slog.New(h).With(
		slog.String("service", "irc-message-relay"),
		slog.String("env", os.Getenv("APP_ENV")),
	)
}

func levelFromEnv(v string) slog.Level {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func L() *slog.Logger { return base }

func C(component string) *slog.Logger {
	return base.With(slog.String("component", component))
}
