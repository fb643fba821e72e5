package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/idilsaglam/todo/internal/ui"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODO_MODE"); v != "" {
		cfg.Mode = Mode(v)
	}
	// CONSOLE_MODE is the historical switch for the terminal client.
	if v := os.Getenv("CONSOLE_MODE"); v != "" {
		if on, err := strconv.ParseBool(v); err != nil || on {
			cfg.Mode = ModeConsole
		}
	}
	if v := os.Getenv("TODO_ADDR"); v != "" {
		cfg.Addr = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("TODO_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TODO_STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv("TODO_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.Color = ui.ColorNever
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
