// Package config resolves runtime settings from defaults, a TOML file, the
// environment and command line flags, in that order of precedence.
package config

import (
	"errors"
	"time"

	"github.com/idilsaglam/todo/internal/ui"
)

var (
	ErrInvalidMode  = errors.New("invalid mode")
	ErrInvalidValue = errors.New("invalid value")
)

// Mode selects the delivery channel.
type Mode string

const (
	ModeConsole Mode = "console"
	ModeTUI     Mode = "tui"
	ModeWeb     Mode = "web"
)

// Modes lists every accepted mode.
var Modes = []Mode{ModeConsole, ModeTUI, ModeWeb}

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "todo.toml"

type Config struct {
	Mode           Mode          `toml:"mode"`
	Addr           string        `toml:"addr"`
	Theme          string        `toml:"theme"`
	Color          ui.ColorMode  `toml:"color"`
	LogLevel       string        `toml:"log_level"`
	LogFormat      string        `toml:"log_format"`
	StaticDir      string        `toml:"static_dir"`
	AllowedOrigins []string      `toml:"allowed_origins"`
	PingInterval   time.Duration `toml:"ping_interval"`
	PingTimeout    time.Duration `toml:"ping_timeout"`

	// File is the config file that was read, empty when none was.
	File string `toml:"-"`
}

func setDefaults(cfg *Config) {
	cfg.Mode = ModeWeb
	cfg.Addr = ":3000"
	cfg.Theme = "classic"
	cfg.Color = ui.ColorAuto
	cfg.LogLevel = "info"
	cfg.LogFormat = "text"
	cfg.AllowedOrigins = []string{"*"}
	cfg.PingInterval = 25 * time.Second
	cfg.PingTimeout = 20 * time.Second
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}
