package config

import (
	"flag"

	"github.com/idilsaglam/todo/internal/ui"
)

type flagValues struct {
	config    string
	mode      string
	addr      string
	theme     string
	color     string
	logLevel  string
	logFormat string
	static    string
}

func bindFlags(fs *flag.FlagSet) *flagValues {
	fl := &flagValues{}
	fs.StringVar(&fl.config, "config", "", "Path to a TOML config file (default ./"+DefaultFile+")")
	fs.StringVar(&fl.mode, "mode", "", "Delivery mode: console, tui or web")
	fs.StringVar(&fl.addr, "addr", "", "Listen address for web mode")
	fs.StringVar(&fl.theme, "theme", "", "Colour theme: classic, neon or mono")
	fs.StringVar(&fl.color, "color", "", "Colour output: auto, always or never")
	fs.StringVar(&fl.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	fs.StringVar(&fl.logFormat, "log-format", "", "Log format: text, json or logfmt")
	fs.StringVar(&fl.static, "static", "", "Directory served at / in web mode")
	return fl
}

// apply copies only the flags that were set on the command line.
func (fl *flagValues) apply(fs *flag.FlagSet, cfg *Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = Mode(fl.mode)
		case "addr":
			cfg.Addr = fl.addr
		case "theme":
			cfg.Theme = fl.theme
		case "color":
			cfg.Color = ui.ColorMode(fl.color)
		case "log-level":
			cfg.LogLevel = fl.logLevel
		case "log-format":
			cfg.LogFormat = fl.logFormat
		case "static":
			cfg.StaticDir = fl.static
		}
	})
}
