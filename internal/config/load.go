package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/idilsaglam/todo/internal/ui"
)

// Load resolves the configuration:
// 1. Defaults
// 2. Config file (--config, TODO_CONFIG, or todo.toml in the working dir)
// 3. Environment variables
// 4. CLI flags
//
// Flags are registered on fsys and parsed from args; the caller reads the
// remaining positional arguments from fsys.Args().
func Load(fsys *flag.FlagSet, args []string) (*Config, error) {
	if fsys == nil {
		fsys = flag.NewFlagSet("todo", flag.ContinueOnError)
	}
	fl := bindFlags(fsys)
	if err := fsys.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	cfg := Default()

	path, explicit := configPath(fl.config)
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		} else {
			cfg.File = path
		}
	}

	loadFromEnv(cfg)
	fl.apply(fsys, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configPath(flagValue string) (string, bool) {
	if flagValue != "" {
		return flagValue, true
	}
	if v := os.Getenv("TODO_CONFIG"); v != "" {
		return v, true
	}
	return DefaultFile, false
}

func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalidValue, strings.Join(keys, ", "))
	}
	return nil
}

// Validate normalizes and checks the resolved values.
func (c *Config) Validate() error {
	c.Mode = Mode(strings.ToLower(strings.TrimSpace(string(c.Mode))))
	if !slices.Contains(Modes, c.Mode) {
		return fmt.Errorf("%w: %q (want console, tui or web)", ErrInvalidMode, c.Mode)
	}
	c.Color = ui.ColorMode(strings.ToLower(string(c.Color)))
	switch c.Color {
	case ui.ColorAuto, ui.ColorAlways, ui.ColorNever:
	default:
		return fmt.Errorf("%w: color %q", ErrInvalidValue, c.Color)
	}
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	if !slices.Contains(ui.Themes, c.Theme) {
		return fmt.Errorf("%w: theme %q", ErrInvalidValue, c.Theme)
	}
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: empty addr", ErrInvalidValue)
	}
	if c.PingInterval <= 0 || c.PingTimeout <= 0 {
		return fmt.Errorf("%w: ping durations must be positive", ErrInvalidValue)
	}
	return nil
}
