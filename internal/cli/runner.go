package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/todo/internal/config"
	"github.com/idilsaglam/todo/internal/dialog"
	"github.com/idilsaglam/todo/internal/logging"
	"github.com/idilsaglam/todo/internal/server"
	"github.com/idilsaglam/todo/internal/store/memstore"
	"github.com/idilsaglam/todo/internal/strategy"
	"github.com/idilsaglam/todo/internal/ui"
)

// Options carry the resolved configuration and the process streams.
type Options struct {
	Config  *config.Config
	Version string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

func (o *Options) defaults() {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Version == "" {
		o.Version = "dev"
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
// Without a subcommand it behaves like "run".
func Run(ctx context.Context, args []string, opt Options) int {
	opt.defaults()
	cmd, a := "run", args
	if len(args) > 0 {
		cmd, a = args[0], args[1:]
	}

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0

	case "version":
		fmt.Fprintf(opt.Stdout, "todo %s\n", opt.Version)
		return 0

	case "ls":
		return doList(ctx, a, opt)

	case "run", "console", "tui", "web":
		if len(a) != 0 {
			ui.Fail(opt.Stderr, "usage: todo [flags] "+cmd)
			return 2
		}
		mode := opt.Config.Mode
		if cmd != "run" {
			mode = config.Mode(cmd)
		}
		return serve(ctx, mode, opt)
	}

	ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todo - a menu driven todo list

Usage:
  todo [flags] [subcommand]

Subcommands:
  run            Start in the configured mode (default)
  console        Plain terminal dialog on stdin/stdout
  tui            Full screen terminal dialog
  web            Serve the dialog over socket.io (topic "todo_msg")
  ls [-group]    Show the todos of a running web server
  version        Print the version

Flags:
  -config path   TOML config file (default ./todo.toml)
  -mode m        console, tui or web
  -addr a        listen address for web mode (default :3000)
  -theme t       classic, neon or mono
  -color c       auto, always or never
  -log-level l   debug, info, warn or error
  -log-format f  text, json or logfmt
  -static dir    directory served at / in web mode

Environment:
  CONSOLE_MODE, TODO_MODE, PORT, TODO_ADDR, TODO_THEME, TODO_LOG_LEVEL,
  TODO_LOG_FORMAT, TODO_STATIC_DIR, TODO_ALLOWED_ORIGINS, NO_COLOR
`)
}

// -------------- modes ----------------

func newLogger(mode config.Mode, opt Options) *log.Logger {
	cfg := opt.Config
	level := cfg.LogLevel
	// The full screen UI owns the terminal; only errors get through.
	if mode == config.ModeTUI && logging.ParseLevel(level) > log.DebugLevel {
		level = "error"
	}
	return logging.New(opt.Stderr, logging.Options{
		Level:           level,
		Format:          cfg.LogFormat,
		ReportTimestamp: mode == config.ModeWeb,
		Prefix:          "todo",
	})
}

func serve(ctx context.Context, mode config.Mode, opt Options) int {
	cfg := opt.Config
	logger := newLogger(mode, opt)
	theme := ui.LookupTheme(cfg.Theme)
	todos := memstore.New()

	var err error
	switch mode {
	case config.ModeConsole:
		err = runConsole(ctx, todos, theme, logger, opt)
	case config.ModeTUI:
		err = runTUI(ctx, todos, theme, logger, opt)
	case config.ModeWeb:
		err = runWeb(ctx, todos, theme, logger, opt)
	default:
		ui.Fail(opt.Stderr, fmt.Sprintf("unknown mode: %q", mode))
		return 2
	}
	if err != nil {
		logger.Error("exiting", "mode", mode, "err", err)
		ui.Fail(opt.Stderr, err.Error())
		return 1
	}
	return 0
}

func runConsole(ctx context.Context, todos *memstore.List, theme ui.Theme, logger *log.Logger, opt Options) error {
	term, err := strategy.NewTerminal(opt.Stdin, opt.Stdout, logger)
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}
	dialog.New(term, todos,
		dialog.WithPalette(ui.NewPalette(theme, opt.Stdout, opt.Config.Color)),
		dialog.WithLogger(logger.With("component", "dialog")),
	)
	return term.Run(ctx)
}

func runTUI(ctx context.Context, todos *memstore.List, theme ui.Theme, logger *log.Logger, opt Options) error {
	palette := ui.NewPalette(theme, opt.Stdout, opt.Config.Color)
	tui := strategy.NewTUI(palette, logger)
	dialog.New(tui, todos,
		dialog.WithPalette(palette),
		dialog.WithLogger(logger.With("component", "dialog")),
	)
	return tui.Run(ctx)
}

func runWeb(ctx context.Context, todos *memstore.List, theme ui.Theme, logger *log.Logger, opt Options) error {
	cfg := opt.Config
	// Browser terminals render ANSI whatever the server's own tty is.
	color := ui.ColorAlways
	if cfg.Color == ui.ColorNever {
		color = ui.ColorNever
	}

	web := strategy.NewWeb(logger)
	dialog.New(web, todos,
		dialog.WithPalette(ui.NewPalette(theme, io.Discard, color)),
		dialog.WithLogger(logger.With("component", "dialog")),
	)
	srv := server.New(server.Options{
		Addr:           cfg.Addr,
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.AllowedOrigins,
		PingInterval:   cfg.PingInterval,
		PingTimeout:    cfg.PingTimeout,
	}, web, todos, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return web.Run(gctx) })
	g.Go(func() error { return srv.ListenAndServe(gctx) })
	return g.Wait()
}
