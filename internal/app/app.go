// Package app wires the kernel together. An Application owns every
// process-wide collaborator; nothing else holds global kernel state.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Aptivi/NitrocidKS-sub040/internal/addon"
	"github.com/Aptivi/NitrocidKS-sub040/internal/boot"
	"github.com/Aptivi/NitrocidKS-sub040/internal/builtins"
	"github.com/Aptivi/NitrocidKS-sub040/internal/config"
	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
	"github.com/Aptivi/NitrocidKS-sub040/internal/paths"
	"github.com/Aptivi/NitrocidKS-sub040/internal/shell"
	"github.com/Aptivi/NitrocidKS-sub040/internal/shells/httpshell"
	"github.com/Aptivi/NitrocidKS-sub040/internal/shells/sqlshell"
	"github.com/Aptivi/NitrocidKS-sub040/internal/store"
	"github.com/Aptivi/NitrocidKS-sub040/internal/uesh"
	"github.com/Aptivi/NitrocidKS-sub040/internal/ui"
	"github.com/Aptivi/NitrocidKS-sub040/internal/ui/style"
)

// Options configures New.
type Options struct {
	Version string
	Boot    boot.Options

	// Console streams. Nil selects the process streams.
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
	// Interactive selects rich output and full-screen views.
	Interactive bool

	// Config defaults to the rc file provider.
	Config domain.ConfigProvider
	// HistoryPath defaults to paths.HistoryDBPath().
	HistoryPath string
	// LogPath defaults to paths.LogFilePath().
	LogPath string
}

// Application is the kernel context: configuration, logging, the shell
// stack and everything registered on it.
type Application struct {
	Version string
	Boot    boot.Options

	Config  domain.ConfigProvider
	Logger  domain.Logger
	Output  *ui.Writer
	Styler  domain.Styler
	History domain.HistoryStore

	Executor *dispatchers.Executor
	Stack    *shell.Stack
	Interp   *uesh.Interpreter
	// Loader is nil in safe mode.
	Loader   *addon.Loader
	AddonDir string

	errOut io.Writer
}

// New builds an Application. Close releases what it opened.
func New(opts Options) (*Application, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	if opts.Config == nil {
		opts.Config = config.NewProvider()
	}

	a := &Application{
		Version: opts.Version,
		Boot:    opts.Boot,
		Config:  opts.Config,
		errOut:  opts.ErrOut,
	}
	cfg := settings{opts.Config}

	a.Logger = newLogger(opts, cfg)

	styleCfg, _ := opts.Config.GetAll()
	styled := opts.Interactive && !opts.Boot.NoColor
	style.Init(styled, styleCfg)
	if styled {
		a.Styler = style.NewStyler()
	} else {
		a.Styler = style.NopStyler{}
	}

	a.Output = ui.NewWriterTo(opts.Out,
		ui.WithConfigGetter(opts.Config.Get),
		ui.WithQuiet(opts.Boot.Quiet),
	)

	if cfg.getBool("history_enabled", true) {
		path := opts.HistoryPath
		if path == "" {
			path = paths.HistoryDBPath()
		}
		s, err := store.New(path)
		if err != nil {
			_ = a.Logger.Close()
			return nil, fmt.Errorf("open history: %w", err)
		}
		a.History = s
	}

	a.Executor = dispatchers.NewExecutor(dispatchers.NewRegistry(),
		dispatchers.WithParser(dispatchers.NewParser(cfg.getString("switch_prefix", dispatchers.DefaultSwitchPrefix))),
		dispatchers.WithPager(a.Output.Pager),
	)

	stackOpts := []shell.Option{
		shell.WithIO(opts.In, opts.Out, opts.ErrOut, opts.Interactive),
		shell.WithTerminalInput(opts.In),
		shell.WithStyler(a.Styler),
		shell.WithDefaultPreset(func() string { return cfg.getString("prompt_preset", shell.DefaultPreset) }),
	}
	if a.History != nil {
		stackOpts = append(stackOpts, shell.WithHistory(a.History, cfg.getInt("history_limit", 1000)))
	}
	a.Stack = shell.NewStack(a.Executor, stackOpts...)

	a.Interp = uesh.New(uesh.NewConditions(),
		uesh.WithMaxIterations(cfg.getInt("script_max_iterations", uesh.DefaultMaxIterations)))

	a.AddonDir = cfg.getString("addon_dir", paths.AddonDir())
	if !opts.Boot.Safe {
		a.Loader = addon.NewLoader(a.Executor, a.Interp)
	}

	if err := a.registerShells(); err != nil {
		_ = a.Close()
		return nil, err
	}

	log.Info("app: kernel %s ready (safe=%t)", a.Version, opts.Boot.Safe)
	return a, nil
}

func newLogger(opts Options, cfg settings) domain.Logger {
	if !cfg.getBool("enable_log", true) {
		log.SetDefault(nil)
		return log.NopLogger{}
	}

	level := log.ParseLevel(cfg.getString("log_level", "info"))
	if opts.Boot.Debug {
		level = log.LevelDebug
	}

	path := opts.LogPath
	if path == "" {
		path = paths.LogFilePath()
	}
	l, err := log.New(path, level)
	if err != nil {
		fmt.Fprintf(opts.ErrOut, "log disabled: %v\n", err)
		log.SetDefault(nil)
		return log.NopLogger{}
	}
	log.SetDefault(l)
	return l
}

func (a *Application) registerShells() error {
	cmds := builtins.Commands(builtins.Deps{
		Stack:    a.Stack,
		Interp:   a.Interp,
		Config:   a.Config,
		Styler:   a.Styler,
		Version:  a.Version,
		History:  a.History,
		Loader:   a.Loader,
		AddonDir: func() string { return a.AddonDir },
	})
	cmds = append(cmds, sqlshell.Command(), httpshell.Command())

	types := []shell.Type{
		{Mode: shell.MainMode, Summary: "Kernel shell", Commands: cmds},
		sqlshell.Type(a.Styler),
		httpshell.Type(a.Styler, nil),
	}
	for _, t := range types {
		if err := a.Stack.RegisterType(t); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the history store and the log file.
func (a *Application) Close() error {
	var errs []error
	if a.History != nil {
		errs = append(errs, a.History.Close())
	}
	if a.Logger != nil {
		log.SetDefault(nil)
		errs = append(errs, a.Logger.Close())
	}
	return errors.Join(errs...)
}

// settings reads typed values from a config provider.
type settings struct {
	p domain.ConfigProvider
}

func (s settings) getString(key, def string) string {
	if v, ok := s.p.Get(key); ok && v != "" {
		return v
	}
	return def
}

func (s settings) getBool(key string, def bool) bool {
	v, _ := s.p.Get(key)
	return config.Bool(v, def)
}

func (s settings) getInt(key string, def int) int {
	v, _ := s.p.Get(key)
	return config.Int(v, def)
}
