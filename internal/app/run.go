package app

import (
	"context"
	"fmt"

	"github.com/Aptivi/NitrocidKS-sub040/internal/addon"
	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
	"github.com/Aptivi/NitrocidKS-sub040/internal/shell"
	"github.com/Aptivi/NitrocidKS-sub040/internal/uesh"
)

// Run boots the kernel. It loads addons, runs the injected commands, and then
// lints a script, runs a script, or serves the main shell until it exits.
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.loadAddons(ctx)

	sc, err := a.Stack.Open(ctx, shell.MainMode, nil)
	if err != nil {
		return err
	}
	defer a.Stack.Close(sc)

	if a.Boot.Lint != "" {
		return a.lint(sc)
	}

	for _, line := range a.Boot.Inject {
		if res := a.Stack.RunLine(ctx, sc, line); !res.OK() {
			log.Warn("app: injected command %q returned %d", line, res.Code)
		}
	}

	if a.Boot.Script != "" {
		return a.runScript(ctx, sc)
	}
	return a.Stack.Serve(ctx, sc)
}

func (a *Application) loadAddons(ctx context.Context) {
	if a.Loader == nil {
		log.Info("app: safe mode, addons not loaded")
		return
	}

	n, err := a.Loader.LoadDir(a.AddonDir)
	log.Info("app: %d addon(s) loaded from %s", n, a.AddonDir)
	if err != nil {
		fmt.Fprintln(a.errOut, a.Styler.Warning(err.Error()))
	}

	if !a.Boot.Interactive() || !(settings{a.Config}).getBool("addon_watch", false) {
		return
	}
	w, err := addon.NewWatcher(a.Loader, a.AddonDir, a.Stack.Notify)
	if err != nil {
		log.Warn("app: addon watcher disabled: %v", err)
		return
	}
	go func() {
		if err := w.Run(ctx); err != nil {
			log.Warn("app: addon watcher stopped: %v", err)
		}
	}()
}

func (a *Application) target(sc *shell.Context) uesh.ExecutorTarget {
	return uesh.ExecutorTarget{Executor: a.Executor, Shell: sc, Streams: a.Stack.Streams()}
}

func (a *Application) lint(sc *shell.Context) error {
	script, err := uesh.Load(a.Boot.Lint)
	if err != nil {
		return err
	}
	if err := a.Interp.Lint(script, a.target(sc), a.Boot.ScriptArgs); err != nil {
		return err
	}
	_, _ = a.Output.Printf("%s: %s\n", script.Name, a.Styler.Success("OK"))
	return nil
}

func (a *Application) runScript(ctx context.Context, sc *shell.Context) error {
	script, err := uesh.Load(a.Boot.Script)
	if err != nil {
		return err
	}
	return a.Interp.Run(ctx, script, a.target(sc), a.Boot.ScriptArgs)
}
