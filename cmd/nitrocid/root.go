package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Aptivi/NitrocidKS-sub040/internal/app"
	kboot "github.com/Aptivi/NitrocidKS-sub040/internal/boot"
)

// bootFunc starts the kernel with parsed boot arguments.
type bootFunc func(ctx context.Context, opts kboot.Options) error

func newRootCmd(start bootFunc) *cobra.Command {
	var showArgs bool

	cmd := &cobra.Command{
		Use:   "nitrocid [boot arguments...] [-- script arguments...]",
		Short: "Nitrocid KS, a simulated kernel shell",
		Long: `Nitrocid KS boots into the UESH shell.

Boot arguments are plain words and may be joined with commas:
  nitrocid debug,safe
  nitrocid cmdinject "echo hello;version"
  nitrocid script=boot.uesh -- first second`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showArgs {
				fmt.Fprint(cmd.OutOrStdout(), kboot.Usage())
				return nil
			}
			opts, err := kboot.Parse(bootArgv(args, cmd.ArgsLenAtDash()))
			if err != nil {
				return err
			}
			return start(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&showArgs, "boot-args", false, "list the boot arguments and exit")
	return cmd
}

// bootArgv restores the "--" separator that flag parsing removed.
func bootArgv(args []string, dash int) []string {
	if dash < 0 {
		return args
	}
	argv := append([]string(nil), args[:dash]...)
	argv = append(argv, "--")
	return append(argv, args[dash:]...)
}

func boot(ctx context.Context, opts kboot.Options) error {
	interactive := opts.Interactive() &&
		term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))

	a, err := app.New(app.Options{
		Version:     Version,
		Boot:        opts,
		Interactive: interactive,
	})
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigs:
				// Ctrl-C stops the running command; at an idle prompt it only
				// ends non-interactive runs.
				if sig == os.Interrupt && (a.Stack.Interrupt() || interactive) {
					continue
				}
				cancel()
				return
			}
		}
	}()

	return a.Run(ctx)
}
