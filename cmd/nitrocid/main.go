package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

// Version is set via -ldflags.
var Version = "dev"

func main() {
	root := newRootCmd(boot)
	if err := root.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(usage.ExitCodeOf(err))
		}
	}
}
