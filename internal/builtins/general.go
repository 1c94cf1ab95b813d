package builtins

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/usage"
)

// maxSleepMillis is the longest sleep a time.Duration can hold.
const maxSleepMillis = float64(math.MaxInt64 / int64(time.Millisecond))

func generalCommands(d Deps) []*dispatchers.CommandDescriptor {
	return []*dispatchers.CommandDescriptor{
		dispatchers.Command(dispatchers.CommandSpec{
			Name:         "echo",
			Summary:      "Prints its arguments",
			Category:     dispatchers.CategoryGeneral,
			Redirectable: true,
			Action:       echo,
		}),
		dispatchers.Command(dispatchers.CommandSpec{
			Name:     "version",
			Summary:  "Shows the kernel version",
			Category: dispatchers.CategoryGeneral,
			Strict:   true,
			Action: func(_ context.Context, inv *dispatchers.Invocation) (int, error) {
				fmt.Fprintf(inv.Stdout, "Nitrocid KS %s (%s %s/%s)\n", d.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
				return dispatchers.CodeSuccess, nil
			},
		}),
		dispatchers.Command(dispatchers.CommandSpec{
			Name:     "sleep",
			Summary:  "Waits for a number of milliseconds",
			Category: dispatchers.CategoryGeneral,
			Args:     []dispatchers.ArgumentPart{dispatchers.Numeric("ms", "Milliseconds to wait")},
			Strict:   true,
			Action: func(ctx context.Context, inv *dispatchers.Invocation) (int, error) {
				ms, err := strconv.ParseFloat(inv.Arg(0), 64)
				if err != nil || !(ms >= 0 && ms <= maxSleepMillis) {
					return dispatchers.CodeUsage, usage.ArgumentMismatch("sleep",
						fmt.Sprintf("invalid duration %q, expected 0 to %d milliseconds", inv.Arg(0), int64(maxSleepMillis)))
				}
				if err := d.Sleep(ctx, time.Duration(ms*float64(time.Millisecond))); err != nil {
					return dispatchers.CodeInterrupted, err
				}
				return dispatchers.CodeSuccess, nil
			},
		}),
	}
}

// echo prints the words after the command name, switch-like words included.
func echo(_ context.Context, inv *dispatchers.Invocation) (int, error) {
	words, err := dispatchers.Split(inv.Parsed.Raw)
	if err != nil {
		return dispatchers.CodeUsage, err
	}
	fmt.Fprintln(inv.Stdout, strings.Join(words, " "))
	return dispatchers.CodeSuccess, nil
}
