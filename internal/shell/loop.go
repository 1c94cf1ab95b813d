package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Aptivi/NitrocidKS-sub040/internal/dispatchers"
	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
)

// Serve runs the read-eval loop of sc until it bails, input ends, or ctx is
// cancelled. Nested pushes run inside a handler, so this loop stays
// suspended while a sub-shell is on top.
func (s *Stack) Serve(ctx context.Context, sc *Context) error {
	for {
		if sc.Bailing() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			sc.Bail()
			return err
		}

		s.promptLock.Lock()
		fmt.Fprint(s.out, s.prompt(sc))
		s.waiting = sc
		s.promptLock.Unlock()

		line, err := s.in.ReadString('\n')

		s.promptLock.Lock()
		s.waiting = nil
		s.promptLock.Unlock()

		if err != nil && !errors.Is(err, io.EOF) {
			sc.Bail()
			return fmt.Errorf("shell: read input: %w", err)
		}

		if line != "" {
			s.RunLine(ctx, sc, strings.TrimRight(line, "\r\n"))
		}

		if err != nil {
			fmt.Fprintln(s.out)
			log.Debug("shell: input closed in %s", sc.Mode())
			sc.Bail()
		}
	}
}

// RunLine executes one interactive line in sc, reports its error on the
// error stream, and records it in the history.
func (s *Stack) RunLine(ctx context.Context, sc *Context, line string) dispatchers.Result {
	if strings.TrimSpace(line) == "" {
		return dispatchers.Result{}
	}

	cmdCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	prev := s.cancel
	s.cancel = cancel
	s.mu.Unlock()

	res := s.executor.Run(cmdCtx, sc, line, s.Streams())

	s.mu.Lock()
	s.cancel = prev
	s.mu.Unlock()

	if cmdCtx.Err() != nil && ctx.Err() == nil && !res.OK() {
		res.Code = dispatchers.CodeInterrupted
	}
	cancel()

	if res.Err != nil {
		s.promptLock.Lock()
		fmt.Fprintln(s.errOut, s.styler.Error(res.Err.Error()))
		s.promptLock.Unlock()
	}

	s.record(ctx, sc, line, res.Code)
	return res
}

func (s *Stack) record(ctx context.Context, sc *Context, line string, code int) {
	if s.history == nil {
		return
	}
	entry := domain.HistoryEntry{ShellID: sc.ID(), Mode: sc.Mode(), Line: line, Code: code}
	if err := s.history.Record(context.WithoutCancel(ctx), entry); err != nil {
		log.Warn("shell: record history: %v", err)
		return
	}
	if s.historyLimit > 0 {
		if _, err := s.history.Trim(context.WithoutCancel(ctx), s.historyLimit); err != nil {
			log.Warn("shell: trim history: %v", err)
		}
	}
}

func (s *Stack) prompt(sc *Context) string {
	return s.presets.Render(sc.Preset(), s.promptInfo(sc.Mode(), sc.Depth()))
}
