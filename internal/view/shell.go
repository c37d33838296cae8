package view

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"botpanel/internal/format"
	"botpanel/internal/model"
	"botpanel/internal/terminal"

	"github.com/charmbracelet/log"
	"github.com/chzyer/readline"
)

const clearScreenSeq = "\x1b[H\x1b[2J"

// exit and quit are handled by the shell and are not interpreter commands.
const exitHint = "Type 'help' for commands, 'exit' or 'quit' to leave."

// ShellOptions configures the interactive terminal.
type ShellOptions struct {
	Title       string
	Prompt      string
	HistoryFile string
	In          io.Reader
	Out         io.Writer
	Color       ColorOptions
	Logger      *log.Logger
}

// RunShell reads lines until EOF, interrupt, "exit" or "quit" and submits each
// one to session. A TTY gets line editing; anything else is read line by line
// and each command is echoed before its output.
func RunShell(ctx context.Context, session *terminal.Session, opts ShellOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Prompt == "" {
		opts.Prompt = "$ "
	}

	interactive := isTerminal(opts.Out) && isTerminal(asWriter(opts.In))
	sh := &shell{
		session:     session,
		out:         opts.Out,
		colors:      newPalette(opts.Out, resolveColorChoice(opts.Color, opts.Out)),
		interactive: interactive,
		logger:      opts.Logger,
	}

	if opts.Title != "" {
		fmt.Fprintf(opts.Out, "%s (session %s)\n", opts.Title, session.ID()) //nolint:errcheck
	}
	fmt.Fprintln(opts.Out, exitHint) //nolint:errcheck

	if interactive {
		err := sh.runReadline(ctx, opts)
		if !errors.Is(err, errReadlineInit) {
			return err
		}
		if sh.logger != nil {
			sh.logger.Warn("line editing unavailable, falling back to plain input", "error", err)
		}
	}
	return sh.runPlain(ctx, opts.In, opts.Prompt)
}

// asWriter lets isTerminal inspect stdin, which is also an *os.File.
func asWriter(r io.Reader) io.Writer {
	if f, ok := r.(*os.File); ok {
		return f
	}
	return io.Discard
}

type shell struct {
	session     *terminal.Session
	out         io.Writer
	colors      palette
	interactive bool
	logger      *log.Logger
}

var errReadlineInit = errors.New("readline init failed")

func (sh *shell) runReadline(ctx context.Context, opts ShellOptions) error {
	historyFile := opts.HistoryFile
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".botpanel_history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          opts.Prompt,
		HistoryFile:     historyFile,
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errReadlineInit, err)
	}
	defer rl.Close()

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if sh.handle(ctx, line) {
			return nil
		}
	}
}

func (sh *shell) runPlain(ctx context.Context, in io.Reader, prompt string) error {
	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		if sh.interactive {
			fmt.Fprint(sh.out, prompt) //nolint:errcheck
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		if !sh.interactive {
			fmt.Fprintf(sh.out, "%s%s\n", prompt, line) //nolint:errcheck
		}
		if sh.handle(ctx, line) {
			return nil
		}
	}
}

// handle submits line and prints its result. It reports whether the shell should exit.
func (sh *shell) handle(ctx context.Context, line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit":
		return true
	}

	entry, ok := sh.session.Submit(ctx, line)
	if !ok {
		if sh.interactive {
			fmt.Fprint(sh.out, clearScreenSeq) //nolint:errcheck
		}
		if sh.logger != nil {
			sh.logger.Debug("history cleared", "session", sh.session.ID())
		}
		return false
	}

	if errResult, isErr := entry.Result.(model.Error); isErr {
		fmt.Fprintln(sh.out, sh.colors.errorText("error: "+errResult.Message)) //nolint:errcheck
		return false
	}
	if err := format.WriteResult(sh.out, entry.Result, determineWidth(sh.out)); err != nil && sh.logger != nil {
		sh.logger.Error("render result", "command", line, "error", err)
	}
	return false
}
