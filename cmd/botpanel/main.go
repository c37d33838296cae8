// Package main provides the botpanel CLI, the operator console for the messaging bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"botpanel/internal/config"
	"botpanel/internal/feed"
	"botpanel/internal/format"
	"botpanel/internal/logging"
	"botpanel/internal/model"
	"botpanel/internal/schedule"
	"botpanel/internal/store"
	"botpanel/internal/terminal"
	"botpanel/internal/view"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var version = "dev"

// app carries state shared by every subcommand once the root has run its pre-run hook.
type app struct {
	cfg    config.Config
	logger *log.Logger

	settingsFlag string
	sourceFlag   string
	levelFlag    string
	envFile      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "botpanel: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "botpanel",
		Short:         "Operator console for the messaging bot: terminal, status and live logs",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.settingsFlag, "config", "", "settings file (env: BOTPANEL_SETTINGS, default: ~/.config/botpanel/settings.yaml)")
	flags.StringVar(&a.sourceFlag, "source", "", "status source: mock or host (env: BOTPANEL_SOURCE, default: mock)")
	flags.StringVar(&a.levelFlag, "log-level", "", "log level: debug, info, warn, error (env: BOTPANEL_LOG_LEVEL, default: info)")
	flags.StringVar(&a.envFile, "env-file", "", "dotenv file to load before reading the environment (default: .env)")

	root.AddCommand(newTerminalCmd(a))
	root.AddCommand(newExecCmd(a))
	root.AddCommand(newStatusCmd(a))
	root.AddCommand(newLogsCmd(a))
	root.AddCommand(newSettingsCmd(a))

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	var files []string
	if a.envFile != "" {
		files = append(files, a.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}
	if a.sourceFlag != "" {
		cfg.Source = strings.ToLower(a.sourceFlag)
	}
	if a.levelFlag != "" {
		cfg.LogLevel = a.levelFlag
	}
	if a.settingsFlag != "" {
		cfg.SettingsPath = a.settingsFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("configuration loaded", "source", cfg.Source, "capacity", cfg.LogCapacity, "delay", fmt.Sprintf("%s-%s", cfg.StreamMin, cfg.StreamMax))
	return nil
}

func (a *app) generator() *feed.Generator {
	return feed.NewGenerator(feed.Options{Delay: a.cfg.StreamDelay()})
}

func (a *app) statusSource() terminal.StatusSource {
	if a.cfg.Source == config.SourceHost {
		return &feed.HostSource{}
	}
	return a.generator()
}

func (a *app) settingsPath() (string, error) {
	if a.cfg.SettingsPath != "" {
		return a.cfg.SettingsPath, nil
	}
	return store.DefaultPath()
}

func (a *app) loadSettings() (store.Settings, string, error) {
	path, err := a.settingsPath()
	if err != nil {
		return store.Settings{}, "", fmt.Errorf("determine settings path: %w", err)
	}
	settings, err := store.Load(path)
	if err != nil {
		return store.Settings{}, path, err
	}
	return settings, path, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newTerminalCmd(a *app) *cobra.Command {
	var (
		historyFile  string
		forceColor   bool
		forceNoColor bool
	)

	cmd := &cobra.Command{
		Use:   "terminal",
		Short: "Open the interactive bot terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if forceColor && forceNoColor {
				return fmt.Errorf("--color and --no-color cannot be used together")
			}
			settings, _, err := a.loadSettings()
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			session := terminal.NewSession(terminal.NewInterpreter(a.statusSource()))
			a.logger.Debug("terminal session opened", "session", session.ID())

			return view.RunShell(ctx, session, view.ShellOptions{
				Title:       settings.Title,
				HistoryFile: historyFile,
				In:          cmd.InOrStdin(),
				Out:         cmd.OutOrStdout(),
				Color:       view.ColorOptions{ForceColor: forceColor, ForceNoColor: forceNoColor},
				Logger:      a.logger,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&historyFile, "history-file", "", "readline history file (default: <tmp>/.botpanel_history)")
	flags.BoolVar(&forceColor, "color", false, "force-enable ANSI colors even when stdout is not a TTY")
	flags.BoolVar(&forceNoColor, "no-color", false, "disable ANSI colors regardless of terminal detection")

	return cmd
}

func newExecCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command> [args...]",
		Short: "Run a single terminal command and print its result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			interp := terminal.NewInterpreter(a.statusSource())
			result := interp.Execute(ctx, strings.Join(args, " "))
			if errResult, ok := result.(model.Error); ok {
				return errResult
			}
			return format.WriteResult(cmd.OutOrStdout(), result, 0)
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	var (
		formatFlag string
		timeout    time.Duration
		watch      bool
		interval   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print a bot and system status snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source := a.statusSource()
			out := cmd.OutOrStdout()
			read := func(ctx context.Context) error {
				if timeout > 0 {
					var cancel context.CancelFunc
					ctx, cancel = context.WithTimeout(ctx, timeout)
					defer cancel()
				}
				snap, err := source.Snapshot(ctx)
				if err != nil {
					return fmt.Errorf("%w: %v", model.ErrFetchFailure, err)
				}
				return format.WriteSnapshot(out, snap, formatFlag, 0)
			}

			if !watch {
				return read(cmd.Context())
			}
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", interval)
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return watchStatus(ctx, a, interval, read)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&formatFlag, "format", "table", "output format: table, plain, or json")
	flags.DurationVar(&timeout, "timeout", 5*time.Second, "give up on a snapshot after this long (0 means no limit)")
	flags.BoolVarP(&watch, "watch", "w", false, "keep printing snapshots until interrupted")
	flags.DurationVar(&interval, "interval", 3*time.Second, "time between snapshots in watch mode")

	return cmd
}

// watchStatus prints one reading right away and then one per interval until
// ctx ends. A failed reading is logged and the next tick tries again.
func watchStatus(ctx context.Context, a *app, interval time.Duration, read func(context.Context) error) error {
	if err := read(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		a.logger.Warn("status reading failed", "error", err)
	}

	var sched schedule.Scheduler
	h := sched.Start(schedule.Range{Min: interval, Max: interval}, func() {
		if err := read(ctx); err != nil && ctx.Err() == nil {
			a.logger.Warn("status reading failed", "error", err)
		}
	})

	<-ctx.Done()
	sched.Stop(h)
	<-h.Done()
	a.logger.Debug("status watch stopped")
	return nil
}

func newLogsCmd(a *app) *cobra.Command {
	var (
		count        int
		duration     time.Duration
		capacity     int
		formatFlag   string
		export       string
		forceColor   bool
		forceNoColor bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Tail the live bot log feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if forceColor && forceNoColor {
				return fmt.Errorf("--color and --no-color cannot be used together")
			}
			if capacity <= 0 {
				capacity = a.cfg.LogCapacity
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			res, err := view.RunLogs(ctx, a.generator(), view.LogOptions{
				Format:   formatFlag,
				Capacity: capacity,
				Count:    count,
				Duration: duration,
				Export:   export,
				Color:    view.ColorOptions{ForceColor: forceColor, ForceNoColor: forceNoColor},
				Out:      cmd.OutOrStdout(),
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}
			if res.ExportPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d records to %s\n", len(res.Records), res.ExportPath) //nolint:errcheck
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&count, "count", 0, "stop after N records (0 means until interrupted)")
	flags.DurationVar(&duration, "duration", 0, "stop after this long (0 means until interrupted)")
	flags.IntVar(&capacity, "max", 0, "number of most recent records retained for export (env: BOTPANEL_LOG_CAPACITY, default: 200)")
	flags.StringVar(&formatFlag, "format", "plain", "output format: plain, jsonl, or json")
	flags.StringVar(&export, "export", "", "write retained records to this file, or a timestamped file in this directory")
	flags.BoolVar(&forceColor, "color", false, "force-enable ANSI colors even when stdout is not a TTY")
	flags.BoolVar(&forceNoColor, "no-color", false, "disable ANSI colors regardless of terminal detection")

	return cmd
}
