package main

import (
	"fmt"
	"strconv"
	"strings"

	"botpanel/internal/format"
	"botpanel/internal/model"
	"botpanel/internal/store"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the saved panel settings",
	}
	cmd.AddCommand(newSettingsShowCmd(a))
	cmd.AddCommand(newSettingsSetCmd(a))
	cmd.AddCommand(newSettingsResetCmd(a))
	return cmd
}

func newSettingsShowCmd(a *app) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, path, err := a.loadSettings()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch strings.ToLower(formatFlag) {
			case "", "table":
				return format.WriteResult(out, settingsTable(settings, path), 0)
			case "yaml":
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				return enc.Encode(settings)
			default:
				return fmt.Errorf("unsupported format: %s", formatFlag)
			}
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "table", "output format: table or yaml")
	return cmd
}

func settingsTable(s store.Settings, path string) model.Table {
	return model.Table{
		Header: []string{"Setting", "Value"},
		Rows: [][]string{
			{"title", s.Title},
			{"copyright", s.Copyright},
			{"theme", s.Theme},
			{"language", s.Language},
			{"maintenance", strconv.FormatBool(s.Maintenance)},
			{"favicon", orDash(s.Favicon)},
			{"logo", orDash(s.Logo)},
			{"file", path},
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func newSettingsSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key=value>...",
		Short: "Change one or more settings and save them",
		Long:  "Change one or more settings and save them.\n\nKeys: " + strings.Join(store.Keys(), ", "),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, path, err := a.loadSettings()
			if err != nil {
				return err
			}

			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("invalid assignment %q (want key=value)", arg)
				}
				if err := settings.Set(key, value); err != nil {
					return err
				}
			}

			if err := store.Save(path, settings); err != nil {
				return err
			}
			a.logger.Info("settings saved", "path", path, "changed", len(args))
			return nil
		},
	}
}

func newSettingsResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore and save the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.settingsPath()
			if err != nil {
				return err
			}
			if err := store.Save(path, store.Defaults()); err != nil {
				return err
			}
			a.logger.Info("settings reset", "path", path)
			return nil
		},
	}
}
