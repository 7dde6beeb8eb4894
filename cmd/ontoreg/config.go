// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ontoreg/ontoreg/internal/config"
)

// newConfigCommand creates the `ontoreg config` command tree. Its
// subcommands load configuration themselves so a broken file can still be
// located and inspected.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ontoreg configuration",
		Long: `Manage ontoreg configuration.

Configuration is read from the first of:
  - the file given with --config
  - config.cue in the user config directory
    (Linux: ~/.config/ontoreg, macOS: ~/Library/Application Support/ontoreg,
    Windows: %APPDATA%\ontoreg)
  - config.cue in the working directory

Any value may be overridden with an ONTOREG_* environment variable,
e.g. ONTOREG_LOAD_POLICY=skip or ONTOREG_LOG_LEVEL=debug.`,
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string) error {
			if err := app.loadConfig(cmd.Context()); err != nil {
				return err
			}
			if app.flags.jsonOutput {
				return printJSON(app.stdout, app.cfg)
			}
			showConfig(app.stdout, app.cfg)
			return nil
		}),
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string) error {
			if err := app.loadConfig(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
			return nil
		}),
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path, exists, err := config.FilePath(app.configOptions())
			if err != nil {
				return err
			}
			suffix := ""
			if !exists {
				suffix = " " + SubtitleStyle.Render("(not created)")
			}
			fmt.Fprintln(app.stdout, path+suffix)
			return nil
		},
	})

	var initDir string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path, err := config.CreateDefaultConfig(initDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Configuration file:"), path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&initDir, "dir", "", "directory to create config.cue in (default is the user config dir)")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	source := cfg.Source
	if source == "" {
		source = SubtitleStyle.Render("(using defaults)")
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), source)
	fmt.Fprintln(w)

	manifestPath := string(cfg.Manifest)
	if manifestPath == "" {
		manifestPath = SubtitleStyle.Render("(search working directory)")
	} else {
		manifestPath = valueStyle.Render(manifestPath)
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("manifest"), manifestPath)
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("load_policy"), valueStyle.Render(string(cfg.LoadPolicy)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(w, "  level: %s\n", valueStyle.Render(string(cfg.Log.Level)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(w, "  debounce: %s\n", valueStyle.Render(string(cfg.Watch.Debounce)))
	ignores := make([]string, 0, len(cfg.Watch.Ignore))
	for _, g := range cfg.Watch.Ignore {
		ignores = append(ignores, string(g))
	}
	fmt.Fprintf(w, "  ignore: %s\n", valueStyle.Render(strings.Join(ignores, ", ")))
}
