// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ontoreg/ontoreg/internal/watch"
	"github.com/ontoreg/ontoreg/pkg/registry"
)

// newWatchCommand creates `ontoreg watch`, which keeps a registry loaded
// and rebuilds it whenever the manifest or a dictionary file changes.
func newWatchCommand(app *App) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the registry when the manifest or dictionaries change",
		Long: `Load the registry, then watch the manifest and every dictionary file it
references. Changes are debounced and trigger a full rebuild; a rebuild
that fails is reported and the previous registry stays active. Stop with
Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), app, debounce)
		}),
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before reloading (default: config watch.debounce)")
	return cmd
}

func runWatch(ctx context.Context, app *App, debounce time.Duration) error {
	path, err := app.manifestPath()
	if err != nil {
		return err
	}

	opts := app.registryOptions()
	holder, err := registry.NewHolder(ctx, func(ctx context.Context) (*registry.Registry, error) {
		return app.Registries.Load(ctx, path, opts...)
	})
	if err != nil {
		return classifyLoadError(err, path)
	}

	if debounce <= 0 {
		debounce = app.cfg.Watch.Debounce.Duration()
	}
	ignore := make([]string, 0, len(app.cfg.Watch.Ignore))
	for _, g := range app.cfg.Watch.Ignore {
		ignore = append(ignore, string(g))
	}

	printReloadSummary(app, holder.Current(), "loaded")
	fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("Watching"), path)

	reloader := &watch.Reloader{
		Holder:   holder,
		Ignore:   ignore,
		Debounce: debounce,
		Logger:   app.logger,
		OnReload: func(reg *registry.Registry, changed []string, err error) {
			if err != nil {
				fmt.Fprintln(app.stderr, ErrorStyle.Render("Reload failed: ")+formatErrorForDisplay(classifyLoadError(err, path), app.flags.verbose))
				fmt.Fprintln(app.stderr, SubtitleStyle.Render("Keeping the previous registry."))
				return
			}
			if app.flags.verbose {
				for _, f := range changed {
					fmt.Fprintln(app.stdout, VerboseStyle.Render("  changed: "+f))
				}
			}
			printReloadSummary(app, reg, "reloaded")
		},
	}

	if err := reloader.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printReloadSummary(app *App, reg *registry.Registry, verb string) {
	line := fmt.Sprintf("%s %d vocabularies at %s", verb, reg.Len(), reg.Constructed().Format(time.TimeOnly))
	if failed := len(reg.Failures()); failed > 0 {
		fmt.Fprintln(app.stdout, WarningStyle.Render(line+fmt.Sprintf(" (%d failed)", failed)))
		return
	}
	fmt.Fprintln(app.stdout, SuccessStyle.Render(line))
}
