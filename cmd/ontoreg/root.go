// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/ontoreg/ontoreg/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the ontoreg command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ontoreg",
		Short: "Query controlled vocabularies from a manifest of ontologies",
		Long: TitleStyle.Render("ontoreg") + SubtitleStyle.Render(" - an in-memory registry of ontologies") + `

ontoreg loads every vocabulary declared in an ontology manifest
(ontologies.cue, ontologies.toml or ontologies.yaml) and answers
hierarchy questions about their terms: parents, children, roots and
the set of terms acceptable in place of a given accession.

` + SubtitleStyle.Render("Examples:") + `
  ontoreg vocab list                    List declared vocabularies
  ontoreg term MI MI:0417               Show one term
  ontoreg children MI MI:0417 --all     List every descendant
  ontoreg valid SO SO:0000805 --children --exclude-obsolete
  ontoreg watch                         Reload on manifest or dictionary changes`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.loadConfig(cmd.Context()); err != nil {
				return app.report(cmd, err)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&app.flags.manifestPath, "manifest", "m", "", "ontology manifest file or directory (default: config 'manifest', then the working directory)")
	flags.StringVar(&app.flags.configPath, "config", "", "config file (default is the user config dir's ontoreg/config.cue)")
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVar(&app.flags.jsonOutput, "json", false, "write machine-readable JSON")

	rootCmd.AddCommand(
		newVocabCommand(app),
		newTermCommand(app),
		newHierarchyCommand(app, hierarchyChildren),
		newHierarchyCommand(app, hierarchyParents),
		newRootsCommand(app),
		newValidCommand(app),
		newNamesCommand(app),
		newConfigCommand(app),
		newWatchCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process with the mapped exit code.
// It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

// runE adapts a handler so catalogued failures are rendered once with their
// suggestions and carry their exit code.
func runE(app *App, fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return app.report(cmd, err)
		}
		return nil
	}
}

// report renders an ActionableError to stderr and silences Cobra's own
// printing of it. Other errors pass through untouched.
func (a *App) report(cmd *cobra.Command, err error) error {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return err
	}

	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.flags.verbose))
	if a.flags.verbose {
		if page := ae.Issue(); page != nil {
			if rendered, renderErr := page.Render(glamourStyle(a.cfg.UI.ColorScheme)); renderErr == nil {
				fmt.Fprint(a.stderr, rendered)
			}
		}
	}

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: exitCodeFor(err), Err: err}
}

// formatErrorForDisplay formats an error for user display. In verbose mode
// an ActionableError includes its full cause chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
