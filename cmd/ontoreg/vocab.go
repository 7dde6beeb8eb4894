// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ontoreg/ontoreg/pkg/dictionary"
	"github.com/ontoreg/ontoreg/pkg/registry"
)

type diagnosticView struct {
	Severity dictionary.Severity `json:"severity"`
	Code     string              `json:"code"`
	Message  string              `json:"message"`
	Path     string              `json:"path,omitempty"`
	Line     int                 `json:"line,omitempty"`
}

// newVocabCommand creates the `ontoreg vocab` command tree.
func newVocabCommand(app *App) *cobra.Command {
	vocabCmd := &cobra.Command{
		Use:   "vocab",
		Short: "Inspect the vocabularies declared in the manifest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var strict bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List declared vocabularies and their load status",
		Args:  cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string) error {
			reg, err := app.loadRegistry(cmd.Context())
			if err != nil {
				return err
			}
			if err := listVocabularies(app.stdout, reg, app.flags.jsonOutput); err != nil {
				return err
			}
			if failed := len(reg.Failures()); strict && failed > 0 {
				return &ExitError{Code: ExitDegraded, Err: fmt.Errorf("%d of %d vocabularies failed to load", failed, len(reg.Summaries()))}
			}
			return nil
		}),
	}
	listCmd.Flags().BoolVar(&strict, "strict", false, "exit with status 4 when any vocabulary failed to load")

	showCmd := &cobra.Command{
		Use:   "show <vocabulary>",
		Short: "Show statistics and load diagnostics for one vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string) error {
			reg, err := app.loadRegistry(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := accessVocabulary(reg, args[0]); err != nil {
				return err
			}
			return showVocabulary(app.stdout, reg, args[0], app.flags.jsonOutput)
		}),
	}

	vocabCmd.AddCommand(listCmd, showCmd)
	return vocabCmd
}

func listVocabularies(w io.Writer, reg *registry.Registry, jsonOutput bool) error {
	summaries := reg.Summaries()
	if jsonOutput {
		return printJSON(w, summaries)
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		status := SuccessStyle.Render("loaded")
		if !s.Loaded {
			status = ErrorStyle.Render("failed")
		}
		rows = append(rows, []string{
			s.ID,
			string(s.Loader),
			strconv.Itoa(s.Stats.Terms),
			strconv.Itoa(s.Stats.Edges),
			strconv.Itoa(s.Stats.Obsolete),
			strconv.Itoa(s.Stats.Roots),
			strconv.Itoa(s.Warnings),
			status,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		Headers("ID", "LOADER", "TERMS", "EDGES", "OBSOLETE", "ROOTS", "WARNINGS", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	fmt.Fprintln(w, t.Render())

	for _, s := range summaries {
		if s.Error != "" {
			fmt.Fprintf(w, "%s %s: %s\n", ErrorStyle.Render("✗"), s.ID, s.Error)
		}
	}
	return nil
}

func showVocabulary(w io.Writer, reg *registry.Registry, id string, jsonOutput bool) error {
	var summary registry.Summary
	for _, s := range reg.Summaries() {
		if s.ID == id {
			summary = s
			break
		}
	}
	diags, err := reg.Diagnostics(id)
	if err != nil {
		return err
	}

	if jsonOutput {
		views := make([]diagnosticView, 0, len(diags))
		for _, d := range diags {
			views = append(views, diagnosticView{Severity: d.Severity, Code: d.Code, Message: d.Message, Path: d.Path, Line: d.Line})
		}
		return printJSON(w, struct {
			registry.Summary
			Diagnostics []diagnosticView `json:"diagnostics"`
		}{summary, views})
	}

	fmt.Fprintln(w, TitleStyle.Render(summary.ID)+" "+SubtitleStyle.Render(summary.Description))
	fmt.Fprintln(w)
	field := func(key string, value any) {
		fmt.Fprintf(w, "%s: %v\n", CmdStyle.Render(key), value)
	}
	field("loader", summary.Loader)
	field("resource", summary.Resource)
	field("terms", summary.Stats.Terms)
	field("edges", summary.Stats.Edges)
	field("obsolete", summary.Stats.Obsolete)
	field("roots", summary.Stats.Roots)
	field("placeholders", summary.Stats.Placeholders)

	if len(summary.Files) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", CmdStyle.Render("files"))
		for _, f := range summary.Files {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", CmdStyle.Render("diagnostics"))
	if len(diags) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none)"))
		return nil
	}
	for _, d := range diags {
		style := VerboseStyle
		if d.Severity == dictionary.SeverityWarning {
			style = WarningStyle
		}
		fmt.Fprintf(w, "  %s %s\n", style.Render(string(d.Severity)), d.String())
	}
	return nil
}
