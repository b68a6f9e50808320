package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sokinpui/brn.go/brn"
	"github.com/sokinpui/brn.go/internal/source"
	"github.com/sokinpui/brn.go/internal/tui"
	"github.com/sokinpui/brn.go/internal/ui"
	"github.com/sokinpui/brn.go/model"
)

// ErrPartial is returned when some files of a batch could not be processed.
var ErrPartial = errors.New("some files could not be processed")

func newApp(cfg *Config) (*brn.App, error) {
	app, err := brn.New(brn.Config{
		HistoryFile: cfg.HistoryFile,
		Warn: func(err error) {
			ui.Warning("Warning: %v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return app, nil
}

func newListCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [DIR]",
		Short: "List the files a batch would operate on",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.resolve(cmd.Flags()); err != nil {
				return err
			}
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			files, err := app.List(dirArg(args), cfg.Pattern, cfg.Recursive)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(ui.Out, displayPath(f))
			}
			ui.Info("%d file(s) found.", len(files))
			return nil
		},
	}
	addDiscoveryFlags(cmd.Flags(), cfg)
	return cmd
}

func newPreviewCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [DIR]",
		Short: "Show the new names without renaming anything",
		Args:  requireDirOrStdin(cfg),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.resolve(cmd.Flags()); err != nil {
				return err
			}
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			plan, err := buildPlan(app, cfg, args)
			if err != nil {
				return err
			}
			rows := printPlan(plan)

			if cfg.Copy && len(rows) > 0 {
				if err := source.New().Copy(ui.PlanText(rows)); err != nil {
					return err
				}
				ui.Success("Plan copied to clipboard.")
			}
			return nil
		},
	}
	addDiscoveryFlags(cmd.Flags(), cfg)
	addModeFlags(cmd.Flags(), cfg)
	cmd.Flags().BoolVar(&cfg.Stdin, "stdin", false, "Read the file list from stdin (when piped) or the clipboard instead of DIR.")
	cmd.Flags().BoolVar(&cfg.Copy, "copy", false, "Copy the plan to the clipboard.")
	return cmd
}

func newApplyCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [DIR]",
		Short: "Preview, confirm and rename",
		Args:  requireDirOrStdin(cfg),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.resolve(cmd.Flags()); err != nil {
				return err
			}
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			plan, err := buildPlan(app, cfg, args)
			if err != nil {
				return err
			}
			printPlan(plan)
			if changes(plan) == 0 {
				ui.Warning("No file would change. Nothing to do.")
				return nil
			}
			if !cfg.Yes && !ui.Confirm(cmd.InOrStdin(), fmt.Sprintf("Rename %d file(s)?", changes(plan))) {
				ui.Warning("Rename cancelled.")
				return nil
			}

			summary, err := run(app, cfg, "Renaming", func() (model.Summary, error) {
				return app.Execute(plan)
			})
			if err != nil {
				return err
			}
			if len(summary.Failed) > 0 {
				return ErrPartial
			}
			return nil
		},
	}
	addDiscoveryFlags(cmd.Flags(), cfg)
	addModeFlags(cmd.Flags(), cfg)
	cmd.Flags().BoolVar(&cfg.Stdin, "stdin", false, "Read the file list from stdin (when piped) or the clipboard instead of DIR.")
	cmd.Flags().BoolVarP(&cfg.Yes, "yes", "y", false, "Do not ask for confirmation.")
	cmd.Flags().BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable the spinner and progress bar.")
	return cmd
}

func newUndoCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Revert the most recent rename batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.resolve(cmd.Flags()); err != nil {
				return err
			}
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			summary, err := run(app, cfg, "Undoing", app.Undo)
			if err != nil {
				return err
			}
			if len(summary.Failed) > 0 {
				return ErrPartial
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable the spinner and progress bar.")
	return cmd
}

func newHistoryCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent rename batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.resolve(cmd.Flags()); err != nil {
				return err
			}
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			batches := app.History(cfg.Limit)
			if len(batches) == 0 {
				ui.Info("History is empty.")
				return nil
			}
			// Newest first; #1 is what undo reverts.
			for i := len(batches) - 1; i >= 0; i-- {
				b := batches[i]
				when := "unknown time"
				if !b.Time.IsZero() {
					when = b.Time.Format("2006-01-02 15:04:05")
				}
				ui.Header("#%d  %s  %d file(s)  %s", len(batches)-i, when, len(b.Pairs), shortID(b.ID))
				for _, p := range b.Pairs {
					fmt.Fprintf(ui.Out, "  %s → %s\n", filepath.Base(p.Old), filepath.Base(p.New))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&cfg.Limit, "limit", "n", 10, "Number of batches to show (0 for all).")
	return cmd
}

func newClearHistoryCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-history",
		Short: "Forget every recorded batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.resolve(cmd.Flags()); err != nil {
				return err
			}
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			if !cfg.Yes && !ui.Confirm(cmd.InOrStdin(), "Clear the rename history? Undo will no longer be possible.") {
				return nil
			}
			app.ClearHistory()
			ui.Success("History cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&cfg.Yes, "yes", "y", false, "Do not ask for confirmation.")
	return cmd
}

// buildPlan gathers the file list and previews it.
func buildPlan(app *brn.App, cfg *Config, args []string) ([]model.Pair, error) {
	var files []string
	var err error
	if cfg.Stdin {
		files, err = source.New().GetPaths()
	} else {
		files, err = app.List(dirArg(args), cfg.Pattern, cfg.Recursive)
	}
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	return app.Preview(files, cfg.Options)
}

func printPlan(plan []model.Pair) []ui.Row {
	if len(plan) == 0 {
		ui.Warning("No matching files.")
		return nil
	}
	rows := make([]ui.Row, len(plan))
	for i, p := range plan {
		rows[i] = ui.Row{Old: displayPath(p.Old), New: filepath.Base(p.New), Unchanged: p.Unchanged()}
	}
	ui.Header("--- Preview ---")
	ui.PreviewTable(ui.Out, rows)
	ui.Info("%d file(s), %d to rename.", len(plan), changes(plan))
	return rows
}

// run executes job under the TUI, or directly when animation is off or stderr
// is not a terminal.
func run(app *brn.App, cfg *Config, title string, job tui.Job) (model.Summary, error) {
	var summary model.Summary
	capture := func() (model.Summary, error) {
		s, err := job()
		summary = s
		return s, err
	}

	if !cfg.NoAnimation && isTerminal(os.Stderr) {
		return summary, tui.Run(app, title, capture)
	}

	summary, err := capture()
	printSummary(title, summary)
	return summary, err
}

func printSummary(title string, s model.Summary) {
	pairs := make([]string, len(s.Renamed))
	for i, p := range s.Renamed {
		pairs[i] = fmt.Sprintf("%s → %s", p.Old, p.New)
	}
	if title == "Undoing" {
		ui.PrintUndoSummary(s.Message, pairs, s.Failed)
		return
	}
	ui.PrintRenameSummary(pairs, s.Unchanged, s.Failed)
}

func changes(plan []model.Pair) int {
	n := 0
	for _, p := range plan {
		if !p.Unchanged() {
			n++
		}
	}
	return n
}

func dirArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

func displayPath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	if rel, err := filepath.Rel(wd, p); err == nil {
		return rel
	}
	return p
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
