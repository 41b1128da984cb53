package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"plparse/internal/history"
	"plparse/internal/plparser"
	"plparse/internal/plwriter"
)

type resolveOutput struct {
	RunID      string           `json:"run_id"`
	URI        string           `json:"uri"`
	Result     plparser.Result  `json:"result"`
	EntryCount int              `json:"entry_count"`
	DurationMs int64            `json:"duration_ms"`
	Recorded   bool             `json:"recorded"`
	SavedTo    string           `json:"saved_to,omitempty"`
	Events     []plparser.Event `json:"events"`
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut    bool
		base       string
		noFallback bool
		shallow    bool
		record     bool
		savePath   string
	)

	cmd := &cobra.Command{
		Use:   "resolve <uri-or-path>",
		Short: "Expand a playlist, directory, disc image or drive into entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if record && !cfg.History.Enabled {
				return errHistoryDisabled
			}
			var format plwriter.Format
			if savePath != "" {
				if format, err = plwriter.FormatFromName(savePath); err != nil {
					return err
				}
			}

			parser, err := ctx.newParser()
			if err != nil {
				return err
			}

			target := strings.TrimSpace(args[0])
			opts := plparser.ResolveOptions{
				Base:     strings.TrimSpace(base),
				Fallback: cfg.Resolver.Fallback && !noFallback,
				Shallow:  shallow,
			}
			run, events := history.Capture(cmd.Context(), parser, target, opts, "cli")

			out := resolveOutput{
				RunID:      run.ID,
				URI:        run.URI,
				Result:     run.Result,
				EntryCount: run.EntryCount,
				DurationMs: run.Duration.Milliseconds(),
				Events:     events,
			}
			if out.Events == nil {
				out.Events = []plparser.Event{}
			}

			if record {
				store, err := ctx.historyStore()
				if err != nil {
					return err
				}
				if _, err := store.Record(cmd.Context(), run, events); err != nil {
					return fmt.Errorf("record run: %w", err)
				}
				out.Recorded = true
			}

			if savePath != "" && run.EntryCount > 0 {
				if err := plwriter.Save(savePath, plwriter.FromEvents(events)); err != nil {
					return err
				}
				out.SavedTo = savePath
			}

			if jsonOut {
				if err := writeJSON(cmd, out); err != nil {
					return err
				}
			} else {
				printResolve(cmd, out, format)
			}

			switch run.Result {
			case plparser.Success, plparser.Ignored:
				return nil
			default:
				return fmt.Errorf("%s: %s", target, run.Result)
			}
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the events as JSON")
	cmd.Flags().StringVar(&base, "base", "", "Resolve relative references against this URI")
	cmd.Flags().BoolVar(&noFallback, "no-fallback", false, "Do not report unparseable references as plain entries")
	cmd.Flags().BoolVar(&shallow, "shallow", false, "Expand only the top-level document")
	cmd.Flags().BoolVar(&record, "record", false, "Store the run in the history database")
	cmd.Flags().StringVar(&savePath, "save", "", "Write the entries to a playlist file (.m3u, .pls or .xspf)")
	return cmd
}

func printResolve(cmd *cobra.Command, out resolveOutput, format plwriter.Format) {
	w := cmd.OutOrStdout()
	if len(out.Events) > 0 {
		table := renderTable(
			[]string{"#", "Title", "URI"},
			eventRows(out.Events),
			[]columnAlignment{alignRight, alignLeft, alignLeft},
			shouldColorize(w),
		)
		fmt.Fprintln(w, table)
	}
	fmt.Fprintf(w, "Result: %s (%d entries in %s)\n", out.Result, out.EntryCount, formatDuration(msDuration(out.DurationMs)))
	if out.Recorded {
		fmt.Fprintf(w, "Recorded as run %s\n", shortID(out.RunID))
	}
	if out.SavedTo != "" {
		fmt.Fprintf(w, "Saved %s playlist to %s\n", format, out.SavedTo)
	}
}
