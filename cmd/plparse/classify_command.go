package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type classifyOutput struct {
	URI      string `json:"uri"`
	Type     string `json:"type"`
	Handled  bool   `json:"handled"`
	Behavior string `json:"behavior,omitempty"`
	Error    string `json:"error,omitempty"`
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "classify <uri-or-path>...",
		Short: "Show the type each URI would be dispatched as",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := ctx.newParser()
			if err != nil {
				return err
			}

			results := make([]classifyOutput, 0, len(args))
			for _, target := range args {
				out := classifyOutput{URI: target}
				t, err := parser.Classify(cmd.Context(), target)
				if err != nil {
					out.Error = err.Error()
				}
				out.Type = string(t)
				if behavior, ok := parser.Behavior(t); ok {
					out.Handled = true
					out.Behavior = behavior.String()
				}
				results = append(results, out)
			}

			if jsonOut {
				return writeJSON(cmd, results)
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				typ := r.Type
				if typ == "" {
					typ = "-"
				}
				behavior := r.Behavior
				if r.Error != "" {
					behavior = "error: " + r.Error
				} else if !r.Handled {
					behavior = "unhandled"
				}
				rows = append(rows, []string{r.URI, typ, behavior})
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, renderTable([]string{"URI", "Type", "Behavior"}, rows, nil, shouldColorize(w)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print results as JSON")
	return cmd
}
