package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plparse/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, the history database and the optical drive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			results = append(results, preflight.CheckBind(cfg.API.Bind))

			if jsonOut {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					state := "ok"
					switch {
					case r.Skipped:
						state = "skipped"
					case !r.Passed:
						state = "FAIL"
					}
					rows = append(rows, []string{r.Name, state, r.Detail})
				}
				w := cmd.OutOrStdout()
				fmt.Fprintln(w, renderTable([]string{"Check", "State", "Detail"}, rows, nil, shouldColorize(w)))
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed", len(failed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print results as JSON")
	return cmd
}
