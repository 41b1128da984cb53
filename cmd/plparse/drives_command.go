package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plparse/internal/disc"
)

type driveOutput struct {
	Device     string `json:"device"`
	Status     string `json:"status"`
	Configured bool   `json:"configured"`
	Error      string `json:"error,omitempty"`
}

func newDrivesCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "drives",
		Short: "List optical drives and their tray state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			drives, err := disc.ListDrives(cmd.Context())
			if err != nil {
				return err
			}

			out := make([]driveOutput, 0, len(drives))
			for _, d := range drives {
				row := driveOutput{
					Device:     d.Device,
					Status:     d.Status.String(),
					Configured: d.Device == cfg.Disc.Device,
				}
				if d.StatusErr != nil {
					row.Status = "unknown"
					row.Error = d.StatusErr.Error()
				}
				out = append(out, row)
			}

			if jsonOut {
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			if len(out) == 0 {
				fmt.Fprintln(w, "No optical drives found")
				return nil
			}
			rows := make([][]string, 0, len(out))
			for _, d := range out {
				status := d.Status
				if d.Error != "" {
					status = d.Error
				}
				rows = append(rows, []string{d.Device, status, yesNo(d.Configured)})
			}
			fmt.Fprintln(w, renderTable([]string{"Device", "Status", "Configured"}, rows, nil, shouldColorize(w)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print drives as JSON")
	return cmd
}
