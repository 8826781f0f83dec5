package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"filmstrip/internal/daemon"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status [job-id]",
		Short: "Show tracked render jobs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ctx.client()

			if len(args) == 1 {
				view, err := client.GetJob(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, view)
				}
				printJobDetail(cmd, view)
				return nil
			}

			jobs, err := client.ListJobs(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, daemon.JobListResponse{Jobs: jobs})
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs tracked")
				return nil
			}
			rows := make([][]string, 0, len(jobs))
			for _, view := range jobs {
				rows = append(rows, []string{
					view.JobID,
					view.Status,
					fmt.Sprintf("%.0f%%", view.ProgressPercent),
					strconv.Itoa(view.SegmentCount),
					view.Resolution,
					view.UpdatedAt.Format(time.RFC3339),
				})
			}
			table := renderTable(
				[]string{"Job", "Status", "Progress", "Segments", "Resolution", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit job records as JSON")
	return cmd
}

func printJobDetail(cmd *cobra.Command, view daemon.JobView) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Job:        %s\n", view.JobID)
	fmt.Fprintf(out, "Status:     %s\n", view.Status)
	fmt.Fprintf(out, "Progress:   %.0f%%", view.ProgressPercent)
	if view.ProgressMessage != "" {
		fmt.Fprintf(out, " (%s)", view.ProgressMessage)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Segments:   %d\n", view.SegmentCount)
	fmt.Fprintf(out, "Resolution: %s\n", view.Resolution)
	fmt.Fprintf(out, "Fallback:   %s\n", yesNo(view.FallbackUsed))
	if view.URL != "" {
		fmt.Fprintf(out, "URL:        %s\n", view.URL)
	}
	if view.Error != "" {
		fmt.Fprintf(out, "Error:      %s\n", view.Error)
	}
	fmt.Fprintf(out, "Created:    %s\n", view.CreatedAt.Format(time.RFC3339))
	if view.CompletedAt != nil {
		fmt.Fprintf(out, "Completed:  %s\n", view.CompletedAt.Format(time.RFC3339))
	}
}
