package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"filmstrip/internal/preflight"
	"filmstrip/internal/services"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show daemon readiness",
		Long: "Queries the daemon health endpoint. When the daemon is unreachable, " +
			"local preflight checks run instead so misconfiguration is still visible.",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ctx.client().Health(cmd.Context())
			if err != nil {
				if errors.Is(err, services.ErrUnavailable) {
					return runLocalHealth(cmd, ctx, jsonOutput)
				}
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, resp)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Daemon: %s (version %s, up %ds)\n", resp.Status, resp.Version, resp.Uptime)
			rows := make([][]string, 0, len(resp.Checks))
			for _, check := range resp.Checks {
				state := "ready"
				if !check.Ready {
					state = "not ready"
				}
				rows = append(rows, []string{check.Name, state, check.Detail})
			}
			if len(rows) > 0 {
				table := renderTable([]string{"Component", "State", "Detail"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft})
				fmt.Fprintln(out, table)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit health data as JSON")
	return cmd
}

func runLocalHealth(cmd *cobra.Command, ctx *commandContext, jsonOutput bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	results := preflight.RunAll(cmd.Context(), cfg)
	if jsonOutput {
		return writeJSON(cmd, results)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Daemon unreachable; local preflight results:")
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		state := "ok"
		if !result.Passed {
			state = "failed"
		}
		rows = append(rows, []string{result.Name, state, result.Detail})
	}
	table := renderTable([]string{"Check", "State", "Detail"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft})
	fmt.Fprintln(out, table)

	if failed := preflight.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d preflight check(s) failed", len(failed))
	}
	return nil
}
