package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"filmstrip/internal/logging"
	"filmstrip/internal/workspace"
)

func newWorkspaceCommand(ctx *commandContext) *cobra.Command {
	workspaceCmd := &cobra.Command{
		Use:   "workspace",
		Short: "Inspect and clean job workspaces",
	}

	workspaceCmd.AddCommand(newWorkspaceListCommand(ctx))
	workspaceCmd.AddCommand(newWorkspaceCleanCommand(ctx))

	return workspaceCmd
}

func newWorkspaceListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List retained job workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			dirs, err := workspace.ListDirectories(cfg.Paths.WorkspaceDir)
			if err != nil {
				return fmt.Errorf("list workspaces: %w", err)
			}
			if len(dirs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No workspaces retained")
				return nil
			}

			rows := make([][]string, 0, len(dirs))
			for _, dir := range dirs {
				rows = append(rows, []string{
					dir.Name,
					fmt.Sprintf("%.1f MiB", float64(dir.Size)/(1024*1024)),
					dir.ModTime.Format(time.RFC3339),
				})
			}
			table := renderTable([]string{"Workspace", "Size", "Modified"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft})
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newWorkspaceCleanCommand(ctx *commandContext) *cobra.Command {
	var maxAgeHours int

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove workspaces older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			hours := maxAgeHours
			if hours <= 0 {
				hours = cfg.Daemon.WorkspaceMaxAge
			}
			maxAge := time.Duration(hours) * time.Hour

			result := workspace.CleanStale(cmd.Context(), cfg.Paths.WorkspaceDir, maxAge, logging.NewNop())
			out := cmd.OutOrStdout()
			for _, removed := range result.Removed {
				fmt.Fprintf(out, "Removed %s\n", removed)
			}
			for _, cleanupErr := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to remove %s: %v\n", cleanupErr.Path, cleanupErr.Error)
			}
			fmt.Fprintf(out, "Removed %d workspace(s) older than %s\n", len(result.Removed), maxAge)
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d workspace(s) could not be removed", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeHours, "max-age", 0, "Retention window in hours (defaults to daemon.workspace_max_age)")
	return cmd
}
