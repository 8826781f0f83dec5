package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"filmstrip/internal/daemon"
	"filmstrip/internal/services"
)

func newVersionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show CLI and daemon versions",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "filmstrip %s\n", daemon.Version)

			resp, err := ctx.client().Version(cmd.Context())
			if err != nil {
				if errors.Is(err, services.ErrUnavailable) {
					fmt.Fprintln(out, "daemon: not running")
					return nil
				}
				return err
			}
			fmt.Fprintf(out, "filmstripd %s (%s)\n", resp.Version, resp.Environment)
			return nil
		},
	}
}
