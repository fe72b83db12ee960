package cli

import (
	"github.com/spf13/cobra"
)

func newAuditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Local action audit log",
	}
	cmd.AddCommand(newAuditListCmd(app))
	return cmd
}

func newAuditListCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent local audit events, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			audit, err := openAudit()
			if err != nil {
				return err
			}
			defer audit.Close()

			events, err := audit.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, events)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of events")
	return cmd
}
