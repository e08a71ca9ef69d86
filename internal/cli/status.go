package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"todo-list/internal/store"
)

func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the database version and migration state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.cfg.Database.Driver == "memory" {
				fmt.Fprintln(out, "driver:  memory")
				return nil
			}

			st, err := store.OpenSQL(cmd.Context(), a.storeOptions(true))
			if err != nil {
				return fmt.Errorf("store: %w", err)
			}
			defer st.Close()

			status, err := st.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "driver:  %s\n", status.Driver)
			fmt.Fprintf(out, "version: %s\n", status.ServerVersion)
			fmt.Fprintf(out, "applied: %s\n", orNone(status.Applied))
			fmt.Fprintf(out, "pending: %s\n", orNone(status.Pending))
			return nil
		},
	}
}

func orNone(versions []string) string {
	if len(versions) == 0 {
		return "none"
	}
	return strings.Join(versions, ", ")
}
