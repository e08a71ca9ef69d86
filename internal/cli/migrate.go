package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"todo-list/internal/store"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			if a.cfg.Database.Driver == "memory" {
				fmt.Fprintln(cmd.OutOrStdout(), "memory store needs no migrations")
				return nil
			}

			st, err := store.OpenSQL(cmd.Context(), a.storeOptions(true))
			if err != nil {
				return fmt.Errorf("store: %w", err)
			}
			defer st.Close()

			applied, err := st.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", v)
			}
			return nil
		},
	}
}
