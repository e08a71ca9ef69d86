package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"todo-list/internal/config"
)

func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(rootOpts))
	return cmd
}

func newConfigInitCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		driver string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file (yaml or toml by extension)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.ConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				path = "todo.yaml"
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.Default()
			cfg.Database.Driver = driver
			cfg.Database.DSN = config.DefaultDSN(driver)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote config -> %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&driver, "driver", config.Default().Database.Driver, "database driver: sqlite3, mysql, postgres or memory")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
