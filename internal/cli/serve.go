package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"todo-list/internal/logging"
	"todo-list/internal/server"
	"todo-list/pkg/mq"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the to-do list over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			if addr != "" {
				a.cfg.HTTP.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			pub, err := mq.New(a.cfg.Events.Publisher, logging.Component(a.logger, "events"))
			if err != nil {
				return err
			}
			srv := server.New(st,
				server.WithLogger(logging.Component(a.logger, "http")),
				server.WithPublisher(pub),
				server.WithShutdownTimeout(a.cfg.HTTP.ShutdownTimeout),
			)
			return srv.ListenAndServe(ctx, a.cfg.HTTP.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
