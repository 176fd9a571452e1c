package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vegasq/insight/internal/server"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Load the datasets in the data directory and serve them over HTTP.

With --watch the datasets are reloaded whenever a file in the data
directory changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			reg, err := openRegistry(cmd)
			if err != nil {
				return err
			}

			srv := server.New(server.Config{
				Registry:        reg,
				Engine:          newEngine(cmd, reg),
				Logger:          logger,
				ListenAddr:      cfg.ListenAddr,
				DataDir:         cfg.DataDir,
				Watch:           cfg.Watch,
				MaxBodyBytes:    cfg.MaxBodyBytes,
				ShutdownTimeout: cfg.ShutdownTimeout,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().String("listen-addr", "", "Address to listen on (default :4321)")
	cmd.Flags().Bool("watch", false, "Reload datasets when the data directory changes")
	return cmd
}
