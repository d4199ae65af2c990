package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/indulgent-dev/indulgent/internal/config"
	"github.com/indulgent-dev/indulgent/internal/dev"
	"github.com/indulgent-dev/indulgent/pkg/metrics"
	"github.com/indulgent-dev/indulgent/pkg/store"
)

func serveCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the development server",
		Long: `Start the development server with live reload.

The server pre-renders the pages directory, serves the output, and
watches sources: on change it re-renders and refreshes connected
browsers. Render errors appear as an overlay in the browser.

Examples:
  indulgent serve
  indulgent serve --port 8080
  indulgent serve --host 0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(mustGetwd())
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Dev.Port = port
			}
			if host != "" {
				cfg.Dev.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Metrics.Enabled {
				var opts []metrics.Option
				if cfg.Metrics.Namespace != "" {
					opts = append(opts, metrics.WithNamespace(cfg.Metrics.Namespace))
				}
				metrics.Enable(opts...)
			}

			st, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer st.Close()
			store.SetDefault(st)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return dev.NewServer(cfg, cfg.Logger()).Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from indulgent.yaml)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from indulgent.yaml)")

	return cmd
}
