package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indulgent-dev/indulgent/internal/config"
	"github.com/indulgent-dev/indulgent/pkg/prerender"
	"github.com/indulgent-dev/indulgent/pkg/store"
)

func renderCmd() *cobra.Command {
	var (
		pages  string
		output string
		debug  bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Pre-render the pages directory",
		Long: `Pre-render every HTML page through its setup program and write
the settled output.

Pages name their setup with a meta tag:

  <meta name="indulgent-setup" content="homepage">

Pages without the tag are copied through unchanged.

Examples:
  indulgent render
  indulgent render --pages site --output public`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(mustGetwd())
			if err != nil {
				return err
			}
			if pages != "" {
				cfg.Pages = pages
			}
			if output != "" {
				cfg.Output = output
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			st, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer st.Close()
			store.SetDefault(st)

			r := prerender.NewRenderer(
				prerender.WithLogger(cfg.Logger()),
				prerender.WithDebug(debug),
			)
			if err := r.RenderDir(context.Background(), cfg.Pages, cfg.Output); err != nil {
				return err
			}
			fmt.Printf("rendered %s -> %s\n", cfg.Pages, cfg.Output)
			return nil
		},
	}

	cmd.Flags().StringVar(&pages, "pages", "", "Pages directory (default from indulgent.yaml)")
	cmd.Flags().StringVar(&output, "output", "", "Output directory (default from indulgent.yaml)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Log every binding as it is wired")

	return cmd
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
