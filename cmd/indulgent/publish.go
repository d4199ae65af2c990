package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/indulgent-dev/indulgent/internal/config"
	"github.com/indulgent-dev/indulgent/pkg/publish"
)

func publishCmd() *cobra.Command {
	var (
		bucket string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the rendered site to S3",
		Long: `Upload the output directory to an S3 bucket.

Credentials come from the standard AWS chain (environment,
shared config, instance role). Bucket and prefix default to the
publish section of indulgent.yaml.

Examples:
  indulgent publish
  indulgent publish --bucket my-site --prefix v2/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(mustGetwd())
			if err != nil {
				return err
			}
			if bucket != "" {
				cfg.Publish.Bucket = bucket
			}
			if prefix != "" {
				cfg.Publish.Prefix = prefix
			}
			if cfg.Publish.Bucket == "" {
				return fmt.Errorf("no bucket configured; set publish.bucket in %s or pass --bucket", config.ConfigFileName)
			}

			ctx := context.Background()
			opts := []publish.Option{
				publish.WithPrefix(cfg.Publish.Prefix),
				publish.WithLogger(cfg.Logger()),
			}
			if cfg.Publish.CacheControl != "" {
				opts = append(opts, publish.WithCacheControl(cfg.Publish.CacheControl))
			}
			p, err := publish.NewFromDefaultConfig(ctx, cfg.Publish.Bucket, opts...)
			if err != nil {
				return err
			}

			n, err := p.PublishDir(ctx, cfg.Output)
			if err != nil {
				return err
			}
			fmt.Printf("uploaded %d objects to s3://%s/%s\n", n, cfg.Publish.Bucket, cfg.Publish.Prefix)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Destination bucket (default from indulgent.yaml)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix (default from indulgent.yaml)")

	return cmd
}
