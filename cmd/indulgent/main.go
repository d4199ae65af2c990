package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ierrors "github.com/indulgent-dev/indulgent/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "indulgent",
		Short: "Reactive HTML without the framework",
		Long: `Indulgent binds plain HTML to reactive signals.

Annotate markup with obind, ibind, and iobind attributes, describe
lists with bind:for, and the runtime keeps the document and your
state in sync. This CLI pre-renders pages on the server, runs the
development server, and publishes the rendered site.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		renderCmd(),
		serveCmd(),
		publishCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var e *ierrors.Error
		if errors.As(err, &e) {
			fmt.Fprintln(os.Stderr, e.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}
