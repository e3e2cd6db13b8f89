// Package main provides the siteserver binary: the archive site's data
// access server plus its schema migration command.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "siteserver",
		Short:   "Medical imaging archive site server",
		Version: version,
		Long: `siteserver is the data-access core of an imaging archive site.

It serves the site's entity records over HTTP, manages login sessions,
and decides which media slot newly archived objects land on.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (default: ./siteserver.yaml)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
