package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docgate",
	Short: "Schema documentation gateway for content servers",
	Long: `DocGate assembles a live OpenAPI document for a content-repository
server from its registered routes, and serves it over HTTP alongside an
interactive browser.

Quick start:
  docgate serve     # Start the documentation server

Management:
  docgate schema    # Print the assembled document to stdout
  docgate validate  # Validate configuration
  docgate hashpass  # Hash an admin password for the config file`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "docgate.yaml", "config file path")
}
