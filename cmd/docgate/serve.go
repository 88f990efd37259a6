package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/docgate/bootstrap"
	"github.com/artpar/docgate/config"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the documentation server",
	Long: `Start the DocGate server.

The server will:
  - Load configuration from docgate.yaml (or --config)
  - Or load configuration from DOCGATE_* environment variables
  - Assemble the schema document from the declared endpoints
  - Serve it at /api/v3/docs/api.json and /api.yaml, with a UI at /docs/

Environment variables (for Docker deployments):
  DOCGATE_SERVER_HOST     - Bind address (default: 0.0.0.0)
  DOCGATE_SERVER_PORT     - Server port (default: 8080)
  DOCGATE_DATABASE_DSN    - Settings database path (default: in-memory)
  DOCGATE_DOCS_TITLE      - Document title
  DOCGATE_LOG_LEVEL       - Log level: debug, info, warn, error
  DOCGATE_UPSTREAM_URL    - Content server URL for the management client

Examples:
  docgate serve
  docgate serve --config /etc/docgate/config.yaml
  docgate serve --hot-reload=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	hasConfigFile := false
	if _, err := os.Stat(cfgFile); err == nil {
		hasConfigFile = true
	}

	if !hasConfigFile && !config.HasEnvConfig() {
		fmt.Println("No configuration found.")
		fmt.Println()
		fmt.Printf("Option 1: Create %s with your endpoint declarations\n", cfgFile)
		fmt.Println("Option 2: Set DOCGATE_* environment variables")
		return nil
	}

	var app *bootstrap.App
	var err error

	if hasConfigFile && hotReload {
		// Hot reload only works with a config file
		app, err = bootstrap.NewWithHotReload(cfgFile)
	} else {
		var cfg *config.Config
		if hasConfigFile {
			cfg, err = config.Load(cfgFile)
		} else {
			fmt.Println("Running with environment variables (no config file)")
			cfg, err = config.LoadFromEnv()
		}
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		app, err = bootstrap.New(cfg)
	}

	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
