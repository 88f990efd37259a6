package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/docgate/bootstrap"
	"github.com/artpar/docgate/config"
	"github.com/artpar/docgate/core/openapi"
)

var (
	schemaFormat   string
	schemaPlugin   string
	schemaBindings bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the assembled schema document",
	Long: `Assemble the schema document from the configured endpoints and
print it to stdout, without starting the server.

Examples:
  docgate schema > api.json
  docgate schema --format yaml
  docgate schema --plugin file --bindings`,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringVar(&schemaFormat, "format", "json", "output format: json or yaml")
	schemaCmd.Flags().StringVar(&schemaPlugin, "plugin", "", "restrict the document to one plugin")
	schemaCmd.Flags().BoolVar(&schemaBindings, "bindings", false, "shorten operation ids for client generation")
}

func runSchema(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	// The document goes to stdout; keep logs off it.
	cfg.Logging.Level = "error"
	cfg.Metrics.Enabled = false

	app, err := bootstrap.New(cfg)
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}
	defer app.Shutdown()

	spec, err := app.Service.Generate(context.Background(), &openapi.DocRequest{
		Plugin:   schemaPlugin,
		Bindings: schemaBindings,
	}, true)
	if err != nil {
		return fmt.Errorf("error assembling document: %w", err)
	}

	var data []byte
	switch schemaFormat {
	case "json":
		data, err = spec.ToJSON()
	case "yaml":
		data, err = spec.ToYAML()
	default:
		return fmt.Errorf("unknown format %q", schemaFormat)
	}
	if err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}

	os.Stdout.Write(data)
	fmt.Println()
	return nil
}
