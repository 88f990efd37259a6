package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/docgate/adapters/registry"
	"github.com/artpar/docgate/config"
)

const (
	checkMark = "✓"
	crossMark = "✗"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration before deployment",
	Long: `Validate the DocGate configuration file.

Checks:
  - YAML syntax is valid
  - Required fields are present
  - Endpoint declarations resolve (parents, resources)

Examples:
  docgate validate
  docgate validate --config /etc/docgate/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	fmt.Printf("Validating %s...\n\n", cfgFile)

	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		fmt.Printf("  %s Config file exists\n", crossMark)
		return fmt.Errorf("config file not found: %s", cfgFile)
	}
	fmt.Printf("  %s Config file exists\n", checkMark)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Printf("  %s Config syntax valid\n", crossMark)
		return fmt.Errorf("config error: %w", err)
	}
	fmt.Printf("  %s Config syntax valid\n", checkMark)

	endpoints, err := registry.FromConfig(cfg.Endpoints)
	if err != nil {
		fmt.Printf("  %s Endpoint declarations resolve\n", crossMark)
		return fmt.Errorf("endpoint error: %w", err)
	}
	fmt.Printf("  %s Endpoint declarations resolve\n", checkMark)

	fmt.Println()
	fmt.Println("Configuration valid")
	fmt.Printf("  Title:     %s\n", cfg.Docs.Title)
	fmt.Printf("  Endpoints: %d\n", len(endpoints))
	fmt.Printf("  Public:    %v\n", cfg.Docs.Public)
	if cfg.Upstream.URL != "" {
		fmt.Printf("  Upstream:  %s\n", cfg.Upstream.URL)
	}
	return nil
}
