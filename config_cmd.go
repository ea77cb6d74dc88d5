package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/TWRT/monday-forms/internal/config"
)

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the forms configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective forms configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.NewFormsLoader(settings.FormsConfigPath, settings.ReadOnly, nil).Load()

		out := cmd.OutOrStdout()
		switch configFormat {
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encode yaml: %w", err)
			}
			return enc.Close()
		case "json":
			enc := json.NewEncoder(out)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		default:
			return fmt.Errorf("unknown format %q (want json or yaml)", configFormat)
		}
	},
}

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "json", "output format (json or yaml)")
	configCmd.AddCommand(configShowCmd)
}
