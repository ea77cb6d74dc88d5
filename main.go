package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/TWRT/monday-forms/internal/config"
)

var settings *config.Settings

var rootCmd = &cobra.Command{
	Use:           "monday-forms",
	Short:         "Evaluation forms generated from monday.com webhooks",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real environment variables always win.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		s, err := config.LoadSettings()
		if err != nil {
			return err
		}
		settings = s
		return nil
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, configCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
