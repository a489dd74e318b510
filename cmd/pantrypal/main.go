package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pantrypal",
	Short: "PantryPal grocery list and pantry service",
	Long: `PantryPal keeps shopping lists and a pantry inventory in sync.

Run "pantrypal serve" to start the HTTP API. Configuration is read from
PANTRYPAL_* environment variables and an optional .env file.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
