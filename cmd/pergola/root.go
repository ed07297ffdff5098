package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pergola",
	Short: "Pergola is a page navigation and transition engine",
	Long:  `Pergola orchestrates soft navigations between pages: fetching, caching, history and transition lifecycles.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "pergola.yaml", "Path to the config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging and lifecycle tracing")
}
