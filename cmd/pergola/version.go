package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/pergola"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pergola",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pergola version %s\n", strings.TrimSpace(pergola.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
