package main

import (
	"fmt"
	"os"

	"github.com/aretw0/pergola/internal/cli"
	"github.com/aretw0/pergola/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the transition graph visualization",
	Long:  `Reads the transition rules from the config file and outputs a Mermaid diagram (graph TD) representing the routing.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := cli.LoadConfig(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		transitions := cfg.BuildTransitions(nil, nil)
		fmt.Print(graph.GenerateMermaid(transitions, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
