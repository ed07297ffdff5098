package main

import (
	"fmt"
	"os"

	"github.com/aretw0/pergola/internal/cli"
	"github.com/spf13/cobra"
)

// walkCmd represents the walk command
var walkCmd = &cobra.Command{
	Use:   "walk <url>",
	Short: "Walk a site interactively through the engine",
	Long:  `Fetches the start page, boots the engine and navigates on user input, printing each visited page.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")

		opts := cli.WalkOptions{
			StartURL:   args[0],
			ConfigPath: configPath,
			Debug:      debug,
		}
		if err := cli.RunWalk(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(walkCmd)

	// Make 'walk' the default if no command is provided
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			return
		}
		walkCmd.Run(cmd, args)
	}
}
