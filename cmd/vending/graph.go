package main

import (
	"os"

	"github.com/aretw0/vending/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the automaton as a Mermaid diagram",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		return cli.Graph(configPath, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
