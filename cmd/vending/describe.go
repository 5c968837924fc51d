package main

import (
	"os"

	"github.com/aretw0/vending/internal/cli"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the formal definition M = (Q, Σ, δ, q0, F)",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		style, _ := cmd.Flags().GetString("style")
		return cli.Describe(configPath, style, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().String("style", "", "Glamour style (dark, light, notty); detected when empty")
}
