package main

import (
	"fmt"
	"os"

	"github.com/aretw0/vending/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config]",
	Short: "Check a machine configuration",
	Long:  `Loads the configuration and reports every problem with the ladder, the coins or the price.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if !cmd.Flags().Changed("config") && len(args) > 0 {
			configPath = args[0]
		}
		if err := cli.Validate(configPath, os.Stdout); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
