package main

import (
	"fmt"

	"github.com/aretw0/vending"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of vending",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vending version %s\n", vending.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
