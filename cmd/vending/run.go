package main

import (
	"github.com/aretw0/vending/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Operate the machine interactively",
	Long: `Starts an interactive session. Type a coin value to insert it, then
'dispense' once the price is met and 'reset' to start over.
With --json the session reads and writes JSON lines instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd)
		opts.Headless, _ = cmd.Flags().GetBool("headless")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		return cli.Execute(opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("headless", false, "Skip the banner and usage hints")
	runCmd.Flags().Bool("json", false, "Read and write JSON lines (implies --headless)")

	// Running without a subcommand starts a session.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
