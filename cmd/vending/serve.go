package main

import (
	"os"

	"github.com/aretw0/vending/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes the machine as a JSON API over HTTP, with server-sent events on
/events and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		metrics, _ := cmd.Flags().GetBool("metrics")
		return cli.Serve(cli.ServeOptions{
			RunOptions: runOptions(cmd),
			Port:       port,
			Metrics:    metrics,
		}, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("metrics", true, "Mount Prometheus metrics on /metrics")
}
