package main

import (
	"errors"
	"os"

	"github.com/aretw0/vending/internal/cli"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the snapshots another vending process publishes to redis",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd)
		if opts.RedisAddr == "" {
			return errors.New("--redis is required")
		}
		prefix, _ := cmd.Flags().GetString("prefix")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.Watch(sigCtx, cli.WatchOptions{
			RedisAddr: opts.RedisAddr,
			RedisDB:   opts.RedisDB,
			Prefix:    prefix,
			Debug:     opts.Debug,
		}, opts.ConfigPath, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("prefix", "", "Key prefix used by the publisher (default \"vending:\")")
}
