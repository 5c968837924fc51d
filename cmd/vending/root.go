package main

import (
	"fmt"
	"os"

	"github.com/aretw0/vending"
	"github.com/aretw0/vending/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vending",
	Short: "Vending is a coin-operated vending machine automaton",
	Long: `Vending models a vending machine as a deterministic finite automaton:
coins are input symbols, the accumulated value is the state and meeting the
price is acceptance. Run it interactively, serve it over HTTP or expose it to agents over MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Machine configuration file (YAML or JSON); defaults to coins 5, 10, 25 and price 30")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().Duration("delay", vending.DefaultAnimationDelay, "Time the machine stays busy after each coin")
	rootCmd.PersistentFlags().String("redis", "", "Publish snapshots to this redis address")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis database number")
}

// runOptions reads the persistent flags shared by every engine command.
func runOptions(cmd *cobra.Command) cli.RunOptions {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	debug, _ := flags.GetBool("debug")
	logFormat, _ := flags.GetString("log-format")
	delay, _ := flags.GetDuration("delay")
	redisAddr, _ := flags.GetString("redis")
	redisDB, _ := flags.GetInt("redis-db")

	if delay < 0 {
		delay = 0
	}
	return cli.RunOptions{
		ConfigPath: configPath,
		Debug:      debug,
		LogFormat:  logFormat,
		Delay:      delay,
		RedisAddr:  redisAddr,
		RedisDB:    redisDB,
	}
}
