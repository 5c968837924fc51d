package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	want := []string{"run", "serve", "mcp", "graph", "describe", "validate", "watch", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestRunOptionsFromFlags(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"serve"})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags([]string{"--config", "machine.yaml", "--delay", "250ms", "--redis", "localhost:6379", "--debug"}))

	opts := runOptions(cmd)
	assert.Equal(t, "machine.yaml", opts.ConfigPath)
	assert.Equal(t, 250*time.Millisecond, opts.Delay)
	assert.Equal(t, "localhost:6379", opts.RedisAddr)
	assert.True(t, opts.Debug)
}
