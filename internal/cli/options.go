package cli

import "time"

// RunOptions contains all the configuration shared by the commands that
// build an engine.
type RunOptions struct {
	ConfigPath string
	Delay      time.Duration
	Debug      bool
	LogFormat  string
	Headless   bool
	JSON       bool
	RedisAddr  string
	RedisDB    int
}

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	RunOptions
	Port    string
	Metrics bool
}

// WatchOptions configures the snapshot feed reader.
type WatchOptions struct {
	RedisAddr string
	RedisDB   int
	Prefix    string
	Debug     bool
}
