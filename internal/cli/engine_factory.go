package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/vending"
	"github.com/aretw0/vending/pkg/adapters/redis"
	"github.com/aretw0/vending/pkg/config"
	"github.com/aretw0/vending/pkg/observability"
)

// createEngine initializes a vending Engine with standard CLI conventions.
// The returned cleanup closes the engine and any publisher it opened.
func createEngine(opts RunOptions, logger *slog.Logger, extra ...vending.Option) (*vending.Engine, func(), error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	engineOpts := []vending.Option{
		vending.WithConfig(cfg),
		vending.WithLogger(logger),
		vending.WithAnimationDelay(opts.Delay),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, vending.WithLifecycleHooks(observability.LogHooks(logger)))
	}

	var pub *redis.Publisher
	if opts.RedisAddr != "" {
		pub = redis.New(opts.RedisAddr, "", opts.RedisDB)
		engineOpts = append(engineOpts, vending.WithPublisher(pub))
		logger.Info("Publishing snapshots", "redis", opts.RedisAddr, "channel", pub.Channel())
	}
	engineOpts = append(engineOpts, extra...)

	engine, err := vending.New(engineOpts...)
	if err != nil {
		if pub != nil {
			_ = pub.Close()
		}
		return nil, nil, fmt.Errorf("error initializing engine: %w", err)
	}

	cleanup := func() {
		_ = engine.Close()
		if pub != nil {
			_ = pub.Close()
		}
	}
	return engine, cleanup, nil
}
