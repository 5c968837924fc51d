package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/vending/internal/presentation/tui"
	"github.com/aretw0/vending/pkg/adapters/redis"
	"github.com/aretw0/vending/pkg/automaton"
	"github.com/aretw0/vending/pkg/config"
	"github.com/muesli/termenv"
	backend "github.com/redis/go-redis/v9"
)

// Watch follows the snapshots another process publishes to redis and renders
// each one. It returns when ctx is done.
func Watch(ctx context.Context, opts WatchOptions, configPath string, out io.Writer) error {
	logger := createLogger(opts.Debug, "")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	m, err := automaton.New(cfg)
	if err != nil {
		return err
	}

	client := backend.NewClient(&backend.Options{Addr: opts.RedisAddr, DB: opts.RedisDB})
	defer client.Close()

	subOpts := []redis.SubscriberOption{redis.WithSubscriberLogger(logger)}
	if opts.Prefix != "" {
		subOpts = append(subOpts, redis.WithSubscriberPrefix(opts.Prefix))
	}
	sub := redis.NewSubscriber(client, subOpts...)

	var profile termenv.Profile = termenv.Ascii
	if out == io.Writer(os.Stdout) {
		profile = termenv.ColorProfile()
	}
	view := tui.RunView{Machine: m, Profile: profile}

	ch, err := sub.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	latest, err := sub.Latest(ctx)
	switch {
	case err == nil:
		view.Render(out, latest)
		fmt.Fprintln(out)
	case errors.Is(err, redis.ErrNoSnapshot):
		printSystemMessage(out, "Waiting for the first snapshot on %s...", opts.RedisAddr)
	default:
		return fmt.Errorf("failed to read latest snapshot: %w", err)
	}

	for run := range ch {
		view.Render(out, run)
		fmt.Fprintln(out)
	}

	if err := ctx.Err(); err != nil && !isInterrupted(err) {
		return err
	}
	return nil
}
