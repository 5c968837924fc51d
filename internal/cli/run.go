package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/vending"
	"github.com/aretw0/vending/internal/presentation/tui"
	"github.com/aretw0/vending/pkg/runner"
	"github.com/muesli/termenv"
)

// Execute handles the 'run' command logic on the process streams.
func Execute(opts RunOptions) error {
	if opts.JSON && !opts.Headless {
		opts.Headless = true
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	err := RunSession(sigCtx, opts, os.Stdin, os.Stdout)
	if isInterrupted(err) {
		return nil
	}
	return err
}

// RunSession drives one engine with the runner until the input ends, the
// user exits or ctx is cancelled.
func RunSession(ctx context.Context, opts RunOptions, in io.Reader, out io.Writer) error {
	logger := createLogger(opts.Debug, opts.LogFormat)

	engine, cleanup, err := createEngine(opts, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var profile termenv.Profile = termenv.Ascii
	if out == io.Writer(os.Stdout) {
		profile = termenv.ColorProfile()
	}

	if !opts.Headless {
		tui.PrintBanner(out, profile)
		fmt.Fprintf(out, "v%s\n\n", vending.Version)
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(in, out)
	} else {
		handler = runner.NewTextHandler(in, out,
			runner.WithTextHandlerRenderer(viewRenderer(engine.Machine(), profile)),
		)
	}

	r := runner.NewRunner(
		runner.WithEngine(engine),
		runner.WithLogger(logger),
		runner.WithHeadless(opts.Headless),
		runner.WithInputHandler(handler),
	)

	logger.Info("Starting session", "price", engine.Machine().Price(), "delay", opts.Delay)
	runErr := r.Run(ctx)

	if !opts.JSON {
		var sig os.Signal
		if sc, ok := ctx.(*SignalContext); ok {
			sig = sc.Signal()
		}
		logCompletion(out, sig, engine.Snapshot(), runErr)
	}
	return runErr
}
