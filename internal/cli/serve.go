package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/vending"
	httpAdapter "github.com/aretw0/vending/pkg/adapters/http"
	"github.com/aretw0/vending/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the HTTP server until SIGINT or SIGTERM.
func Serve(opts ServeOptions, out io.Writer) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()
	return ServeContext(sigCtx, opts, out)
}

// ServeContext runs the HTTP server until ctx is done, then shuts it down
// gracefully.
func ServeContext(ctx context.Context, opts ServeOptions, out io.Writer) error {
	logger := createLogger(opts.Debug, opts.LogFormat)

	handlerOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(logger),
		httpAdapter.WithInfo("vending", vending.Version),
	}
	var engineOpts []vending.Option
	if opts.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)
		engineOpts = append(engineOpts, vending.WithLifecycleHooks(metrics.Hooks()))
		handlerOpts = append(handlerOpts, httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	engine, cleanup, err := createEngine(opts.RunOptions, logger, engineOpts...)
	if err != nil {
		return err
	}
	defer cleanup()

	handler, err := httpAdapter.NewHandler(engine, handlerOpts...)
	if err != nil {
		return fmt.Errorf("error building http handler: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		fmt.Fprintf(out, "Starting vending server on %s\n", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		fmt.Fprintln(out, "\nStart shutdown...")

		// SSE streams stay open until their subscriptions end.
		_ = engine.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		fmt.Fprintln(out, "Vending server stopped gracefully")
		return nil
	}
}
