package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/vending/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vending"

// Metrics holds the Prometheus collectors for one engine.
type Metrics struct {
	CoinsInserted *prometheus.CounterVec
	Accepted      prometheus.Counter
	Dispensed     prometheus.Counter
	Resets        prometheus.Counter
	Rejections    *prometheus.CounterVec
	Change        prometheus.Histogram
	Level         prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CoinsInserted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "coins_inserted_total",
				Help:      "Total number of accepted coins, by denomination",
			},
			[]string{"coin"},
		),
		Accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_accepted_total",
			Help:      "Total number of runs that met the price",
		}),
		Dispensed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "products_dispensed_total",
			Help:      "Total number of products dispensed",
		}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Total number of resets",
		}),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejections_total",
				Help:      "Total number of ignored operations",
			},
			[]string{"operation", "reason"},
		),
		Change: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "change_cents",
			Help:      "Change handed back per dispensed product",
			Buckets:   []float64{0, 5, 10, 15, 20, 25, 50},
		}),
		Level: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_level_cents",
			Help:      "Accumulated level of the current run",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.CoinsInserted,
			m.Accepted,
			m.Dispensed,
			m.Resets,
			m.Rejections,
			m.Change,
			m.Level,
		)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			m.CoinsInserted.WithLabelValues(strconv.Itoa(int(e.Record.Coin))).Inc()
			m.Level.Set(float64(e.Record.To))
		},
		OnAccept: func(ctx context.Context, e *domain.RunEvent) {
			m.Accepted.Inc()
		},
		OnDispense: func(ctx context.Context, e *domain.RunEvent) {
			m.Dispensed.Inc()
			m.Change.Observe(float64(e.Change))
		},
		OnReset: func(ctx context.Context, e *domain.RunEvent) {
			m.Resets.Inc()
			m.Level.Set(float64(e.Level))
		},
		OnReject: func(ctx context.Context, e *domain.RejectEvent) {
			m.Rejections.WithLabelValues(e.Operation, string(e.Reason)).Inc()
		},
	}
}
