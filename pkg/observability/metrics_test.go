package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/vending"
	"github.com/aretw0/vending/pkg/domain"
	"github.com/aretw0/vending/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	eng, err := vending.New(vending.WithLifecycleHooks(m.Hooks()))
	require.NoError(t, err)
	ctx := context.Background()

	eng.Dispense(ctx)
	for _, c := range []vending.Coin{10, 25} {
		_, err := eng.InsertCoin(ctx, c)
		require.NoError(t, err)
	}
	eng.Dispense(ctx)
	_, err = eng.InsertCoin(ctx, 5)
	require.NoError(t, err)
	eng.Reset(ctx)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CoinsInserted.WithLabelValues("10")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CoinsInserted.WithLabelValues("25")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CoinsInserted.WithLabelValues("5")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Accepted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dispensed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resets))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Level))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejections.WithLabelValues("dispense", "not_accepting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejections.WithLabelValues("insert_coin", "delivered")))

	assert.Equal(t, 1, testutil.CollectAndCount(m.Change))
}

func TestMetrics_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	m.Hooks().OnAccept(context.Background(), &domain.RunEvent{})

	expected := `
# HELP vending_runs_accepted_total Total number of runs that met the price
# TYPE vending_runs_accepted_total counter
vending_runs_accepted_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "vending_runs_accepted_total"))
}

func TestNewMetrics_NilRegisterer(t *testing.T) {
	assert.NotPanics(t, func() {
		observability.NewMetrics(nil)
		observability.NewMetrics(nil)
	})
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	eng, err := vending.New(vending.WithLifecycleHooks(observability.LogHooks(logger)))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = eng.InsertCoin(ctx, 25)
	require.NoError(t, err)
	eng.Dispense(ctx)

	out := buf.String()
	assert.Contains(t, out, "msg=coin_inserted")
	assert.Contains(t, out, "coin=25")
	assert.Contains(t, out, "msg=rejected")
	assert.Contains(t, out, "reason=not_accepting")
}
