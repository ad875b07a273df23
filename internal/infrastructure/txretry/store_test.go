package txretry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cenkalti/backoff/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/repository"
	"github.com/jhoicas/erp-core/internal/infrastructure/memory"
	"github.com/jhoicas/erp-core/internal/infrastructure/txretry"
)

// flakyStore falla con conflicto las primeras failures veces.
type flakyStore struct {
	repository.Store
	failures int
	calls    int
}

func (f *flakyStore) Run(ctx context.Context, fn func(repository.Repositories) error) error {
	f.calls++
	if f.calls <= f.failures {
		return domain.Conflict(errors.New("could not serialize access"))
	}
	return f.Store.Run(ctx, fn)
}

func noWait() backoff.BackOff { return &backoff.ZeroBackOff{} }

func newDecorated(t *testing.T, failures, retries int) (*txretry.Store, *flakyStore, *prometheus.Registry, *txretry.Metrics) {
	t.Helper()
	inner := &flakyStore{Store: memory.NewStore(), failures: failures}
	reg := prometheus.NewRegistry()
	m := txretry.NewMetrics(reg)
	s := txretry.New(inner, txretry.WithMaxRetries(retries), txretry.WithBackOff(noWait), txretry.WithMetrics(m))
	return s, inner, reg, m
}

func TestRun_ReintentaConflictos(t *testing.T) {
	s, inner, reg, _ := newDecorated(t, 2, 3)

	var n int64
	err := s.Run(context.Background(), func(r repository.Repositories) error {
		var err error
		n, err = r.Counters.Next(context.Background(), "invoice")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, int64(1), n, "los intentos fallidos no consumen números")

	assert.Equal(t, 2.0, counterValue(t, reg, "store_tx_retries_total", ""))
	assert.Equal(t, 1.0, counterValue(t, reg, "store_tx_total", txretry.OutcomeCommitted))
}

func TestRun_AgotaReintentos(t *testing.T) {
	s, inner, reg, _ := newDecorated(t, 10, 2)

	err := s.Run(context.Background(), func(repository.Repositories) error { return nil })
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, domain.IsRetryable(err))
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, 1.0, counterValue(t, reg, "store_tx_total", txretry.OutcomeConflict))
}

func TestRun_ErrorDeDominioNoSeReintenta(t *testing.T) {
	s, inner, reg, _ := newDecorated(t, 0, 3)

	err := s.Run(context.Background(), func(repository.Repositories) error { return domain.ErrInvoiceVoided })
	assert.ErrorIs(t, err, domain.ErrInvoiceVoided)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1.0, counterValue(t, reg, "store_tx_total", txretry.OutcomeFailed))
	assert.Equal(t, 0.0, counterValue(t, reg, "store_tx_retries_total", ""))
}

func TestRun_SinMetricasNiLogger(t *testing.T) {
	s := txretry.New(memory.NewStore())
	require.NoError(t, s.Run(context.Background(), func(repository.Repositories) error { return nil }))
	assert.NotNil(t, s.Repos().Accounts)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if outcome == "" {
				return m.GetCounter().GetValue()
			}
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "outcome" && lp.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestMetrics_Registradas(t *testing.T) {
	_, _, reg, _ := newDecorated(t, 0, 0)
	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "sin observaciones solo existe el contador de reintentos")
}
