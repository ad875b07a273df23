package txretry

import "github.com/prometheus/client_golang/prometheus"

// Resultados de una transacción.
const (
	OutcomeCommitted = "committed"
	OutcomeFailed    = "failed"
	OutcomeConflict  = "conflict"
)

// Metrics contadores de transacciones del store.
type Metrics struct {
	tx       *prometheus.CounterVec
	retries  prometheus.Counter
	duration *prometheus.HistogramVec
}

// NewMetrics crea y registra las métricas en reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tx: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "store_tx_total",
			Help: "Transacciones ejecutadas por resultado.",
		}, []string{"outcome"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "store_tx_retries_total",
			Help: "Reintentos por conflicto transitorio.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "store_tx_duration_seconds",
			Help:    "Duración de la transacción incluyendo reintentos.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.tx, m.retries, m.duration)
	return m
}

func (m *Metrics) observe(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.tx.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(seconds)
}

func (m *Metrics) retry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}
