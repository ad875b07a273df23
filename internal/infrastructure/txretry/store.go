// Package txretry decora un repository.Store reintentando las transacciones que fallan por
// conflicto transitorio (serialización, deadlock, timeout de lock).
package txretry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/repository"
	"github.com/jhoicas/erp-core/pkg/logger"
)

var _ repository.Store = (*Store)(nil)

// Store reintenta Run mientras el error sea reintentable y queden intentos.
type Store struct {
	inner      repository.Store
	maxRetries int
	newBackOff func() backoff.BackOff
	metrics    *Metrics
	log        *logger.Logger
}

// Option configura el decorador.
type Option func(*Store)

// WithMaxRetries reintentos además del primer intento (0 = sin reintentos).
func WithMaxRetries(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithBackOff política de espera entre intentos.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(s *Store) { s.newBackOff = f }
}

// WithMetrics publica contadores de transacciones.
func WithMetrics(m *Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithLogger registra cada reintento.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l.Component("txretry") }
}

// New decora inner. Por defecto 3 reintentos con backoff exponencial desde 20ms.
func New(inner repository.Store, opts ...Option) *Store {
	s := &Store{
		inner:      inner,
		maxRetries: 3,
		newBackOff: defaultBackOff,
		log:        logger.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	return b
}

// Repos delega en el store decorado.
func (s *Store) Repos() repository.Repositories {
	return s.inner.Repos()
}

// Run ejecuta fn en una transacción del store decorado. fn puede ejecutarse más de una vez:
// cada intento parte de un estado sin efectos del anterior.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	start := time.Now()
	attempts := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		err := s.inner.Run(ctx, fn)
		if err != nil && !domain.IsRetryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(s.newBackOff()),
		backoff.WithMaxTries(uint(s.maxRetries+1)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			s.metrics.retry()
			s.log.Warn().Err(err).Int("attempt", attempts).Dur("wait", wait).Msg("conflicto transitorio, reintentando")
		}),
	)
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) && !domain.IsRetryable(err) {
		err = domain.Conflict(err)
	}

	outcome := OutcomeCommitted
	switch {
	case err == nil:
	case domain.IsRetryable(err):
		outcome = OutcomeConflict
	default:
		outcome = OutcomeFailed
	}
	s.metrics.observe(outcome, time.Since(start).Seconds())
	return err
}
