package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.CounterRepository = (*CounterRepo)(nil)

// CounterRepo secuencias sobre la tabla counters. El upsert toma el lock de la fila del contador
// hasta el fin de la transacción, así que los números quedan sin huecos y en orden de commit.
type CounterRepo struct {
	q Querier
}

// NewCounterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCounterRepository(q Querier) *CounterRepo {
	return &CounterRepo{q: q}
}

// Next incrementa y devuelve el contador name, creándolo en 1 si no existe.
func (r *CounterRepo) Next(ctx context.Context, name string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO counters (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value`, name).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next counter %s: %w", name, err)
	}
	return n, nil
}
