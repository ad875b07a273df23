package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var (
	_ repository.StockRepository         = (*StockRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un artículo; nil si nunca tuvo registro.
func (r *StockRepo) Get(ctx context.Context, productCode string) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, `
		SELECT product_code, quantity, updated_at
		FROM stock WHERE product_code = $1`, productCode).Scan(&s.ProductCode, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate crea el registro en 0 si falta y lo bloquea (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productCode string) (*entity.StockRecord, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (product_code, quantity, updated_at) VALUES ($1, 0, now())
		ON CONFLICT (product_code) DO NOTHING`, productCode)
	if err != nil {
		return nil, fmt.Errorf("ensure stock: %w", err)
	}
	var s entity.StockRecord
	err = r.q.QueryRow(ctx, `
		SELECT product_code, quantity, updated_at
		FROM stock WHERE product_code = $1
		FOR UPDATE`, productCode).Scan(&s.ProductCode, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Update persiste la cantidad. El CHECK de la tabla rechaza cantidades negativas.
func (r *StockRepo) Update(ctx context.Context, s *entity.StockRecord) error {
	_, err := r.q.Exec(ctx, `
		UPDATE stock SET quantity = $2, updated_at = $3 WHERE product_code = $1`,
		s.ProductCode, s.Quantity, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// StockMovementRepo historial de movimientos de stock (solo inserción).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, code, product_code, quantity, quantity_before, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Code, m.ProductCode, m.Quantity, m.QuantityBefore, m.Reference, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// List últimos movimientos, más recientes primero. productCode vacío lista todos.
func (r *StockMovementRepo) List(ctx context.Context, productCode string, limit int) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, code, product_code, quantity, quantity_before, reference, created_at
		FROM stock_movements
		WHERE $1 = '' OR product_code = $1
		ORDER BY id DESC
		LIMIT $2`, productCode, limit)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.Code, &m.ProductCode, &m.Quantity, &m.QuantityBefore, &m.Reference, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
