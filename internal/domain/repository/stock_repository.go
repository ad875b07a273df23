package repository

import (
	"context"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// StockRepository puerto del stock por artículo.
type StockRepository interface {
	// Get devuelve (nil, nil) si el artículo nunca tuvo movimientos.
	Get(ctx context.Context, productCode string) (*entity.StockRecord, error)
	// GetForUpdate lee o crea (en 0) el registro y lo bloquea hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, productCode string) (*entity.StockRecord, error)
	Update(ctx context.Context, s *entity.StockRecord) error
}

// StockMovementRepository puerto del historial de movimientos (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	// List devuelve los últimos limit movimientos, más recientes primero; productCode vacío = todos.
	List(ctx context.Context, productCode string, limit int) ([]*entity.StockMovement, error)
}
