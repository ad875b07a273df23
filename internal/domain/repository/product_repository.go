package repository

import (
	"context"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// ProductRepository directorio de artículos.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// SetStock refleja la cantidad del StockRecord en el artículo.
	SetStock(ctx context.Context, code string, quantity int64) error
}
