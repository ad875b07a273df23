package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// SaleFilter filtros de listado de ventas.
type SaleFilter struct {
	CustomerID string
	Status     string
	Limit      int
	Offset     int
}

// SaleRepository puerto de ventas (cabecera + ítems).
type SaleRepository interface {
	Create(ctx context.Context, s *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera; los ítems se devuelven cargados.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	ReplaceItems(ctx context.Context, saleID string, items []entity.SaleItem, total decimal.Decimal, at time.Time) error
	UpdateStatus(ctx context.Context, id, status string, at time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, error)
}
