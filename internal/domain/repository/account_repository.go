package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// AccountRepository puerto del plan de cuentas. Los Get devuelven (nil, nil) si no existe.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByCode(ctx context.Context, code string) (*entity.Account, error)
	// GetForUpdate bloquea la fila de la cuenta hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Account, error)
	Update(ctx context.Context, a *entity.Account) error
	AddBalance(ctx context.Context, id string, delta decimal.Decimal) error
	List(ctx context.Context, includeInactive bool) ([]*entity.Account, error)
	HasMovements(ctx context.Context, id string) (bool, error)
}
