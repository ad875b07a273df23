package sales

import (
	"context"

	"github.com/jhoicas/erp-core/internal/application/inventory"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

// StockLedger primitivo de movimientos de stock usado dentro de la transacción de confirmación.
// Lo implementa *inventory.StockUseCase.
type StockLedger interface {
	ApplyInTx(ctx context.Context, r repository.Repositories, m inventory.Movement) (*entity.StockMovement, error)
}
