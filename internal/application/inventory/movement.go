package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/erp-core/internal/application/numbering"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	inv "github.com/jhoicas/erp-core/internal/domain/inventory"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

// Movement entrada del primitivo de stock: delta con signo sobre un artículo.
type Movement struct {
	ProductCode string
	Delta       int64
	Reference   string
	At          time.Time
}

// ApplyMovement es la sección crítica del stock: bloquea (o crea en 0) el registro, valida que
// no quede negativo, inserta el movimiento con la cantidad previa, actualiza el registro y lo
// refleja en el artículo. Debe llamarse dentro de TxRunner.Run con los repos de esa transacción.
func ApplyMovement(ctx context.Context, r repository.Repositories, m Movement) (*entity.StockMovement, error) {
	if m.Delta == 0 {
		return nil, domain.Validationf("la cantidad debe ser distinta de cero")
	}
	product, err := r.Products.GetByCode(ctx, m.ProductCode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	stock, err := r.Stock.GetForUpdate(ctx, m.ProductCode)
	if err != nil {
		return nil, err
	}
	next, err := inv.NextQuantity(m.ProductCode, stock.Quantity, m.Delta)
	if err != nil {
		return nil, err
	}

	id, code, err := numbering.Next(ctx, r.Counters, numbering.StockMovement, m.At)
	if err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:             id,
		Code:           code,
		ProductCode:    m.ProductCode,
		Quantity:       m.Delta,
		QuantityBefore: stock.Quantity,
		Reference:      m.Reference,
		CreatedAt:      m.At,
	}
	if err := r.StockMovements.Create(ctx, mov); err != nil {
		return nil, err
	}

	stock.Quantity = next
	stock.UpdatedAt = m.At
	if err := r.Stock.Update(ctx, stock); err != nil {
		return nil, err
	}
	if err := r.Products.SetStock(ctx, m.ProductCode, next); err != nil {
		return nil, err
	}
	return mov, nil
}

// ApplyInTx expone el primitivo a otros casos de uso que ya abrieron la transacción.
func (uc *StockUseCase) ApplyInTx(ctx context.Context, r repository.Repositories, m Movement) (*entity.StockMovement, error) {
	return ApplyMovement(ctx, r, m)
}
