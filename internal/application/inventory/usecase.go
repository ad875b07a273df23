package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	inv "github.com/jhoicas/erp-core/internal/domain/inventory"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

// DefaultMovementsLimit cantidad de movimientos que se listan si no se indica otra.
const DefaultMovementsLimit = 100

// StockUseCase registra movimientos de stock de forma transaccional y expone consultas.
type StockUseCase struct {
	store repository.Store
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(store repository.Store) *StockUseCase {
	return &StockUseCase{store: store}
}

// RecordMovement registra una entrada (IN) o salida (OUT) en una transacción propia.
func (uc *StockUseCase) RecordMovement(ctx context.Context, in dto.RecordMovementRequest) (*dto.StockMovementResponse, error) {
	code := strings.TrimSpace(in.ProductCode)
	if code == "" {
		return nil, domain.Validationf("el código de artículo es obligatorio")
	}
	delta, err := inv.SignedDelta(in.Quantity, in.Direction)
	if err != nil {
		return nil, err
	}

	var mov *entity.StockMovement
	err = uc.store.Run(ctx, func(r repository.Repositories) error {
		var err error
		mov, err = ApplyMovement(ctx, r, Movement{
			ProductCode: code,
			Delta:       delta,
			Reference:   in.Reference,
			At:          time.Now().UTC(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// GetStock cantidad actual del artículo (0 si nunca tuvo movimientos) y sus últimos movimientos.
func (uc *StockUseCase) GetStock(ctx context.Context, productCode string, movements int) (*dto.StockResponse, error) {
	repos := uc.store.Repos()
	product, err := repos.Products.GetByCode(ctx, productCode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	res := &dto.StockResponse{ProductCode: productCode}
	rec, err := repos.Stock.Get(ctx, productCode)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		res.Quantity = rec.Quantity
		updated := rec.UpdatedAt
		res.UpdatedAt = &updated
	}
	if movements > 0 {
		res.Movements, err = uc.ListMovements(ctx, productCode, movements)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ListMovements últimos movimientos, más recientes primero. productCode vacío lista todos.
func (uc *StockUseCase) ListMovements(ctx context.Context, productCode string, limit int) ([]dto.StockMovementResponse, error) {
	if limit <= 0 {
		limit = DefaultMovementsLimit
	}
	list, err := uc.store.Repos().StockMovements.List(ctx, productCode, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *ToMovementResponse(m))
	}
	return out, nil
}

// ToMovementResponse convierte un movimiento a su DTO.
func ToMovementResponse(m *entity.StockMovement) *dto.StockMovementResponse {
	return &dto.StockMovementResponse{
		ID:             m.ID,
		Code:           m.Code,
		ProductCode:    m.ProductCode,
		Direction:      m.Direction(),
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter(),
		Reference:      m.Reference,
		CreatedAt:      m.CreatedAt,
	}
}
