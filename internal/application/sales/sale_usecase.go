// Package sales máquina de estados de ventas y su conciliación con el stock.
package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/inventory"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/billing"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	inv "github.com/jhoicas/erp-core/internal/domain/inventory"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

// SaleUseCase casos de uso de ventas.
type SaleUseCase struct {
	store           repository.Store
	stock           StockLedger
	defaultCurrency string
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(store repository.Store, stock StockLedger, defaultCurrency string) *SaleUseCase {
	return &SaleUseCase{store: store, stock: stock, defaultCurrency: defaultCurrency}
}

// Create crea una venta en DRAFT validando cliente y artículos.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, domain.Validationf("el cliente es obligatorio")
	}
	currency, err := billing.NormalizeCurrency(in.Currency, uc.defaultCurrency)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		CustomerID: in.CustomerID,
		Currency:   currency,
		Status:     entity.SaleStatusDraft,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = uc.store.Run(ctx, func(r repository.Repositories) error {
		customer, err := r.Customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil || !customer.Active {
			return domain.ErrCustomerNotFound
		}
		sale.Items, sale.Total, err = buildItems(ctx, r, in.Items)
		if err != nil {
			return err
		}
		return r.Sales.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, nil), nil
}

// UpdateItems reemplaza ítems y total. Solo en DRAFT.
func (uc *SaleUseCase) UpdateItems(ctx context.Context, id string, items []dto.SaleItemRequest) (*dto.SaleResponse, error) {
	var out *entity.Sale
	err := uc.store.Run(ctx, func(r repository.Repositories) error {
		sale, err := r.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrSaleNotFound
		}
		if sale.Status != entity.SaleStatusDraft {
			return invalidState(sale, "modificar ítems")
		}
		newItems, total, err := buildItems(ctx, r, items)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := r.Sales.ReplaceItems(ctx, id, newItems, total, now); err != nil {
			return err
		}
		sale.Items, sale.Total, sale.UpdatedAt = newItems, total, now
		out = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(out, nil), nil
}

// Confirm pasa la venta a CONFIRMED descontando stock de todas sus líneas en una sola transacción.
// Primero bloquea los registros de stock en orden de código y valida el total requerido por
// artículo; recién entonces registra una salida por línea. Si algo falla no se descuenta nada.
func (uc *SaleUseCase) Confirm(ctx context.Context, id string) (*dto.SaleResponse, error) {
	var (
		out  *entity.Sale
		movs []*entity.StockMovement
	)
	err := uc.store.Run(ctx, func(r repository.Repositories) error {
		movs = nil
		sale, err := r.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrSaleNotFound
		}
		if sale.Status != entity.SaleStatusDraft {
			return invalidState(sale, "confirmar")
		}
		if len(sale.Items) == 0 {
			return fmt.Errorf("%w: la venta no tiene ítems", domain.ErrInvalidState)
		}

		required := sale.RequiredByProduct()
		codes := make([]string, 0, len(required))
		for code := range required {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		available := make(map[string]int64, len(codes))
		for _, code := range codes {
			rec, err := r.Stock.GetForUpdate(ctx, code)
			if err != nil {
				return err
			}
			available[code] = rec.Quantity
		}
		if err := inv.Shortage(codes, required, available); err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, it := range sale.Items {
			mov, err := uc.stock.ApplyInTx(ctx, r, inventory.Movement{
				ProductCode: it.ProductCode,
				Delta:       -it.Quantity,
				Reference:   "venta " + sale.ID,
				At:          now,
			})
			if err != nil {
				return fmt.Errorf("línea %d (%s): %w", it.Position, it.ProductCode, err)
			}
			movs = append(movs, mov)
		}
		if err := r.Sales.UpdateStatus(ctx, sale.ID, entity.SaleStatusConfirmed, now); err != nil {
			return err
		}
		sale.Status, sale.UpdatedAt, sale.ConfirmedAt = entity.SaleStatusConfirmed, now, &now
		out = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(out, movs), nil
}

// Delete elimina una venta en DRAFT.
func (uc *SaleUseCase) Delete(ctx context.Context, id string) error {
	return uc.store.Run(ctx, func(r repository.Repositories) error {
		sale, err := r.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrSaleNotFound
		}
		if sale.Status != entity.SaleStatusDraft {
			return invalidState(sale, "eliminar")
		}
		return r.Sales.Delete(ctx, id)
	})
}

// Get devuelve una venta con sus ítems.
func (uc *SaleUseCase) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.store.Repos().Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrSaleNotFound
	}
	return toSaleResponse(sale, nil), nil
}

// List lista ventas filtrando por estado y cliente, más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, status, customerID string, page dto.PageRequest) ([]*dto.SaleResponse, error) {
	page.DefaultPage()
	if status != "" {
		status = strings.ToUpper(status)
	}
	list, err := uc.store.Repos().Sales.List(ctx, repository.SaleFilter{
		CustomerID: customerID,
		Status:     status,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s, nil))
	}
	return out, nil
}

func buildItems(ctx context.Context, r repository.Repositories, in []dto.SaleItemRequest) ([]entity.SaleItem, decimal.Decimal, error) {
	items := make([]entity.SaleItem, 0, len(in))
	total := decimal.Zero
	for i, it := range in {
		if it.Quantity <= 0 {
			return nil, decimal.Zero, domain.Validationf("línea %d: la cantidad debe ser mayor a cero", i+1)
		}
		if it.Quantity > entity.MaxItemQuantity {
			return nil, decimal.Zero, domain.Validationf("línea %d: la cantidad supera el máximo de %d", i+1, entity.MaxItemQuantity)
		}
		p, err := r.Products.GetByCode(ctx, it.ProductCode)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if p == nil || !p.Active {
			return nil, decimal.Zero, fmt.Errorf("línea %d: %w %s", i+1, domain.ErrProductNotFound, it.ProductCode)
		}
		price := p.Price
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		if price.IsNegative() {
			return nil, decimal.Zero, domain.Validationf("línea %d: precio negativo", i+1)
		}
		if err := domain.CheckMoneyScale(fmt.Sprintf("línea %d: precio", i+1), price); err != nil {
			return nil, decimal.Zero, err
		}
		sub := billing.LineSubtotal(it.Quantity, price)
		items = append(items, entity.SaleItem{
			ID:          uuid.New().String(),
			Position:    i + 1,
			ProductCode: p.Code,
			Quantity:    it.Quantity,
			UnitPrice:   price,
			Subtotal:    sub,
		})
		total = total.Add(sub)
	}
	return items, total, nil
}

func invalidState(s *entity.Sale, op string) error {
	return fmt.Errorf("%w: no se puede %s una venta en estado %s", domain.ErrInvalidState, op, s.Status)
}

func toSaleResponse(s *entity.Sale, movs []*entity.StockMovement) *dto.SaleResponse {
	res := &dto.SaleResponse{
		ID:          s.ID,
		CustomerID:  s.CustomerID,
		Currency:    s.Currency,
		Status:      s.Status,
		Total:       s.Total,
		Notes:       s.Notes,
		Items:       make([]dto.SaleItemResponse, 0, len(s.Items)),
		ConfirmedAt: s.ConfirmedAt,
		CreatedAt:   s.CreatedAt,
	}
	for _, it := range s.Items {
		res.Items = append(res.Items, dto.SaleItemResponse{
			ProductCode: it.ProductCode,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	for _, m := range movs {
		res.Movements = append(res.Movements, *inventory.ToMovementResponse(m))
	}
	return res
}
