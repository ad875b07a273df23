// Package billing facturación: emisión y anulación de facturas, cobros y notas de crédito.
package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/numbering"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/billing"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// InvoiceUseCase emisión, anulación y consulta de facturas.
type InvoiceUseCase struct {
	store    repository.Store
	defaults Defaults
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(store repository.Store, defaults Defaults) *InvoiceUseCase {
	return &InvoiceUseCase{store: store, defaults: defaults}
}

// Create emite una factura. Con SaleID copia los ítems de una venta CONFIRMED y la pasa a
// INVOICED en la misma transacción; sin SaleID usa las líneas manuales del request.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, domain.Validationf("el cliente es obligatorio")
	}
	if in.SaleID != "" && len(in.Lines) > 0 {
		return nil, domain.Validationf("una factura de venta no admite líneas manuales")
	}
	if in.SaleID == "" && len(in.Lines) == 0 {
		return nil, domain.Validationf("la factura debe tener al menos una línea")
	}
	rate := uc.defaults.TaxRate
	if in.TaxRate != nil {
		rate = *in.TaxRate
	}
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return nil, domain.Validationf("tasa de impuesto inválida: %s", rate)
	}
	if err := domain.CheckMoneyScale("tasa de impuesto", rate); err != nil {
		return nil, err
	}

	issue := time.Now().UTC()
	if in.IssueDate != nil {
		issue = in.IssueDate.UTC()
	}
	due := issue.AddDate(0, 0, uc.defaults.DueDays)
	if in.DueDate != nil {
		due = in.DueDate.UTC()
	}
	if due.Before(issue) {
		return nil, domain.Validationf("el vencimiento no puede ser anterior a la emisión")
	}

	now := time.Now().UTC()
	inv := &entity.Invoice{
		ID:              uuid.New().String(),
		IssueDate:       issue,
		DueDate:         due,
		CustomerID:      in.CustomerID,
		SaleID:          in.SaleID,
		TaxRate:         rate,
		AmountCollected: decimal.Zero,
		AmountCredited:  decimal.Zero,
		Status:          entity.InvoiceStatusIssued,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := uc.store.Run(ctx, func(r repository.Repositories) error {
		customer, err := r.Customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil || !customer.Active {
			return domain.ErrCustomerNotFound
		}

		if in.SaleID != "" {
			if err := uc.fromSale(ctx, r, inv, in.Currency); err != nil {
				return err
			}
		} else {
			inv.Currency, err = billing.NormalizeCurrency(in.Currency, uc.defaults.Currency)
			if err != nil {
				return err
			}
			if inv.Lines, err = manualLines(ctx, r, inv.ID, in.Lines); err != nil {
				return err
			}
		}

		inv.Subtotal, inv.TaxAmount, inv.Total = billing.Totals(inv.Lines, rate)
		if !inv.Total.IsPositive() {
			return domain.Validationf("el total de la factura debe ser mayor a cero")
		}
		billing.Recompute(inv)

		_, inv.Number, err = numbering.Next(ctx, r.Counters, numbering.Invoice, issue)
		if err != nil {
			return err
		}
		if err := r.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		if in.SaleID != "" {
			return r.Sales.UpdateStatus(ctx, in.SaleID, entity.SaleStatusInvoiced, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

func (uc *InvoiceUseCase) fromSale(ctx context.Context, r repository.Repositories, inv *entity.Invoice, currency string) error {
	sale, err := r.Sales.GetForUpdate(ctx, inv.SaleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrSaleNotFound
	}
	if sale.Status != entity.SaleStatusConfirmed {
		return fmt.Errorf("%w: solo se factura una venta CONFIRMED (estado actual %s)", domain.ErrInvalidState, sale.Status)
	}
	if sale.CustomerID != inv.CustomerID {
		return domain.Validationf("la venta pertenece a otro cliente")
	}
	if currency != "" {
		c, err := billing.NormalizeCurrency(currency, sale.Currency)
		if err != nil {
			return err
		}
		if c != sale.Currency {
			return domain.ErrCurrencyMismatch
		}
	}
	inv.Currency = sale.Currency
	inv.Lines = make([]entity.InvoiceLine, 0, len(sale.Items))
	for i, it := range sale.Items {
		desc := it.ProductCode
		if p, err := r.Products.GetByCode(ctx, it.ProductCode); err != nil {
			return err
		} else if p != nil {
			desc = p.Name
		}
		inv.Lines = append(inv.Lines, entity.InvoiceLine{
			ID:          uuid.New().String(),
			InvoiceID:   inv.ID,
			Position:    i + 1,
			ProductCode: it.ProductCode,
			Description: desc,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return nil
}

func manualLines(ctx context.Context, r repository.Repositories, invoiceID string, in []dto.InvoiceLineRequest) ([]entity.InvoiceLine, error) {
	lines := make([]entity.InvoiceLine, 0, len(in))
	for i, l := range in {
		if l.Quantity <= 0 {
			return nil, domain.Validationf("línea %d: la cantidad debe ser mayor a cero", i+1)
		}
		line := entity.InvoiceLine{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			Position:    i + 1,
			ProductCode: strings.TrimSpace(l.ProductCode),
			Description: strings.TrimSpace(l.Description),
			Quantity:    l.Quantity,
		}
		if line.ProductCode != "" {
			p, err := r.Products.GetByCode(ctx, line.ProductCode)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, fmt.Errorf("línea %d: %w", i+1, domain.ErrProductNotFound)
			}
			line.UnitPrice = p.Price
			if line.Description == "" {
				line.Description = p.Name
			}
		} else if line.Description == "" {
			return nil, domain.Validationf("línea %d: descripción o artículo obligatorio", i+1)
		}
		if l.UnitPrice != nil {
			line.UnitPrice = *l.UnitPrice
		} else if line.ProductCode == "" {
			return nil, domain.Validationf("línea %d: precio obligatorio", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return nil, domain.Validationf("línea %d: precio negativo", i+1)
		}
		if err := domain.CheckMoneyScale(fmt.Sprintf("línea %d: precio", i+1), line.UnitPrice); err != nil {
			return nil, err
		}
		line.Subtotal = billing.LineSubtotal(line.Quantity, line.UnitPrice)
		lines = append(lines, line)
	}
	return lines, nil
}

// Void anula una factura. Una factura PAID no se puede anular.
func (uc *InvoiceUseCase) Void(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	var out *entity.Invoice
	err := uc.store.Run(ctx, func(r repository.Repositories) error {
		inv, err := r.Invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
		switch inv.Status {
		case entity.InvoiceStatusVoid:
			return domain.ErrInvoiceVoided
		case entity.InvoiceStatusPaid:
			return domain.ErrCannotVoidPaidInvoice
		}
		inv.Status = entity.InvoiceStatusVoid
		billing.Recompute(inv)
		inv.UpdatedAt = time.Now().UTC()
		if err := r.Invoices.UpdateSettlement(ctx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(out), nil
}

// Get obtiene una factura con sus líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.store.Repos().Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvoiceNotFound
	}
	return toInvoiceResponse(inv), nil
}

// List lista facturas filtrando por estado y/o cliente.
func (uc *InvoiceUseCase) List(ctx context.Context, status, customerID string, page dto.PageRequest) ([]*dto.InvoiceResponse, error) {
	if status != "" {
		s, ok := entity.ParseInvoiceStatus(status)
		if !ok {
			return nil, domain.Validationf("estado de factura inválido: %q", status)
		}
		status = s
	}
	page.DefaultPage()
	list, err := uc.store.Repos().Invoices.List(ctx, repository.InvoiceFilter{
		CustomerID: customerID,
		Status:     status,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv))
	}
	return out, nil
}

// OutstandingByCustomer saldo pendiente por cliente y moneda, excluyendo facturas anuladas.
func (uc *InvoiceUseCase) OutstandingByCustomer(ctx context.Context) ([]dto.OutstandingResponse, error) {
	repos := uc.store.Repos()
	rows, err := repos.Invoices.OutstandingByCustomer(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string)
	out := make([]dto.OutstandingResponse, 0, len(rows))
	for _, row := range rows {
		name, ok := names[row.CustomerID]
		if !ok {
			c, err := repos.Customers.GetByID(ctx, row.CustomerID)
			if err != nil {
				return nil, err
			}
			if c != nil {
				name = c.Name
			}
			names[row.CustomerID] = name
		}
		out = append(out, dto.OutstandingResponse{
			CustomerID:   row.CustomerID,
			CustomerName: name,
			Currency:     row.Currency,
			Invoices:     row.Invoices,
			BalanceDue:   row.BalanceDue,
		})
	}
	return out, nil
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:              inv.ID,
		Number:          inv.Number,
		CustomerID:      inv.CustomerID,
		SaleID:          inv.SaleID,
		Currency:        inv.Currency,
		IssueDate:       inv.IssueDate,
		DueDate:         inv.DueDate,
		Subtotal:        inv.Subtotal,
		TaxRate:         inv.TaxRate,
		TaxAmount:       inv.TaxAmount,
		Total:           inv.Total,
		AmountCollected: inv.AmountCollected,
		AmountCredited:  inv.AmountCredited,
		BalanceDue:      inv.BalanceDue,
		Status:          inv.Status,
		Notes:           inv.Notes,
		Lines:           toLineResponses(inv.Lines),
	}
}

func toLineResponses(lines []entity.InvoiceLine) []dto.InvoiceLineResponse {
	out := make([]dto.InvoiceLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.InvoiceLineResponse{
			ProductCode: l.ProductCode,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	return out
}
