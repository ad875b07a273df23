package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusDraft     = "DRAFT"
	SaleStatusConfirmed = "CONFIRMED"
	SaleStatusInvoiced  = "INVOICED"
)

// MaxItemQuantity tope de unidades por línea de venta.
const MaxItemQuantity int64 = 1_000_000_000

// Sale pedido de venta. Los ítems solo pueden cambiar en DRAFT.
type Sale struct {
	ID          string
	CustomerID  string
	Currency    string
	Status      string
	Items       []SaleItem
	Total       decimal.Decimal
	Notes       string
	ConfirmedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SaleItem línea de venta; Subtotal = Quantity * UnitPrice.
type SaleItem struct {
	ID          string
	SaleID      string
	Position    int
	ProductCode string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// RequiredByProduct suma las cantidades pedidas por artículo.
// La suma se satura en math.MaxInt64 en lugar de desbordar.
func (s *Sale) RequiredByProduct() map[string]int64 {
	req := make(map[string]int64, len(s.Items))
	for _, it := range s.Items {
		cur := req[it.ProductCode]
		if it.Quantity > math.MaxInt64-cur {
			req[it.ProductCode] = math.MaxInt64
			continue
		}
		req[it.ProductCode] = cur + it.Quantity
	}
	return req
}
