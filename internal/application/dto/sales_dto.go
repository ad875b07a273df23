package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta. UnitPrice nil toma el precio del artículo.
type SaleItemRequest struct {
	ProductCode string           `json:"product_code"`
	Quantity    int64            `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerID string            `json:"customer_id"`
	Currency   string            `json:"currency,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Items      []SaleItemRequest `json:"items"`
}

// UpdateSaleItemsRequest body para PUT /api/sales/:id/items.
type UpdateSaleItemsRequest struct {
	Items []SaleItemRequest `json:"items"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ProductCode string          `json:"product_code"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta con ítems. Movements solo se informa al confirmar.
type SaleResponse struct {
	ID          string                  `json:"id"`
	CustomerID  string                  `json:"customer_id"`
	Currency    string                  `json:"currency"`
	Status      string                  `json:"status"`
	Total       decimal.Decimal         `json:"total"`
	Notes       string                  `json:"notes,omitempty"`
	Items       []SaleItemResponse      `json:"items"`
	ConfirmedAt *time.Time              `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	Movements   []StockMovementResponse `json:"movements,omitempty"`
}
