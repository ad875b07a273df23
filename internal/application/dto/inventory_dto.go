package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ProductResponse artículo con su stock reflejado.
type ProductResponse struct {
	ID     string          `json:"id"`
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Stock  int64           `json:"stock"`
	Active bool            `json:"active"`
}

// RecordMovementRequest body para POST /api/inventory/movements. Direction: IN | OUT.
type RecordMovementRequest struct {
	ProductCode string `json:"product_code"`
	Quantity    int64  `json:"quantity"`
	Direction   string `json:"direction"`
	Reference   string `json:"reference,omitempty"`
}

// StockMovementResponse movimiento de stock registrado.
type StockMovementResponse struct {
	ID             int64     `json:"id"`
	Code           string    `json:"code"`
	ProductCode    string    `json:"product_code"`
	Direction      string    `json:"direction"`
	Quantity       int64     `json:"quantity"`
	QuantityBefore int64     `json:"quantity_before"`
	QuantityAfter  int64     `json:"quantity_after"`
	Reference      string    `json:"reference,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// StockResponse stock actual y últimos movimientos de un artículo.
type StockResponse struct {
	ProductCode string                  `json:"product_code"`
	Quantity    int64                   `json:"quantity"`
	UpdatedAt   *time.Time              `json:"updated_at,omitempty"`
	Movements   []StockMovementResponse `json:"movements,omitempty"`
}
