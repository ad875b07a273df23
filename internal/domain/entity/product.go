package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product artículo vendible. Stock es un espejo del StockRecord, actualizado en la misma transacción.
type Product struct {
	ID        string
	Code      string // SKU único, ej. ART-2024-0001
	Name      string
	Price     decimal.Decimal // precio de venta
	Stock     int64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
