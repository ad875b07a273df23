package entity

import "time"

// StockRecord cantidad disponible de un artículo. Nunca negativa.
type StockRecord struct {
	ProductCode string
	Quantity    int64
	UpdatedAt   time.Time
}
