package entity

import (
	"strings"
	"time"
)

// Dirección de un movimiento de stock.
const (
	MovementDirectionIn  = "IN"
	MovementDirectionOut = "OUT"
)

// ParseMovementDirection acepta IN/OUT y los nombres heredados ingreso/egreso.
func ParseMovementDirection(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case MovementDirectionIn, "INGRESO", "ENTRADA":
		return MovementDirectionIn, true
	case MovementDirectionOut, "EGRESO", "SALIDA":
		return MovementDirectionOut, true
	}
	return "", false
}

// StockMovement registro inmutable de un cambio de stock.
// ID crece con el orden de confirmación; QuantityBefore es la cantidad previa al cambio.
type StockMovement struct {
	ID             int64
	Code           string
	ProductCode    string
	Quantity       int64 // con signo: positivo entrada, negativo salida
	QuantityBefore int64
	Reference      string // venta, remito, ajuste
	CreatedAt      time.Time
}

// QuantityAfter cantidad resultante del movimiento.
func (m StockMovement) QuantityAfter() int64 { return m.QuantityBefore + m.Quantity }

// Direction IN u OUT según el signo.
func (m StockMovement) Direction() string {
	if m.Quantity < 0 {
		return MovementDirectionOut
	}
	return MovementDirectionIn
}
