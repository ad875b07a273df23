package inventory

import (
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// SignedDelta convierte cantidad y dirección en el delta con signo que se aplica al stock.
func SignedDelta(quantity int64, direction string) (int64, error) {
	if quantity <= 0 {
		return 0, domain.Validationf("la cantidad debe ser mayor a cero")
	}
	dir, ok := entity.ParseMovementDirection(direction)
	if !ok {
		return 0, domain.Validationf("dirección de movimiento inválida: %q", direction)
	}
	if dir == entity.MovementDirectionOut {
		return -quantity, nil
	}
	return quantity, nil
}

// NextQuantity calcula la cantidad resultante; una salida que deja el stock negativo se rechaza.
func NextQuantity(productCode string, current, delta int64) (int64, error) {
	next := current + delta
	if next < 0 {
		return 0, &domain.InsufficientStockError{ProductCode: productCode, Available: current, Requested: -delta}
	}
	return next, nil
}

// Shortage devuelve el primer artículo cuyo requerimiento supera lo disponible, recorriendo codes en orden.
func Shortage(codes []string, required, available map[string]int64) error {
	for _, code := range codes {
		if required[code] > available[code] {
			return &domain.InsufficientStockError{ProductCode: code, Available: available[code], Requested: required[code]}
		}
	}
	return nil
}
