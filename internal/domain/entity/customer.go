package entity

import "time"

// Customer cliente al que se factura.
type Customer struct {
	ID        string
	Name      string
	TaxID     string // CUIT / DNI
	Email     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
