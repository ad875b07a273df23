package entity

import "time"

// Vendor proveedor al que se le paga desde tesorería.
type Vendor struct {
	ID        string
	Name      string
	TaxID     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
