package repository

import (
	"context"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// CustomerRepository directorio de clientes.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}

// VendorRepository directorio de proveedores.
type VendorRepository interface {
	Create(ctx context.Context, v *entity.Vendor) error
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
}
