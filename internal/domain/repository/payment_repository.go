package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// CollectionRepository puerto de cobros a clientes.
type CollectionRepository interface {
	Create(ctx context.Context, c *entity.Collection) error
	GetByID(ctx context.Context, id string) (*entity.Collection, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Collection, error)
	MarkVoided(ctx context.Context, id string, at time.Time) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Collection, error)
}

// VendorPaymentRepository puerto de pagos a proveedores.
type VendorPaymentRepository interface {
	Create(ctx context.Context, p *entity.VendorPayment) error
	GetByID(ctx context.Context, id string) (*entity.VendorPayment, error)
	GetForUpdate(ctx context.Context, id string) (*entity.VendorPayment, error)
	MarkVoided(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, vendorID string) ([]*entity.VendorPayment, error)
}

// BankAccountRepository puerto de cuentas bancarias.
type BankAccountRepository interface {
	Create(ctx context.Context, b *entity.BankAccount) error
	GetByID(ctx context.Context, id string) (*entity.BankAccount, error)
	GetForUpdate(ctx context.Context, id string) (*entity.BankAccount, error)
	AddBalance(ctx context.Context, id string, delta decimal.Decimal) error
	List(ctx context.Context) ([]*entity.BankAccount, error)
}
