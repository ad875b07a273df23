package repository

import "context"

// CounterRepository secuencias con nombre. Next es transaccional: un rollback no deja huecos.
type CounterRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

// Repositories conjunto de repositorios atados a una misma conexión o transacción.
type Repositories struct {
	Accounts       AccountRepository
	Journal        JournalRepository
	Stock          StockRepository
	StockMovements StockMovementRepository
	Products       ProductRepository
	Customers      CustomerRepository
	Vendors        VendorRepository
	Sales          SaleRepository
	Invoices       InvoiceRepository
	CreditNotes    CreditNoteRepository
	Collections    CollectionRepository
	VendorPayments VendorPaymentRepository
	BankAccounts   BankAccountRepository
	Counters       CounterRepository
}

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error no persiste ningún efecto. Los conflictos de concurrencia
// se devuelven envolviendo domain.ErrConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}

// Store almacenamiento transaccional: Repos para lecturas fuera de transacción.
type Store interface {
	TxRunner
	Repos() Repositories
}
