package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.Store = (*Store)(nil)

// Store ejecuta callbacks dentro de una transacción PostgreSQL READ COMMITTED con bloqueo de filas.
// txTimeout acota la espera de locks y la duración de cada sentencia; al vencer, el error se
// devuelve como conflicto reintentable.
type Store struct {
	pool      *pgxpool.Pool
	txTimeout time.Duration
}

// NewStore construye el store con el pool.
func NewStore(pool *pgxpool.Pool, txTimeout time.Duration) *Store {
	return &Store{pool: pool, txTimeout: txTimeout}
}

// Repos repositorios sobre el pool, para lecturas fuera de transacción.
func (s *Store) Repos() repository.Repositories {
	return newRepositories(s.pool)
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return classify(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if s.txTimeout > 0 {
		ms := s.txTimeout.Milliseconds()
		for _, setting := range []string{"lock_timeout", "statement_timeout"} {
			if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL %s = %d", setting, ms)); err != nil {
				return classify(fmt.Errorf("set %s: %w", setting, err))
			}
		}
	}

	if err := fn(newRepositories(tx)); err != nil {
		return classify(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classify(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

func newRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Accounts:       NewAccountRepository(q),
		Journal:        NewJournalRepository(q),
		Stock:          NewStockRepository(q),
		StockMovements: NewStockMovementRepository(q),
		Products:       NewProductRepository(q),
		Customers:      NewCustomerRepository(q),
		Vendors:        NewVendorRepository(q),
		Sales:          NewSaleRepository(q),
		Invoices:       NewInvoiceRepository(q),
		CreditNotes:    NewCreditNoteRepository(q),
		Collections:    NewCollectionRepository(q),
		VendorPayments: NewVendorPaymentRepository(q),
		BankAccounts:   NewBankAccountRepository(q),
		Counters:       NewCounterRepository(q),
	}
}
