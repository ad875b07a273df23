// Package memory implementa repository.Store en memoria. Una transacción trabaja sobre
// una copia del estado que reemplaza al original solo si fn termina sin error.
package memory

import (
	"context"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.Store = (*Store)(nil)

// Store almacenamiento en memoria con transacciones serializadas.
type Store struct {
	sem chan struct{}
	st  *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{sem: make(chan struct{}, 1), st: newState()}
}

// Run ejecuta fn con exclusión mutua. Si el contexto vence esperando el turno o durante fn,
// no se aplica nada y se devuelve un conflicto reintentable.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return domain.Conflict(ctx.Err())
	}
	defer func() { <-s.sem }()

	work := s.st.clone()
	if err := fn(newRepositories(direct{st: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return domain.Conflict(err)
	}
	s.st = work
	return nil
}

// Repos devuelve repositorios fuera de transacción; cada llamada es atómica por sí sola.
func (s *Store) Repos() repository.Repositories {
	return newRepositories(locked{s: s})
}

// access abstrae si el estado ya está tomado (dentro de Run) o hay que tomarlo por llamada.
type access interface {
	with(fn func(st *state) error) error
}

type direct struct{ st *state }

func (d direct) with(fn func(st *state) error) error { return fn(d.st) }

type locked struct{ s *Store }

func (l locked) with(fn func(st *state) error) error {
	l.s.sem <- struct{}{}
	defer func() { <-l.s.sem }()
	return fn(l.s.st)
}

func newRepositories(a access) repository.Repositories {
	return repository.Repositories{
		Accounts:       &accountRepo{a: a},
		Journal:        &journalRepo{a: a},
		Stock:          &stockRepo{a: a},
		StockMovements: &stockMovementRepo{a: a},
		Products:       &productRepo{a: a},
		Customers:      &customerRepo{a: a},
		Vendors:        &vendorRepo{a: a},
		Sales:          &saleRepo{a: a},
		Invoices:       &invoiceRepo{a: a},
		CreditNotes:    &creditNoteRepo{a: a},
		Collections:    &collectionRepo{a: a},
		VendorPayments: &vendorPaymentRepo{a: a},
		BankAccounts:   &bankAccountRepo{a: a},
		Counters:       &counterRepo{a: a},
	}
}
