package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// DateRange filtro de fechas inclusivo; extremos nil = sin límite.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains indica si t cae dentro del rango.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// AccountMovement movimiento de una cuenta junto a los datos de su asiento, en orden de confirmación.
type AccountMovement struct {
	EntryID          string
	EntryNumber      int64
	EntryCode        string
	EntryDate        time.Time
	EntryDescription string
	Debit            decimal.Decimal
	Credit           decimal.Decimal
	Description      string
}

// AccountTotals sumas de debe y haber de una cuenta.
type AccountTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// JournalRepository puerto del libro diario. Los asientos son inmutables: no hay Update ni Delete.
type JournalRepository interface {
	// Create persiste cabecera y movimientos.
	Create(ctx context.Context, e *entity.JournalEntry) error
	GetByID(ctx context.Context, id string) (*entity.JournalEntry, error)
	// List devuelve asientos con movimientos ordenados por número.
	List(ctx context.Context, r DateRange) ([]*entity.JournalEntry, error)
	ListByAccount(ctx context.Context, accountID string) ([]AccountMovement, error)
	TotalsByAccount(ctx context.Context) (map[string]AccountTotals, error)
}
