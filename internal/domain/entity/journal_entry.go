package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry asiento contable. Number es la secuencia sin huecos; Code su forma legible (AST-AAAA-NNNN).
type JournalEntry struct {
	ID          string
	Number      int64
	Code        string
	Date        time.Time
	Description string
	Movements   []Movement
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	CreatedAt   time.Time
}

// Movement línea de un asiento: exactamente uno de Debit/Credit es positivo.
type Movement struct {
	ID          string
	EntryID     string
	Position    int
	AccountID   string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}
