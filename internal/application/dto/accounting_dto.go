package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAccountRequest body para POST /api/accounts. Type admite ASSET.. o activo, pasivo, ...
type CreateAccountRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// UpdateAccountRequest body para PATCH /api/accounts/:id; campos nil no se modifican.
type UpdateAccountRequest struct {
	Code *string `json:"code,omitempty"`
	Name *string `json:"name,omitempty"`
	Type *string `json:"type,omitempty"`
}

// AccountResponse cuenta contable con su saldo.
type AccountResponse struct {
	ID      string          `json:"id"`
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Balance decimal.Decimal `json:"balance"`
	Active  bool            `json:"active"`
}

// MovementRequest línea de un asiento.
type MovementRequest struct {
	AccountID   string          `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// CommitEntryRequest body para POST /api/journal/entries. Date vacío = ahora.
type CommitEntryRequest struct {
	Description string            `json:"description"`
	Date        *time.Time        `json:"date,omitempty"`
	Movements   []MovementRequest `json:"movements"`
}

// MovementResponse línea de asiento en respuestas.
type MovementResponse struct {
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code,omitempty"`
	AccountName string          `json:"account_name,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// JournalEntryResponse asiento confirmado.
type JournalEntryResponse struct {
	ID          string             `json:"id"`
	Number      int64              `json:"number"`
	Code        string             `json:"code"`
	Date        time.Time          `json:"date"`
	Description string             `json:"description"`
	TotalDebit  decimal.Decimal    `json:"total_debit"`
	TotalCredit decimal.Decimal    `json:"total_credit"`
	Movements   []MovementResponse `json:"movements"`
}

// LedgerLine línea del libro mayor con saldo acumulado.
type LedgerLine struct {
	EntryID     string          `json:"entry_id"`
	EntryNumber int64           `json:"entry_number"`
	EntryCode   string          `json:"entry_code"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// LedgerResponse libro mayor de una cuenta.
type LedgerResponse struct {
	Account      AccountResponse `json:"account"`
	Lines        []LedgerLine    `json:"lines"`
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
	FinalBalance decimal.Decimal `json:"final_balance"`
}

// TrialBalanceRow fila del balance de sumas y saldos.
type TrialBalanceRow struct {
	AccountID     string          `json:"account_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	TotalDebit    decimal.Decimal `json:"total_debit"`
	TotalCredit   decimal.Decimal `json:"total_credit"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
}

// TrialBalanceResponse balance de sumas y saldos.
type TrialBalanceResponse struct {
	Rows               []TrialBalanceRow `json:"rows"`
	TotalDebit         decimal.Decimal   `json:"total_debit"`
	TotalCredit        decimal.Decimal   `json:"total_credit"`
	TotalDebitBalance  decimal.Decimal   `json:"total_debit_balance"`
	TotalCreditBalance decimal.Decimal   `json:"total_credit_balance"`
	Balanced           bool              `json:"balanced"`
}
