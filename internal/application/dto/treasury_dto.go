package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateVendorRequest body para POST /api/vendors.
type CreateVendorRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
}

// VendorResponse proveedor.
type VendorResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TaxID  string `json:"tax_id"`
	Active bool   `json:"active"`
}

// CreateBankAccountRequest body para POST /api/bank-accounts.
type CreateBankAccountRequest struct {
	Name           string          `json:"name"`
	Bank           string          `json:"bank,omitempty"`
	Number         string          `json:"number,omitempty"`
	Currency       string          `json:"currency,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// BankAccountResponse cuenta bancaria con saldo.
type BankAccountResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Bank     string          `json:"bank,omitempty"`
	Number   string          `json:"number,omitempty"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
	Active   bool            `json:"active"`
}

// RegisterVendorPaymentRequest body para POST /api/vendor-payments.
type RegisterVendorPaymentRequest struct {
	VendorID      string          `json:"vendor_id"`
	Amount        decimal.Decimal `json:"amount"`
	Concept       string          `json:"concept"`
	Method        string          `json:"method,omitempty"`
	BankAccountID string          `json:"bank_account_id,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	Date          *time.Time      `json:"date,omitempty"`
}

// VendorPaymentResponse pago a proveedor.
type VendorPaymentResponse struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	VendorID      string          `json:"vendor_id"`
	BankAccountID string          `json:"bank_account_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Concept       string          `json:"concept"`
	Reference     string          `json:"reference,omitempty"`
	Date          time.Time       `json:"date"`
	Voided        bool            `json:"voided"`
	VoidedAt      *time.Time      `json:"voided_at,omitempty"`
}
