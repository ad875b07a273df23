package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TaxID  string `json:"tax_id"`
	Email  string `json:"email,omitempty"`
	Active bool   `json:"active"`
}

// InvoiceLineRequest línea manual de factura. UnitPrice nil toma el precio del artículo.
type InvoiceLineRequest struct {
	ProductCode string           `json:"product_code,omitempty"`
	Description string           `json:"description,omitempty"`
	Quantity    int64            `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices. Con SaleID se copian los ítems de la venta.
type CreateInvoiceRequest struct {
	CustomerID string               `json:"customer_id"`
	SaleID     string               `json:"sale_id,omitempty"`
	Currency   string               `json:"currency,omitempty"`
	TaxRate    *decimal.Decimal     `json:"tax_rate,omitempty"`
	IssueDate  *time.Time           `json:"issue_date,omitempty"`
	DueDate    *time.Time           `json:"due_date,omitempty"`
	Notes      string               `json:"notes,omitempty"`
	Lines      []InvoiceLineRequest `json:"lines,omitempty"`
}

// InvoiceLineResponse línea de factura o nota de crédito.
type InvoiceLineResponse struct {
	ProductCode string          `json:"product_code,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse factura con saldo y estado derivados.
type InvoiceResponse struct {
	ID              string                `json:"id"`
	Number          string                `json:"number"`
	CustomerID      string                `json:"customer_id"`
	SaleID          string                `json:"sale_id,omitempty"`
	Currency        string                `json:"currency"`
	IssueDate       time.Time             `json:"issue_date"`
	DueDate         time.Time             `json:"due_date"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	TaxRate         decimal.Decimal       `json:"tax_rate"`
	TaxAmount       decimal.Decimal       `json:"tax_amount"`
	Total           decimal.Decimal       `json:"total"`
	AmountCollected decimal.Decimal       `json:"amount_collected"`
	AmountCredited  decimal.Decimal       `json:"amount_credited"`
	BalanceDue      decimal.Decimal       `json:"balance_due"`
	Status          string                `json:"status"`
	Notes           string                `json:"notes,omitempty"`
	Lines           []InvoiceLineResponse `json:"lines"`
}

// OutstandingResponse saldo pendiente por cliente y moneda.
type OutstandingResponse struct {
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name,omitempty"`
	Currency     string          `json:"currency"`
	Invoices     int             `json:"invoices"`
	BalanceDue   decimal.Decimal `json:"balance_due"`
}

// CreditNoteLineRequest línea de nota de crédito.
type CreditNoteLineRequest struct {
	ProductCode string          `json:"product_code,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateCreditNoteRequest body para POST /api/credit-notes.
type CreateCreditNoteRequest struct {
	InvoiceID string                  `json:"invoice_id"`
	Reason    string                  `json:"reason"`
	Lines     []CreditNoteLineRequest `json:"lines"`
}

// CreditNoteResponse nota de crédito.
type CreditNoteResponse struct {
	ID         string                `json:"id"`
	Number     string                `json:"number"`
	InvoiceID  string                `json:"invoice_id"`
	CustomerID string                `json:"customer_id"`
	Reason     string                `json:"reason"`
	Subtotal   decimal.Decimal       `json:"subtotal"`
	TaxAmount  decimal.Decimal       `json:"tax_amount"`
	Total      decimal.Decimal       `json:"total"`
	Applied    bool                  `json:"applied"`
	AppliedAt  *time.Time            `json:"applied_at,omitempty"`
	Lines      []InvoiceLineResponse `json:"lines"`
	Invoice    *InvoiceResponse      `json:"invoice,omitempty"`
}

// ApplyPaymentRequest body para POST /api/collections (cobro). Currency vacío = moneda de la factura.
type ApplyPaymentRequest struct {
	InvoiceID     string          `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	Method        string          `json:"method,omitempty"`
	BankAccountID string          `json:"bank_account_id,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	Date          *time.Time      `json:"date,omitempty"`
}

// PaymentResponse cobro junto a la factura resultante.
type PaymentResponse struct {
	ID            string           `json:"id"`
	Number        string           `json:"number"`
	InvoiceID     string           `json:"invoice_id"`
	CustomerID    string           `json:"customer_id"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	Method        string           `json:"method"`
	BankAccountID string           `json:"bank_account_id,omitempty"`
	Reference     string           `json:"reference,omitempty"`
	Date          time.Time        `json:"date"`
	Voided        bool             `json:"voided"`
	VoidedAt      *time.Time       `json:"voided_at,omitempty"`
	Invoice       *InvoiceResponse `json:"invoice,omitempty"`
}
