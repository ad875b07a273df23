package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio. Los específicos envuelven a una categoría general para que
// los adaptadores puedan decidir con errors.Is sin conocer cada caso.
var (
	ErrValidation        = errors.New("entrada inválida")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidState      = errors.New("estado inválido para la operación")
	ErrUnbalancedEntry   = errors.New("asiento desbalanceado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidAmount     = errors.New("importe inválido")
	ErrOverpayment       = errors.New("el importe supera el saldo pendiente")
	ErrCurrencyMismatch  = errors.New("la moneda no coincide con la de la factura")
	ErrAlreadyApplied    = errors.New("el documento ya fue aplicado")
	ErrConflict          = errors.New("conflicto transitorio, reintentar")
)

var (
	ErrAccountNotFound       = fmt.Errorf("%w: cuenta", ErrNotFound)
	ErrProductNotFound       = fmt.Errorf("%w: artículo", ErrNotFound)
	ErrCustomerNotFound      = fmt.Errorf("%w: cliente", ErrNotFound)
	ErrVendorNotFound        = fmt.Errorf("%w: proveedor", ErrNotFound)
	ErrSaleNotFound          = fmt.Errorf("%w: venta", ErrNotFound)
	ErrInvoiceNotFound       = fmt.Errorf("%w: factura", ErrNotFound)
	ErrCreditNoteNotFound    = fmt.Errorf("%w: nota de crédito", ErrNotFound)
	ErrPaymentNotFound       = fmt.Errorf("%w: pago", ErrNotFound)
	ErrPaymentAlreadyVoided  = fmt.Errorf("%w: el pago ya fue anulado", ErrPaymentNotFound)
	ErrBankAccountNotFound   = fmt.Errorf("%w: cuenta bancaria", ErrNotFound)
	ErrInvoiceVoided         = fmt.Errorf("%w: la factura está anulada", ErrInvalidState)
	ErrInvoiceAlreadyPaid    = fmt.Errorf("%w: la factura ya está cobrada", ErrInvalidState)
	ErrCannotVoidPaidInvoice = fmt.Errorf("%w: no se puede anular una factura cobrada", ErrInvalidState)
	ErrInsufficientFunds     = fmt.Errorf("%w: saldo bancario insuficiente", ErrInvalidState)
)

// InsufficientStockError detalle de una salida que dejaría el stock negativo.
type InsufficientStockError struct {
	ProductCode string
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s. Disponible: %d, Requerido: %d", e.ProductCode, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// OverpaymentError detalle de un cobro que supera el saldo pendiente.
type OverpaymentError struct {
	BalanceDue decimal.Decimal
	Attempted  decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("el importe %s supera el saldo pendiente %s", e.Attempted.StringFixed(2), e.BalanceDue.StringFixed(2))
}

func (e *OverpaymentError) Unwrap() error { return ErrOverpayment }

// UnbalancedEntryError totales de un asiento rechazado.
type UnbalancedEntryError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("asiento desbalanceado: debe %s, haber %s", e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2))
}

func (e *UnbalancedEntryError) Unwrap() error { return ErrUnbalancedEntry }

// InsufficientFundsError detalle de un pago que la cuenta bancaria no cubre.
type InsufficientFundsError struct {
	BankAccountID string
	Balance       decimal.Decimal
	Requested     decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("saldo insuficiente en cuenta %s. Disponible: %s, Requerido: %s",
		e.BankAccountID, e.Balance.StringFixed(2), e.Requested.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// Validationf construye un error de validación con mensaje.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflict envuelve un error de infraestructura como conflicto transitorio.
func Conflict(cause error) error {
	return fmt.Errorf("%w: %v", ErrConflict, cause)
}

// IsRetryable indica si la operación puede reintentarse sin cambios.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// Code devuelve el código estable del error para adaptadores externos ("" si no es de dominio).
// Se evalúan primero los casos específicos.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvoiceVoided):
		return "INVOICE_VOIDED"
	case errors.Is(err, ErrInvoiceAlreadyPaid):
		return "INVOICE_ALREADY_PAID"
	case errors.Is(err, ErrCannotVoidPaidInvoice):
		return "CANNOT_VOID_PAID_INVOICE"
	case errors.Is(err, ErrInsufficientFunds):
		return "INSUFFICIENT_FUNDS"
	case errors.Is(err, ErrInvoiceNotFound):
		return "INVOICE_NOT_FOUND"
	case errors.Is(err, ErrValidation):
		return "VALIDATION"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, ErrUnbalancedEntry):
		return "UNBALANCED_ENTRY"
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrInvalidAmount):
		return "INVALID_AMOUNT"
	case errors.Is(err, ErrOverpayment):
		return "OVERPAYMENT_NOT_ALLOWED"
	case errors.Is(err, ErrCurrencyMismatch):
		return "CURRENCY_MISMATCH"
	case errors.Is(err, ErrAlreadyApplied):
		return "ALREADY_APPLIED"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	default:
		return ""
	}
}
