package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/internal/domain"
)

func TestErroresEspecificos_EnvuelvenCategoria(t *testing.T) {
	assert.ErrorIs(t, domain.ErrInvoiceNotFound, domain.ErrNotFound)
	assert.ErrorIs(t, domain.ErrInvoiceVoided, domain.ErrInvalidState)
	assert.ErrorIs(t, domain.ErrCannotVoidPaidInvoice, domain.ErrInvalidState)

	var stockErr error = &domain.InsufficientStockError{ProductCode: "ART-2024-0001", Available: 5, Requested: 7}
	assert.ErrorIs(t, fmt.Errorf("confirmar: %w", stockErr), domain.ErrInsufficientStock)
	assert.Contains(t, stockErr.Error(), "Disponible: 5, Requerido: 7")

	var over *domain.OverpaymentError
	wrapped := fmt.Errorf("cobro: %w", &domain.OverpaymentError{BalanceDue: decimal.NewFromInt(400), Attempted: decimal.NewFromInt(500)})
	require.True(t, errors.As(wrapped, &over))
	assert.True(t, over.BalanceDue.Equal(decimal.NewFromInt(400)))
}

func TestCode(t *testing.T) {
	cases := map[error]string{
		domain.ErrInvoiceNotFound:                         "INVOICE_NOT_FOUND",
		domain.ErrSaleNotFound:                            "NOT_FOUND",
		domain.ErrInvoiceVoided:                           "INVOICE_VOIDED",
		domain.ErrInvoiceAlreadyPaid:                      "INVOICE_ALREADY_PAID",
		domain.Validationf("cantidad %d", 0):              "VALIDATION",
		&domain.UnbalancedEntryError{}:                    "UNBALANCED_ENTRY",
		&domain.InsufficientFundsError{}:                  "INSUFFICIENT_FUNDS",
		domain.Conflict(errors.New("deadlock detected")):  "CONFLICT",
		errors.New("cualquier cosa"):                      "",
	}
	for err, want := range cases {
		assert.Equal(t, want, domain.Code(err), err.Error())
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, domain.IsRetryable(domain.Conflict(errors.New("lock timeout"))))
	assert.False(t, domain.IsRetryable(domain.ErrValidation))
}

func TestCheckMoneyScale(t *testing.T) {
	for _, ok := range []string{"0", "10", "10.5", "10.50", "10.500", "-3.25"} {
		assert.NoError(t, domain.CheckMoneyScale("importe", decimal.RequireFromString(ok)), ok)
	}
	for _, bad := range []string{"0.005", "999.995", "0.004", "1.001"} {
		err := domain.CheckMoneyScale("importe", decimal.RequireFromString(bad))
		assert.ErrorIs(t, err, domain.ErrValidation, bad)
	}
}
