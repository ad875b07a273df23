package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/erp-core/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"serialización", &pgconn.PgError{Code: codeSerializationFailure}, domain.ErrConflict},
		{"deadlock", &pgconn.PgError{Code: codeDeadlockDetected}, domain.ErrConflict},
		{"lock_timeout", fmt.Errorf("lock: %w", &pgconn.PgError{Code: codeLockNotAvailable}), domain.ErrConflict},
		{"statement_timeout", &pgconn.PgError{Code: codeQueryCanceled}, domain.ErrConflict},
		{"deadline", context.DeadlineExceeded, domain.ErrConflict},
		{"duplicado", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "accounts_code_key"}, domain.ErrValidation},
		{"stock negativo", &pgconn.PgError{Code: codeCheckViolation, ConstraintName: "stock_quantity_non_negative"}, domain.ErrInsufficientStock},
		{"dominio", domain.ErrInvoiceVoided, domain.ErrInvoiceVoided},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err), tt.want)
		})
	}
	assert.NoError(t, classify(nil))

	other := errors.New("conexión rechazada")
	assert.Equal(t, other, classify(other))
	assert.True(t, domain.IsRetryable(classify(&pgconn.PgError{Code: codeDeadlockDetected})))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: codeCheckViolation}))
	assert.True(t, isUniqueViolation(errors.New("ERROR: duplicate key (SQLSTATE 23505)")))
}
