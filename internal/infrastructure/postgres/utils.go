package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/erp-core/internal/domain"
)

// Códigos SQLSTATE que se tratan de forma explícita.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// classify traduce errores del driver a la taxonomía de dominio. Errores ya de dominio pasan tal cual.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.Conflict(err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable, codeQueryCanceled:
		return domain.Conflict(err)
	case codeUniqueViolation:
		return domain.Validationf("registro duplicado (%s)", pgErr.ConstraintName)
	case codeCheckViolation:
		if pgErr.ConstraintName == "stock_quantity_non_negative" {
			return domain.ErrInsufficientStock
		}
		return domain.Validationf("restricción violada (%s)", pgErr.ConstraintName)
	}
	return err
}
