package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/domain"
)

// statusByCode traduce el código estable de dominio a estado HTTP.
var statusByCode = map[string]int{
	"VALIDATION":               fiber.StatusBadRequest,
	"INVALID_AMOUNT":           fiber.StatusBadRequest,
	"CURRENCY_MISMATCH":        fiber.StatusBadRequest,
	"NOT_FOUND":                fiber.StatusNotFound,
	"INVOICE_NOT_FOUND":        fiber.StatusNotFound,
	"INVALID_STATE":            fiber.StatusConflict,
	"INVOICE_VOIDED":           fiber.StatusConflict,
	"INVOICE_ALREADY_PAID":     fiber.StatusConflict,
	"CANNOT_VOID_PAID_INVOICE": fiber.StatusConflict,
	"INSUFFICIENT_FUNDS":       fiber.StatusConflict,
	"INSUFFICIENT_STOCK":       fiber.StatusConflict,
	"ALREADY_APPLIED":          fiber.StatusConflict,
	"UNBALANCED_ENTRY":         fiber.StatusUnprocessableEntity,
	"OVERPAYMENT_NOT_ALLOWED":  fiber.StatusUnprocessableEntity,
	"CONFLICT":                 fiber.StatusServiceUnavailable,
}

// writeError responde con el error de dominio tipado; lo desconocido es 500 y se loguea.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	code := domain.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
	if code == "CONFLICT" {
		log.Warn().Err(err).Str("path", c.Path()).Msg("conflicto transitorio")
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Code:      code,
		Message:   err.Error(),
		Retryable: domain.IsRetryable(err),
		Details:   details(err),
	})
}

// details extrae el contexto de los errores con datos.
func details(err error) map[string]any {
	var stock *domain.InsufficientStockError
	if errors.As(err, &stock) {
		return map[string]any{"product_code": stock.ProductCode, "available": stock.Available, "requested": stock.Requested}
	}
	var over *domain.OverpaymentError
	if errors.As(err, &over) {
		return map[string]any{"balance_due": over.BalanceDue, "attempted": over.Attempted}
	}
	var unbalanced *domain.UnbalancedEntryError
	if errors.As(err, &unbalanced) {
		return map[string]any{"total_debit": unbalanced.TotalDebit, "total_credit": unbalanced.TotalCredit}
	}
	var funds *domain.InsufficientFundsError
	if errors.As(err, &funds) {
		return map[string]any{"bank_account_id": funds.BankAccountID, "balance": funds.Balance, "requested": funds.Requested}
	}
	return nil
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
