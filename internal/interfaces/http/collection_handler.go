package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-core/internal/application/billing"
	"github.com/jhoicas/erp-core/internal/application/dto"
)

// CollectionHandler cobros de clientes y notas de crédito.
type CollectionHandler struct {
	collections *billing.CollectionUseCase
	creditNotes *billing.CreditNoteUseCase
	log         zerolog.Logger
}

// NewCollectionHandler construye el handler.
func NewCollectionHandler(collections *billing.CollectionUseCase, creditNotes *billing.CreditNoteUseCase, log zerolog.Logger) *CollectionHandler {
	return &CollectionHandler{collections: collections, creditNotes: creditNotes, log: log}
}

// Apply registra un cobro contra una factura.
// POST /api/collections
func (h *CollectionHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.collections.Apply(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Void revierte el cobro sobre la factura y la cuenta bancaria.
// POST /api/collections/:id/void
func (h *CollectionHandler) Void(c *fiber.Ctx) error {
	out, err := h.collections.Void(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/collections/:id
func (h *CollectionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.collections.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateCreditNote POST /api/credit-notes
func (h *CollectionHandler) CreateCreditNote(c *fiber.Ctx) error {
	var in dto.CreateCreditNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.creditNotes.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ApplyCreditNote aplica la nota sobre su factura (una sola vez).
// POST /api/credit-notes/:id/apply
func (h *CollectionHandler) ApplyCreditNote(c *fiber.Ctx) error {
	out, err := h.creditNotes.Apply(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetCreditNote GET /api/credit-notes/:id
func (h *CollectionHandler) GetCreditNote(c *fiber.Ctx) error {
	out, err := h.creditNotes.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
