package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-core/internal/application/accounting"
	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/domain"
)

const dateLayout = "2006-01-02"

// AccountingHandler plan de cuentas, asientos y reportes contables.
type AccountingHandler struct {
	accounts *accounting.AccountUseCase
	journal  *accounting.JournalUseCase
	log      zerolog.Logger
}

// NewAccountingHandler construye el handler.
func NewAccountingHandler(accounts *accounting.AccountUseCase, journal *accounting.JournalUseCase, log zerolog.Logger) *AccountingHandler {
	return &AccountingHandler{accounts: accounts, journal: journal, log: log}
}

// CreateAccount alta de cuenta contable.
// POST /api/accounts
func (h *AccountingHandler) CreateAccount(c *fiber.Ctx) error {
	var in dto.CreateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.accounts.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateAccount modifica código, nombre o tipo.
// PATCH /api/accounts/:id
func (h *AccountingHandler) UpdateAccount(c *fiber.Ctx) error {
	var in dto.UpdateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.accounts.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeactivateAccount DELETE /api/accounts/:id
func (h *AccountingHandler) DeactivateAccount(c *fiber.Ctx) error {
	out, err := h.accounts.Deactivate(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListAccounts GET /api/accounts
func (h *AccountingHandler) ListAccounts(c *fiber.Ctx) error {
	out, err := h.accounts.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CommitEntry registra un asiento balanceado.
// POST /api/journal/entries
func (h *AccountingHandler) CommitEntry(c *fiber.Ctx) error {
	var in dto.CommitEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.journal.CommitEntry(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetEntry GET /api/journal/entries/:id
func (h *AccountingHandler) GetEntry(c *fiber.Ctx) error {
	out, err := h.journal.GetEntry(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Journal libro diario, opcionalmente acotado por ?from=AAAA-MM-DD&to=AAAA-MM-DD.
// GET /api/journal
func (h *AccountingHandler) Journal(c *fiber.Ctx) error {
	from, err := queryDate(c, "from")
	if err != nil {
		return writeError(c, h.log, err)
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return writeError(c, h.log, err)
	}
	if to != nil {
		// incluye el día completo
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	out, err := h.journal.Journal(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Ledger libro mayor de una cuenta.
// GET /api/accounts/:id/ledger
func (h *AccountingHandler) Ledger(c *fiber.Ctx) error {
	out, err := h.journal.Ledger(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// TrialBalance GET /api/reports/trial-balance
func (h *AccountingHandler) TrialBalance(c *fiber.Ctx) error {
	out, err := h.journal.TrialBalance(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, domain.Validationf("%s: fecha inválida, formato AAAA-MM-DD", key)
	}
	return &t, nil
}
