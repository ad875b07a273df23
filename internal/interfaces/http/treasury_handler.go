package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/treasury"
)

// TreasuryHandler proveedores, cuentas bancarias y pagos.
type TreasuryHandler struct {
	vendors  *treasury.VendorUseCase
	banks    *treasury.BankAccountUseCase
	payments *treasury.PaymentUseCase
	log      zerolog.Logger
}

// NewTreasuryHandler construye el handler.
func NewTreasuryHandler(vendors *treasury.VendorUseCase, banks *treasury.BankAccountUseCase, payments *treasury.PaymentUseCase, log zerolog.Logger) *TreasuryHandler {
	return &TreasuryHandler{vendors: vendors, banks: banks, payments: payments, log: log}
}

// CreateVendor POST /api/vendors
func (h *TreasuryHandler) CreateVendor(c *fiber.Ctx) error {
	var in dto.CreateVendorRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.vendors.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetVendor GET /api/vendors/:id
func (h *TreasuryHandler) GetVendor(c *fiber.Ctx) error {
	out, err := h.vendors.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateBankAccount POST /api/bank-accounts
func (h *TreasuryHandler) CreateBankAccount(c *fiber.Ctx) error {
	var in dto.CreateBankAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.banks.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBankAccounts GET /api/bank-accounts
func (h *TreasuryHandler) ListBankAccounts(c *fiber.Ctx) error {
	out, err := h.banks.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetBankAccount GET /api/bank-accounts/:id
func (h *TreasuryHandler) GetBankAccount(c *fiber.Ctx) error {
	out, err := h.banks.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RegisterPayment registra un pago a proveedor.
// POST /api/vendor-payments
func (h *TreasuryHandler) RegisterPayment(c *fiber.Ctx) error {
	var in dto.RegisterVendorPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.payments.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// VoidPayment POST /api/vendor-payments/:id/void
func (h *TreasuryHandler) VoidPayment(c *fiber.Ctx) error {
	out, err := h.payments.Void(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListPayments GET /api/vendor-payments?vendor_id=
func (h *TreasuryHandler) ListPayments(c *fiber.Ctx) error {
	out, err := h.payments.List(c.UserContext(), c.Query("vendor_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
