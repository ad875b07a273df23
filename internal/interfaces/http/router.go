package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-core/internal/application/accounting"
	"github.com/jhoicas/erp-core/internal/application/billing"
	"github.com/jhoicas/erp-core/internal/application/inventory"
	"github.com/jhoicas/erp-core/internal/application/sales"
	"github.com/jhoicas/erp-core/internal/application/treasury"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Accounts    *accounting.AccountUseCase
	Journal     *accounting.JournalUseCase
	Products    *inventory.ProductUseCase
	Stock       *inventory.StockUseCase
	Sales       *sales.SaleUseCase
	Customers   *billing.CustomerUseCase
	Invoices    *billing.InvoiceUseCase
	Collections *billing.CollectionUseCase
	CreditNotes *billing.CreditNoteUseCase
	InvoicePDF  *billing.PDFUseCase
	Vendors     *treasury.VendorUseCase
	BankAccount *treasury.BankAccountUseCase
	Payments    *treasury.PaymentUseCase
	// Gatherer expone /metrics; nil lo deshabilita.
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

// NewApp construye la aplicación Fiber con recover, /health, /metrics y las rutas de la API.
func NewApp(name string, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	log := deps.Logger

	// Contabilidad
	acc := NewAccountingHandler(deps.Accounts, deps.Journal, log)
	accounts := api.Group("/accounts")
	accounts.Post("/", acc.CreateAccount)
	accounts.Get("/", acc.ListAccounts)
	accounts.Patch("/:id", acc.UpdateAccount)
	accounts.Delete("/:id", acc.DeactivateAccount)
	accounts.Get("/:id/ledger", acc.Ledger)

	journal := api.Group("/journal")
	journal.Get("/", acc.Journal)
	journal.Post("/entries", acc.CommitEntry)
	journal.Get("/entries/:id", acc.GetEntry)
	api.Get("/reports/trial-balance", acc.TrialBalance)

	// Artículos y stock
	productHandler := NewProductHandler(deps.Products, log)
	products := api.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/:code", productHandler.GetByCode)

	inventoryHandler := NewInventoryHandler(deps.Stock, log)
	invGroup := api.Group("/inventory")
	invGroup.Post("/movements", inventoryHandler.RecordMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/stock/:code", inventoryHandler.GetStock)

	// Ventas
	saleHandler := NewSaleHandler(deps.Sales, log)
	salesGroup := api.Group("/sales")
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Put("/:id/items", saleHandler.UpdateItems)
	salesGroup.Post("/:id/confirm", saleHandler.Confirm)
	salesGroup.Delete("/:id", saleHandler.Delete)

	// Clientes
	customerHandler := NewCustomerHandler(deps.Customers, log)
	customers := api.Group("/customers")
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)

	// Facturas (outstanding antes de /:id)
	invoiceHandler := NewInvoiceHandler(deps.Invoices, deps.Collections, deps.InvoicePDF, log)
	invoices := api.Group("/invoices")
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/outstanding", invoiceHandler.Outstanding)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/void", invoiceHandler.Void)
	invoices.Get("/:id/payments", invoiceHandler.Payments)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)

	// Cobros y notas de crédito
	collectionHandler := NewCollectionHandler(deps.Collections, deps.CreditNotes, log)
	collections := api.Group("/collections")
	collections.Post("/", collectionHandler.Apply)
	collections.Get("/:id", collectionHandler.GetByID)
	collections.Post("/:id/void", collectionHandler.Void)

	creditNotes := api.Group("/credit-notes")
	creditNotes.Post("/", collectionHandler.CreateCreditNote)
	creditNotes.Get("/:id", collectionHandler.GetCreditNote)
	creditNotes.Post("/:id/apply", collectionHandler.ApplyCreditNote)

	// Tesorería
	treasuryHandler := NewTreasuryHandler(deps.Vendors, deps.BankAccount, deps.Payments, log)
	vendors := api.Group("/vendors")
	vendors.Post("/", treasuryHandler.CreateVendor)
	vendors.Get("/:id", treasuryHandler.GetVendor)

	banks := api.Group("/bank-accounts")
	banks.Post("/", treasuryHandler.CreateBankAccount)
	banks.Get("/", treasuryHandler.ListBankAccounts)
	banks.Get("/:id", treasuryHandler.GetBankAccount)

	vendorPayments := api.Group("/vendor-payments")
	vendorPayments.Post("/", treasuryHandler.RegisterPayment)
	vendorPayments.Get("/", treasuryHandler.ListPayments)
	vendorPayments.Post("/:id/void", treasuryHandler.VoidPayment)
}
