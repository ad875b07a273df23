package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/internal/application/accounting"
	"github.com/jhoicas/erp-core/internal/application/billing"
	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/inventory"
	"github.com/jhoicas/erp-core/internal/application/sales"
	"github.com/jhoicas/erp-core/internal/application/treasury"
	"github.com/jhoicas/erp-core/internal/infrastructure/memory"
	"github.com/jhoicas/erp-core/internal/infrastructure/pdf"
	"github.com/jhoicas/erp-core/internal/infrastructure/txretry"
	apphttp "github.com/jhoicas/erp-core/internal/interfaces/http"
	"github.com/jhoicas/erp-core/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp arma la aplicación completa sobre el store en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	reg := prometheus.NewRegistry()
	store := txretry.New(memory.NewStore(), txretry.WithMetrics(txretry.NewMetrics(reg)))
	repos := store.Repos()
	stockUC := inventory.NewStockUseCase(store)

	return apphttp.NewApp("erp-test", apphttp.RouterDeps{
		Accounts:  accounting.NewAccountUseCase(store),
		Journal:   accounting.NewJournalUseCase(store),
		Products:  inventory.NewProductUseCase(repos.Products),
		Stock:     stockUC,
		Sales:     sales.NewSaleUseCase(store, stockUC, "ARS"),
		Customers: billing.NewCustomerUseCase(repos.Customers),
		Invoices: billing.NewInvoiceUseCase(store, billing.Defaults{
			TaxRate: decimal.NewFromInt(21), Currency: "ARS", DueDays: 30,
		}),
		Collections: billing.NewCollectionUseCase(store),
		CreditNotes: billing.NewCreditNoteUseCase(store),
		InvoicePDF:  billing.NewPDFUseCase(store, pdf.NewMarotoPDFGenerator(pdf.Issuer{Name: "ERP Test"})),
		Vendors:     treasury.NewVendorUseCase(repos.Vendors),
		BankAccount: treasury.NewBankAccountUseCase(repos.BankAccounts, "ARS"),
		Payments:    treasury.NewPaymentUseCase(store),
		Gatherer:    reg,
		Logger:      logger.Nop().Zerolog(),
	})
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealthYMetrics(t *testing.T) {
	app := buildTestApp(t)

	status, body := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"ok"`)

	// una transacción fallida para que store_tx_total tenga una serie
	status, _ = doJSON(t, app, http.MethodPost, "/api/customers", dto.CreateCustomerRequest{Name: "Cliente", TaxID: "20-1"})
	require.Equal(t, http.StatusCreated, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/inventory/movements", dto.RecordMovementRequest{ProductCode: "NOPE", Quantity: 1, Direction: "IN"})
	require.Equal(t, http.StatusNotFound, status)

	status, body = doJSON(t, app, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "store_tx_total")
}

func TestBodyInvalido(t *testing.T) {
	app := buildTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStockInsuficiente_409ConDetalle(t *testing.T) {
	app := buildTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/products", dto.CreateProductRequest{Code: "ART-2024-0001", Name: "Tornillo", Price: decimal.NewFromInt(10)})
	require.Equal(t, http.StatusCreated, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/inventory/movements", dto.RecordMovementRequest{ProductCode: "ART-2024-0001", Quantity: 5, Direction: "IN"})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/inventory/movements", dto.RecordMovementRequest{ProductCode: "ART-2024-0001", Quantity: 7, Direction: "OUT"})
	assert.Equal(t, http.StatusConflict, status)
	errResp := decode[dto.ErrorResponse](t, body)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)
	assert.False(t, errResp.Retryable)
	assert.EqualValues(t, 5, errResp.Details["available"])
	assert.EqualValues(t, 7, errResp.Details["requested"])

	status, body = doJSON(t, app, http.MethodGet, "/api/inventory/stock/ART-2024-0001", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 5, decode[dto.StockResponse](t, body).Quantity)
}

func TestAsientoDesbalanceado_422(t *testing.T) {
	app := buildTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/accounts", dto.CreateAccountRequest{Code: "1.1.01", Name: "Caja", Type: "activo"})
	require.Equal(t, http.StatusCreated, status)
	cash := decode[dto.AccountResponse](t, body)
	status, body = doJSON(t, app, http.MethodPost, "/api/accounts", dto.CreateAccountRequest{Code: "4.1.01", Name: "Ventas", Type: "INCOME"})
	require.Equal(t, http.StatusCreated, status)
	salesAcc := decode[dto.AccountResponse](t, body)

	status, body = doJSON(t, app, http.MethodPost, "/api/journal/entries", dto.CommitEntryRequest{
		Description: "Venta contado",
		Movements: []dto.MovementRequest{
			{AccountID: cash.ID, Debit: decimal.NewFromInt(100)},
			{AccountID: salesAcc.ID, Credit: decimal.NewFromInt(90)},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "UNBALANCED_ENTRY", decode[dto.ErrorResponse](t, body).Code)

	status, body = doJSON(t, app, http.MethodGet, "/api/reports/trial-balance", nil)
	require.Equal(t, http.StatusOK, status)
	tb := decode[dto.TrialBalanceResponse](t, body)
	assert.True(t, tb.Balanced)
	assert.True(t, tb.TotalDebit.IsZero())
}

func TestCobrosHastaPagada_YTercerCobroRechazado(t *testing.T) {
	app := buildTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/customers", dto.CreateCustomerRequest{Name: "Ferretería Sur", TaxID: "30-71234567-8"})
	require.Equal(t, http.StatusCreated, status)
	customer := decode[dto.CustomerResponse](t, body)

	zero, price := decimal.Zero, decimal.NewFromInt(1000)
	status, body = doJSON(t, app, http.MethodPost, "/api/invoices", dto.CreateInvoiceRequest{
		CustomerID: customer.ID,
		TaxRate:    &zero,
		Lines:      []dto.InvoiceLineRequest{{Description: "Servicio", Quantity: 1, UnitPrice: &price}},
	})
	require.Equal(t, http.StatusCreated, status)
	inv := decode[dto.InvoiceResponse](t, body)

	status, _ = doJSON(t, app, http.MethodPost, "/api/collections", dto.ApplyPaymentRequest{InvoiceID: inv.ID, Amount: decimal.NewFromInt(600)})
	require.Equal(t, http.StatusCreated, status)
	status, body = doJSON(t, app, http.MethodGet, "/api/invoices/"+inv.ID, nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[dto.InvoiceResponse](t, body)
	assert.Equal(t, "PARTIALLY_PAID", got.Status)
	assert.True(t, got.BalanceDue.Equal(decimal.NewFromInt(400)))

	// sobrepago antes de completar
	status, body = doJSON(t, app, http.MethodPost, "/api/collections", dto.ApplyPaymentRequest{InvoiceID: inv.ID, Amount: decimal.NewFromInt(500)})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "OVERPAYMENT_NOT_ALLOWED", decode[dto.ErrorResponse](t, body).Code)

	status, _ = doJSON(t, app, http.MethodPost, "/api/collections", dto.ApplyPaymentRequest{InvoiceID: inv.ID, Amount: decimal.NewFromInt(400)})
	require.Equal(t, http.StatusCreated, status)

	status, body = doJSON(t, app, http.MethodPost, "/api/collections", dto.ApplyPaymentRequest{InvoiceID: inv.ID, Amount: decimal.NewFromInt(1)})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVOICE_ALREADY_PAID", decode[dto.ErrorResponse](t, body).Code)

	status, body = doJSON(t, app, http.MethodGet, "/api/invoices/"+inv.ID+"/payments", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]dto.PaymentResponse](t, body), 2)

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestFacturaInexistente_404(t *testing.T) {
	app := buildTestApp(t)
	status, body := doJSON(t, app, http.MethodPost, "/api/invoices/no-existe/void", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "INVOICE_NOT_FOUND", decode[dto.ErrorResponse](t, body).Code)
}
