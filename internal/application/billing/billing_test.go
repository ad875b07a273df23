package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/internal/application/billing"
	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/inventory"
	"github.com/jhoicas/erp-core/internal/application/sales"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/infrastructure/memory"
)

type fixture struct {
	store       *memory.Store
	customers   *billing.CustomerUseCase
	invoices    *billing.InvoiceUseCase
	collections *billing.CollectionUseCase
	notes       *billing.CreditNoteUseCase
	customerID  string
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:     store,
		customers: billing.NewCustomerUseCase(store.Repos().Customers),
		invoices: billing.NewInvoiceUseCase(store, billing.Defaults{
			TaxRate:  decimal.NewFromInt(21),
			Currency: "ARS",
			DueDays:  30,
		}),
		collections: billing.NewCollectionUseCase(store),
		notes:       billing.NewCreditNoteUseCase(store),
	}
	c, err := f.customers.Create(context.Background(), dto.CreateCustomerRequest{Name: "Ferretería Sur", TaxID: "30-71234567-8"})
	require.NoError(t, err)
	f.customerID = c.ID
	return f
}

// invoice emite una factura manual sin impuesto por total.
func (f *fixture) invoice(t *testing.T, total string) *dto.InvoiceResponse {
	t.Helper()
	zero := decimal.Zero
	price := d(total)
	inv, err := f.invoices.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: f.customerID,
		TaxRate:    &zero,
		Lines:      []dto.InvoiceLineRequest{{Description: "Servicio", Quantity: 1, UnitPrice: &price}},
	})
	require.NoError(t, err)
	return inv
}

func (f *fixture) bankAccount(t *testing.T, balance string) string {
	t.Helper()
	ba := &entity.BankAccount{ID: "ba-1", Name: "Cuenta corriente", Currency: "ARS", Balance: d(balance), Active: true}
	require.NoError(t, f.store.Repos().BankAccounts.Create(context.Background(), ba))
	return ba.ID
}

func (f *fixture) pay(invoiceID, amount string) (*dto.PaymentResponse, error) {
	return f.collections.Apply(context.Background(), dto.ApplyPaymentRequest{InvoiceID: invoiceID, Amount: d(amount)})
}

// ─── Facturas ────────────────────────────────────────────────────────────────

func TestCreateInvoice_CalculaImpuestoYVencimiento(t *testing.T) {
	f := newFixture(t)
	price := d("100")
	issue := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	inv, err := f.invoices.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: f.customerID,
		IssueDate:  &issue,
		Lines:      []dto.InvoiceLineRequest{{Description: "Flete", Quantity: 3, UnitPrice: &price}},
	})
	require.NoError(t, err)

	assert.Equal(t, "FAC-2024-0001", inv.Number)
	assert.True(t, inv.Subtotal.Equal(d("300")))
	assert.True(t, inv.TaxAmount.Equal(d("63")))
	assert.True(t, inv.Total.Equal(d("363")))
	assert.True(t, inv.BalanceDue.Equal(inv.Total))
	assert.True(t, inv.AmountCollected.IsZero())
	assert.Equal(t, entity.InvoiceStatusIssued, inv.Status)
	assert.Equal(t, "ARS", inv.Currency)
	assert.Equal(t, issue.AddDate(0, 0, 30), inv.DueDate)
}

func TestCreateInvoice_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	price := d("10")
	line := []dto.InvoiceLineRequest{{Description: "x", Quantity: 1, UnitPrice: &price}}

	_, err := f.invoices.Create(ctx, dto.CreateInvoiceRequest{CustomerID: "no-existe", Lines: line})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)

	_, err = f.invoices.Create(ctx, dto.CreateInvoiceRequest{CustomerID: f.customerID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.invoices.Create(ctx, dto.CreateInvoiceRequest{CustomerID: f.customerID, Currency: "XXXY", Lines: line})
	assert.ErrorIs(t, err, domain.ErrValidation)

	zero := decimal.Zero
	_, err = f.invoices.Create(ctx, dto.CreateInvoiceRequest{
		CustomerID: f.customerID,
		Lines:      []dto.InvoiceLineRequest{{Description: "x", Quantity: 1, UnitPrice: &zero}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation, "total cero")

	_, err = f.invoices.Create(ctx, dto.CreateInvoiceRequest{
		CustomerID: f.customerID,
		Lines:      []dto.InvoiceLineRequest{{ProductCode: "NO-EXISTE", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCreateInvoice_DesdeVentaConfirmada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	products := inventory.NewProductUseCase(f.store.Repos().Products)
	stock := inventory.NewStockUseCase(f.store)
	saleUC := sales.NewSaleUseCase(f.store, stock, "ARS")

	_, err := products.Create(ctx, dto.CreateProductRequest{Code: "ART-1", Name: "Tornillo", Price: d("50")})
	require.NoError(t, err)
	_, err = stock.RecordMovement(ctx, dto.RecordMovementRequest{ProductCode: "ART-1", Quantity: 10, Direction: "IN"})
	require.NoError(t, err)
	sale, err := saleUC.Create(ctx, dto.CreateSaleRequest{CustomerID: f.customerID, Items: []dto.SaleItemRequest{{ProductCode: "ART-1", Quantity: 2}}})
	require.NoError(t, err)

	_, err = f.invoices.Create(ctx, dto.CreateInvoiceRequest{CustomerID: f.customerID, SaleID: sale.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "una venta DRAFT no se factura")

	_, err = saleUC.Confirm(ctx, sale.ID)
	require.NoError(t, err)

	inv, err := f.invoices.Create(ctx, dto.CreateInvoiceRequest{CustomerID: f.customerID, SaleID: sale.ID})
	require.NoError(t, err)
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, "Tornillo", inv.Lines[0].Description)
	assert.True(t, inv.Subtotal.Equal(d("100")))
	assert.True(t, inv.Total.Equal(d("121")))

	got, err := saleUC.Get(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusInvoiced, got.Status)

	_, err = f.invoices.Create(ctx, dto.CreateInvoiceRequest{CustomerID: f.customerID, SaleID: sale.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no se factura dos veces")
}

func TestVoidInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv := f.invoice(t, "500")
	_, err := f.pay(inv.ID, "100")
	require.NoError(t, err)

	voided, err := f.invoices.Void(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusVoid, voided.Status)
	assert.True(t, voided.BalanceDue.IsZero())
	assert.True(t, voided.AmountCollected.Equal(d("100")), "anular no revierte lo cobrado")

	_, err = f.pay(inv.ID, "10")
	assert.ErrorIs(t, err, domain.ErrInvoiceVoided)

	paid := f.invoice(t, "50")
	_, err = f.pay(paid.ID, "50")
	require.NoError(t, err)
	_, err = f.invoices.Void(ctx, paid.ID)
	assert.ErrorIs(t, err, domain.ErrCannotVoidPaidInvoice)

	_, err = f.invoices.Void(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestOutstandingByCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.invoice(t, "1000")
	f.invoice(t, "200")
	v := f.invoice(t, "999")
	_, err := f.pay(a.ID, "300")
	require.NoError(t, err)
	_, err = f.invoices.Void(ctx, v.ID)
	require.NoError(t, err)

	rows, err := f.invoices.OutstandingByCustomer(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ferretería Sur", rows[0].CustomerName)
	assert.Equal(t, 2, rows[0].Invoices)
	assert.True(t, rows[0].BalanceDue.Equal(d("900")))
}

// ─── Cobros ──────────────────────────────────────────────────────────────────

func TestApplyPayment_ParcialTotalYYaCobrada(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice(t, "1000")

	p1, err := f.pay(inv.ID, "600")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPartiallyPaid, p1.Invoice.Status)
	assert.True(t, p1.Invoice.BalanceDue.Equal(d("400")))
	assert.Regexp(t, `^COB-\d{4}-0001$`, p1.Number)

	p2, err := f.pay(inv.ID, "400")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, p2.Invoice.Status)
	assert.True(t, p2.Invoice.BalanceDue.IsZero())

	_, err = f.pay(inv.ID, "1")
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadyPaid)
}

func TestApplyPayment_Guardas(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice(t, "100")

	_, err := f.pay(inv.ID, "0")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = f.pay("no-existe", "-5")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount, "el importe se valida primero")
	_, err = f.pay("no-existe", "5")
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)

	_, err = f.collections.Apply(context.Background(), dto.ApplyPaymentRequest{InvoiceID: inv.ID, Amount: d("10"), Currency: "USD"})
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	_, err = f.pay(inv.ID, "150")
	var over *domain.OverpaymentError
	require.True(t, errors.As(err, &over))
	assert.True(t, over.BalanceDue.Equal(d("100")))
	assert.True(t, over.Attempted.Equal(d("150")))
	assert.ErrorIs(t, err, domain.ErrOverpayment)

	_, err = f.collections.Apply(context.Background(), dto.ApplyPaymentRequest{InvoiceID: inv.ID, Amount: d("10"), Method: "bitcoin"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// Un cobro de 0.005 se guardaría como 0.01 en NUMERIC(18,2).
func TestApplyPayment_RechazaFraccionesDeCentavo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoice(t, "1000")

	_, err := f.pay(inv.ID, "0.005")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.pay(inv.ID, "999.995")
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.invoices.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.AmountCollected.IsZero())
	assert.True(t, got.BalanceDue.Equal(d("1000")))
	assert.Equal(t, entity.InvoiceStatusIssued, got.Status)

	list, err := f.collections.ListByInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	price := d("10.125")
	_, err = f.invoices.Create(ctx, dto.CreateInvoiceRequest{
		CustomerID: f.customerID,
		Lines:      []dto.InvoiceLineRequest{{Description: "Flete", Quantity: 1, UnitPrice: &price}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApplyYVoid_RestauraFacturaYBanco(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoice(t, "1000")
	baID := f.bankAccount(t, "50")

	_, err := f.pay(inv.ID, "200")
	require.NoError(t, err)
	before, err := f.invoices.Get(ctx, inv.ID)
	require.NoError(t, err)

	p, err := f.collections.Apply(ctx, dto.ApplyPaymentRequest{
		InvoiceID: inv.ID, Amount: d("300"), Method: "transferencia", BankAccountID: baID, Reference: "TRF-99",
	})
	require.NoError(t, err)
	assert.Equal(t, baID, p.BankAccountID)
	ba, err := f.store.Repos().BankAccounts.GetByID(ctx, baID)
	require.NoError(t, err)
	assert.True(t, ba.Balance.Equal(d("350")))

	voided, err := f.collections.Void(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, voided.Voided)

	after, err := f.invoices.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Status, after.Status)
	assert.True(t, before.BalanceDue.Equal(after.BalanceDue))
	assert.True(t, before.AmountCollected.Equal(after.AmountCollected))
	ba, err = f.store.Repos().BankAccounts.GetByID(ctx, baID)
	require.NoError(t, err)
	assert.True(t, ba.Balance.Equal(d("50")))

	_, err = f.collections.Void(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound, "un pago anulado no se anula dos veces")

	list, err := f.collections.ListByInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1, "solo cobros vigentes")
}

func TestApplyPayment_EfectivoNoMueveBanco(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoice(t, "100")
	baID := f.bankAccount(t, "0")

	p, err := f.collections.Apply(ctx, dto.ApplyPaymentRequest{InvoiceID: inv.ID, Amount: d("100"), Method: "efectivo", BankAccountID: baID})
	require.NoError(t, err)
	assert.Empty(t, p.BankAccountID)

	ba, err := f.store.Repos().BankAccounts.GetByID(ctx, baID)
	require.NoError(t, err)
	assert.True(t, ba.Balance.IsZero())

	_, err = f.collections.Void(ctx, p.ID)
	require.NoError(t, err)
	ba, err = f.store.Repos().BankAccounts.GetByID(ctx, baID)
	require.NoError(t, err)
	assert.True(t, ba.Balance.IsZero())
}

// ─── Notas de crédito ────────────────────────────────────────────────────────

func TestCreditNote_AplicaUnaSolaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoice(t, "1000")

	nc, err := f.notes.Create(ctx, dto.CreateCreditNoteRequest{
		InvoiceID: inv.ID,
		Reason:    "devolución",
		Lines:     []dto.CreditNoteLineRequest{{Description: "Servicio", Quantity: 1, UnitPrice: d("250")}},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^NC-\d{4}-0001$`, nc.Number)
	assert.True(t, nc.Total.Equal(d("250")), "impuesto a la tasa de la factura")
	assert.False(t, nc.Applied)

	applied, err := f.notes.Apply(ctx, nc.ID)
	require.NoError(t, err)
	assert.True(t, applied.Applied)
	assert.Equal(t, entity.InvoiceStatusPartiallyPaid, applied.Invoice.Status)
	assert.True(t, applied.Invoice.BalanceDue.Equal(d("750")))
	assert.True(t, applied.Invoice.AmountCredited.Equal(d("250")))

	_, err = f.notes.Apply(ctx, nc.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyApplied)
}

func TestCreditNote_NoSuperaElSaldo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoice(t, "100")
	_, err := f.pay(inv.ID, "80")
	require.NoError(t, err)

	nc, err := f.notes.Create(ctx, dto.CreateCreditNoteRequest{
		InvoiceID: inv.ID,
		Reason:    "bonificación",
		Lines:     []dto.CreditNoteLineRequest{{Description: "Bonif.", Quantity: 1, UnitPrice: d("30")}},
	})
	require.NoError(t, err)

	_, err = f.notes.Apply(ctx, nc.ID)
	assert.ErrorIs(t, err, domain.ErrOverpayment)

	got, err := f.notes.Get(ctx, nc.ID)
	require.NoError(t, err)
	assert.False(t, got.Applied, "el rechazo no la marca aplicada")
}

// ─── PDF ─────────────────────────────────────────────────────────────────────

type fakePDF struct{ doc billing.InvoiceDocument }

func (g *fakePDF) GenerateInvoicePDF(_ context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	g.doc = doc
	return []byte("%PDF-1.4"), nil
}

func TestInvoicePDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoice(t, "100")
	p, err := f.pay(inv.ID, "40")
	require.NoError(t, err)
	_, err = f.pay(inv.ID, "10")
	require.NoError(t, err)
	_, err = f.collections.Void(ctx, p.ID)
	require.NoError(t, err)

	gen := &fakePDF{}
	uc := billing.NewPDFUseCase(f.store, gen)
	out, name, err := uc.InvoicePDF(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), out)
	assert.Equal(t, "factura_"+inv.Number+".pdf", name)
	assert.Equal(t, "Ferretería Sur", gen.doc.Customer.Name)
	assert.Len(t, gen.doc.Collections, 1)

	_, _, err = uc.InvoicePDF(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}
