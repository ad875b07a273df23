package accounting_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/internal/application/accounting"
	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	accounts *accounting.AccountUseCase
	journal  *accounting.JournalUseCase
	caja     *dto.AccountResponse
	ventas   *dto.AccountResponse
	gastos   *dto.AccountResponse
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		accounts: accounting.NewAccountUseCase(store),
		journal:  accounting.NewJournalUseCase(store),
	}
	ctx := context.Background()
	var err error
	f.caja, err = f.accounts.Create(ctx, dto.CreateAccountRequest{Code: "1.1.01", Name: "Caja", Type: "activo"})
	require.NoError(t, err)
	f.ventas, err = f.accounts.Create(ctx, dto.CreateAccountRequest{Code: "4.1.01", Name: "Ventas", Type: "INCOME"})
	require.NoError(t, err)
	f.gastos, err = f.accounts.Create(ctx, dto.CreateAccountRequest{Code: "5.1.01", Name: "Gastos", Type: "egreso"})
	require.NoError(t, err)
	return f
}

func (f *fixture) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	l, err := f.journal.Ledger(context.Background(), id)
	require.NoError(t, err)
	return l.Account.Balance
}

func venta(f *fixture, amount string) dto.CommitEntryRequest {
	return dto.CommitEntryRequest{
		Description: "Venta contado",
		Movements: []dto.MovementRequest{
			{AccountID: f.caja.ID, Debit: d(amount)},
			{AccountID: f.ventas.ID, Credit: d(amount)},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CommitEntry
// ──────────────────────────────────────────────────────────────────────────────

func TestCommitEntry_ActualizaSaldosSegunTipo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.journal.CommitEntry(ctx, venta(f, "100"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.Number)
	assert.Regexp(t, `^AST-\d{4}-0001$`, e.Code)
	assert.Equal(t, "1.1.01", e.Movements[0].AccountCode)

	assert.Equal(t, "100", f.balance(t, f.caja.ID).String(), "activo: debe - haber")
	assert.Equal(t, "100", f.balance(t, f.ventas.ID).String(), "ingreso: haber - debe")

	_, err = f.journal.CommitEntry(ctx, dto.CommitEntryRequest{
		Description: "Pago de luz",
		Movements: []dto.MovementRequest{
			{AccountID: f.gastos.ID, Debit: d("30")},
			{AccountID: f.caja.ID, Credit: d("30")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "70", f.balance(t, f.caja.ID).String())
	assert.Equal(t, "30", f.balance(t, f.gastos.ID).String())
}

// Debe 100 a Caja, haber 90 a Ventas: se rechaza y ningún saldo cambia.
func TestCommitEntry_DesbalanceadoNoModificaSaldos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.journal.CommitEntry(ctx, dto.CommitEntryRequest{
		Description: "Desbalanceado",
		Movements: []dto.MovementRequest{
			{AccountID: f.caja.ID, Debit: d("100")},
			{AccountID: f.ventas.ID, Credit: d("90")},
		},
	})
	var unb *domain.UnbalancedEntryError
	require.True(t, errors.As(err, &unb))
	assert.Equal(t, "100", unb.TotalDebit.String())
	assert.Equal(t, "90", unb.TotalCredit.String())

	assert.True(t, f.balance(t, f.caja.ID).IsZero())
	assert.True(t, f.balance(t, f.ventas.ID).IsZero())
	entries, err := f.journal.Journal(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCommitEntry_ToleranciaDeUnCentavo(t *testing.T) {
	f := newFixture(t)
	_, err := f.journal.CommitEntry(context.Background(), dto.CommitEntryRequest{
		Description: "Redondeo",
		Movements: []dto.MovementRequest{
			{AccountID: f.caja.ID, Debit: d("100.01")},
			{AccountID: f.ventas.ID, Credit: d("100.00")},
		},
	})
	assert.NoError(t, err)
}

// Movimientos de 0.004 quedarían en cero en NUMERIC(18,2).
func TestCommitEntry_RechazaFraccionesDeCentavo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.journal.CommitEntry(ctx, venta(f, "0.004"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.journal.CommitEntry(ctx, venta(f, "10.125"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.True(t, f.balance(t, f.caja.ID).IsZero())
	assert.True(t, f.balance(t, f.ventas.ID).IsZero())
	entries, err := f.journal.Journal(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = f.journal.CommitEntry(ctx, venta(f, "10.120"))
	assert.NoError(t, err)
}

func TestCommitEntry_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.journal.CommitEntry(ctx, dto.CommitEntryRequest{
		Description: "Un solo movimiento",
		Movements:   []dto.MovementRequest{{AccountID: f.caja.ID, Debit: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.journal.CommitEntry(ctx, dto.CommitEntryRequest{
		Description: "Cuenta inexistente",
		Movements: []dto.MovementRequest{
			{AccountID: "no-existe", Debit: d("1")},
			{AccountID: f.ventas.ID, Credit: d("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.accounts.Deactivate(ctx, f.ventas.ID)
	require.NoError(t, err)
	_, err = f.journal.CommitEntry(ctx, venta(f, "5"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, f.balance(t, f.caja.ID).IsZero())
}

func TestCommitEntry_SecuenciaSinHuecosConcurrente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const n = 40

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := venta(f, "10")
			if i%4 == 0 {
				req.Movements[1].Credit = d("1") // desbalanceado, no consume número
			}
			_, _ = f.journal.CommitEntry(ctx, req)
		}(i)
	}
	wg.Wait()

	entries, err := f.journal.Journal(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, n-n/4)
	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.Number)
	}
	assert.Equal(t, d("300").String(), f.balance(t, f.caja.ID).String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_SaldoAcumulado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.journal.CommitEntry(ctx, venta(f, "100"))
	require.NoError(t, err)
	_, err = f.journal.CommitEntry(ctx, dto.CommitEntryRequest{
		Description: "Gasto",
		Movements: []dto.MovementRequest{
			{AccountID: f.gastos.ID, Debit: d("40")},
			{AccountID: f.caja.ID, Credit: d("40")},
		},
	})
	require.NoError(t, err)

	l, err := f.journal.Ledger(ctx, f.caja.ID)
	require.NoError(t, err)
	require.Len(t, l.Lines, 2)
	assert.Equal(t, "100", l.Lines[0].Balance.String())
	assert.Equal(t, "60", l.Lines[1].Balance.String())
	assert.True(t, l.FinalBalance.Equal(l.Account.Balance), "el mayor debe coincidir con el saldo almacenado")

	_, err = f.journal.Ledger(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrialBalance_Totales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.journal.CommitEntry(ctx, venta(f, "250"))
	require.NoError(t, err)

	tb, err := f.journal.TrialBalance(ctx)
	require.NoError(t, err)
	require.Len(t, tb.Rows, 2, "las cuentas sin movimientos no aparecen")
	assert.True(t, tb.Balanced)
	assert.Equal(t, "250", tb.TotalDebit.String())
	assert.Equal(t, "250", tb.TotalDebitBalance.String())
	assert.Equal(t, "250", tb.TotalCreditBalance.String())
	assert.Equal(t, "1.1.01", tb.Rows[0].Code)
	assert.Equal(t, "250", tb.Rows[0].DebitBalance.String())
	assert.Equal(t, "250", tb.Rows[1].CreditBalance.String())
}

func TestJournal_FiltraPorFecha(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	enero := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	marzo := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, dt := range []time.Time{enero, marzo} {
		req := venta(f, "10")
		req.Date = &dt
		_, err := f.journal.CommitEntry(ctx, req)
		require.NoError(t, err)
	}
	desde := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	entries, err := f.journal.Journal(ctx, &desde, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].Number)
}

// ──────────────────────────────────────────────────────────────────────────────
// Plan de cuentas
// ──────────────────────────────────────────────────────────────────────────────

func TestAccounts_CodigoDuplicadoYTipoInvalido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.Create(ctx, dto.CreateAccountRequest{Code: "1.1.01", Name: "Otra caja", Type: "ASSET"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.accounts.Create(ctx, dto.CreateAccountRequest{Code: "9.9", Name: "Rara", Type: "contingente"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAccounts_NoCambiaCodigoConMovimientos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	nuevo := "1.1.99"

	_, err := f.accounts.Update(ctx, f.gastos.ID, dto.UpdateAccountRequest{Code: &nuevo})
	require.NoError(t, err, "sin movimientos el código se puede cambiar")

	_, err = f.journal.CommitEntry(ctx, venta(f, "1"))
	require.NoError(t, err)
	otro := "1.1.77"
	_, err = f.accounts.Update(ctx, f.caja.ID, dto.UpdateAccountRequest{Code: &otro})
	assert.ErrorIs(t, err, domain.ErrValidation)

	nombre := "Caja chica"
	acc, err := f.accounts.Update(ctx, f.caja.ID, dto.UpdateAccountRequest{Name: &nombre})
	require.NoError(t, err)
	assert.Equal(t, "Caja chica", acc.Name)
	assert.Equal(t, "1", acc.Balance.String())
}

func TestAccounts_ListSoloActivas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.accounts.Deactivate(ctx, f.gastos.ID)
	require.NoError(t, err)

	list, err := f.accounts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "1.1.01", list[0].Code)
	assert.Equal(t, "4.1.01", list[1].Code)
}
