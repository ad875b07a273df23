package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var (
	_ repository.CollectionRepository    = (*CollectionRepo)(nil)
	_ repository.VendorPaymentRepository = (*VendorPaymentRepo)(nil)
	_ repository.BankAccountRepository   = (*BankAccountRepo)(nil)
)

// CollectionRepo cobros a clientes sobre PostgreSQL.
type CollectionRepo struct {
	q Querier
}

// NewCollectionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCollectionRepository(q Querier) *CollectionRepo {
	return &CollectionRepo{q: q}
}

const collectionColumns = `id, number, invoice_id, customer_id, amount, currency, method,
	COALESCE(bank_account_id, ''), reference, date, voided, voided_at, created_at`

func scanCollection(row pgx.Row) (*entity.Collection, error) {
	var c entity.Collection
	err := row.Scan(&c.ID, &c.Number, &c.InvoiceID, &c.CustomerID, &c.Amount, &c.Currency, &c.Method,
		&c.BankAccountID, &c.Reference, &c.Date, &c.Voided, &c.VoidedAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserta un cobro.
func (r *CollectionRepo) Create(ctx context.Context, c *entity.Collection) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO collections (id, number, invoice_id, customer_id, amount, currency, method,
			bank_account_id, reference, date, voided, voided_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11, $12, $13)`,
		c.ID, c.Number, c.InvoiceID, c.CustomerID, c.Amount, c.Currency, c.Method,
		c.BankAccountID, c.Reference, c.Date, c.Voided, c.VoidedAt, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert collection: %w", err)
	}
	return nil
}

func (r *CollectionRepo) get(ctx context.Context, query, id string) (*entity.Collection, error) {
	c, err := scanCollection(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return c, nil
}

// GetByID obtiene un cobro.
func (r *CollectionRepo) GetByID(ctx context.Context, id string) (*entity.Collection, error) {
	return r.get(ctx, `SELECT `+collectionColumns+` FROM collections WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del cobro.
func (r *CollectionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Collection, error) {
	return r.get(ctx, `SELECT `+collectionColumns+` FROM collections WHERE id = $1 FOR UPDATE`, id)
}

// MarkVoided marca el cobro como anulado.
func (r *CollectionRepo) MarkVoided(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE collections SET voided = TRUE, voided_at = $2 WHERE id = $1 AND NOT voided`, id, at)
	if err != nil {
		return fmt.Errorf("void collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

// ListByInvoice cobros de una factura (incluidos los anulados) en orden de fecha.
func (r *CollectionRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Collection, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+collectionColumns+` FROM collections
		WHERE invoice_id = $1 ORDER BY date, number`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()
	var out []*entity.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// VendorPaymentRepo pagos a proveedores sobre PostgreSQL.
type VendorPaymentRepo struct {
	q Querier
}

// NewVendorPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVendorPaymentRepository(q Querier) *VendorPaymentRepo {
	return &VendorPaymentRepo{q: q}
}

const vendorPaymentColumns = `id, number, vendor_id, COALESCE(bank_account_id, ''), amount, method, concept,
	reference, date, voided, voided_at, created_at`

func scanVendorPayment(row pgx.Row) (*entity.VendorPayment, error) {
	var p entity.VendorPayment
	err := row.Scan(&p.ID, &p.Number, &p.VendorID, &p.BankAccountID, &p.Amount, &p.Method, &p.Concept,
		&p.Reference, &p.Date, &p.Voided, &p.VoidedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta un pago.
func (r *VendorPaymentRepo) Create(ctx context.Context, p *entity.VendorPayment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO vendor_payments (id, number, vendor_id, bank_account_id, amount, method, concept,
			reference, date, voided, voided_at, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.Number, p.VendorID, p.BankAccountID, p.Amount, p.Method, p.Concept,
		p.Reference, p.Date, p.Voided, p.VoidedAt, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert vendor payment: %w", err)
	}
	return nil
}

func (r *VendorPaymentRepo) get(ctx context.Context, query, id string) (*entity.VendorPayment, error) {
	p, err := scanVendorPayment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor payment: %w", err)
	}
	return p, nil
}

// GetByID obtiene un pago.
func (r *VendorPaymentRepo) GetByID(ctx context.Context, id string) (*entity.VendorPayment, error) {
	return r.get(ctx, `SELECT `+vendorPaymentColumns+` FROM vendor_payments WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del pago.
func (r *VendorPaymentRepo) GetForUpdate(ctx context.Context, id string) (*entity.VendorPayment, error) {
	return r.get(ctx, `SELECT `+vendorPaymentColumns+` FROM vendor_payments WHERE id = $1 FOR UPDATE`, id)
}

// MarkVoided marca el pago como anulado.
func (r *VendorPaymentRepo) MarkVoided(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE vendor_payments SET voided = TRUE, voided_at = $2 WHERE id = $1 AND NOT voided`, id, at)
	if err != nil {
		return fmt.Errorf("void vendor payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

// List pagos más recientes primero; vendorID vacío lista todos.
func (r *VendorPaymentRepo) List(ctx context.Context, vendorID string) ([]*entity.VendorPayment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+vendorPaymentColumns+` FROM vendor_payments
		WHERE $1 = '' OR vendor_id = $1
		ORDER BY date DESC, number DESC`, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list vendor payments: %w", err)
	}
	defer rows.Close()
	var out []*entity.VendorPayment
	for rows.Next() {
		p, err := scanVendorPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// BankAccountRepo cuentas bancarias sobre PostgreSQL.
type BankAccountRepo struct {
	q Querier
}

// NewBankAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBankAccountRepository(q Querier) *BankAccountRepo {
	return &BankAccountRepo{q: q}
}

const bankAccountColumns = `id, name, bank, number, currency, balance, active, created_at, updated_at`

func scanBankAccount(row pgx.Row) (*entity.BankAccount, error) {
	var b entity.BankAccount
	if err := row.Scan(&b.ID, &b.Name, &b.Bank, &b.Number, &b.Currency, &b.Balance, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserta una cuenta bancaria.
func (r *BankAccountRepo) Create(ctx context.Context, b *entity.BankAccount) error {
	_, err := r.q.Exec(ctx, `INSERT INTO bank_accounts (`+bankAccountColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.Name, b.Bank, b.Number, b.Currency, b.Balance, b.Active, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert bank account: %w", err)
	}
	return nil
}

func (r *BankAccountRepo) get(ctx context.Context, query, id string) (*entity.BankAccount, error) {
	b, err := scanBankAccount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	return b, nil
}

// GetByID obtiene una cuenta bancaria.
func (r *BankAccountRepo) GetByID(ctx context.Context, id string) (*entity.BankAccount, error) {
	return r.get(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la cuenta.
func (r *BankAccountRepo) GetForUpdate(ctx context.Context, id string) (*entity.BankAccount, error) {
	return r.get(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts WHERE id = $1 FOR UPDATE`, id)
}

// AddBalance suma delta al saldo.
func (r *BankAccountRepo) AddBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE bank_accounts SET balance = balance + $2, updated_at = now() WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("add bank balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBankAccountNotFound
	}
	return nil
}

// List cuentas ordenadas por nombre.
func (r *BankAccountRepo) List(ctx context.Context) ([]*entity.BankAccount, error) {
	rows, err := r.q.Query(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()
	var out []*entity.BankAccount
	for rows.Next() {
		b, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
