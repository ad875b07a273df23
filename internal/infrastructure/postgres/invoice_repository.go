package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository    = (*InvoiceRepo)(nil)
	_ repository.CreditNoteRepository = (*CreditNoteRepo)(nil)
)

// InvoiceRepo facturas (cabecera + líneas) sobre PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, number, issue_date, due_date, customer_id, COALESCE(sale_id, ''), currency,
	subtotal, tax_rate, tax_amount, total, amount_collected, amount_credited, balance_due, status, notes,
	created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.IssueDate, &inv.DueDate, &inv.CustomerID, &inv.SaleID, &inv.Currency,
		&inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.Total, &inv.AmountCollected, &inv.AmountCredited,
		&inv.BalanceDue, &inv.Status, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// queueLines encola las líneas de una factura o nota de crédito en table.
func queueLines(b *pgx.Batch, table, parentColumn, parentID string, lines []entity.InvoiceLine) {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s, position, product_code, description, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, table, parentColumn)
	for i := range lines {
		l := &lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.InvoiceID = parentID
		b.Queue(query, l.ID, parentID, l.Position, l.ProductCode, l.Description, l.Quantity, l.UnitPrice, l.Subtotal)
	}
}

func listLines(ctx context.Context, q Querier, table, parentColumn, parentID string) ([]entity.InvoiceLine, error) {
	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT id, %[2]s, position, product_code, description, quantity, unit_price, subtotal
		FROM %[1]s WHERE %[2]s = $1 ORDER BY position`, table, parentColumn), parentID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()
	var out []entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Position, &l.ProductCode, &l.Description, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Create inserta la factura con sus líneas. Número o venta repetidos son errores de validación.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO invoices (id, number, issue_date, due_date, customer_id, sale_id, currency,
			subtotal, tax_rate, tax_amount, total, amount_collected, amount_credited, balance_due, status, notes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		inv.ID, inv.Number, inv.IssueDate, inv.DueDate, inv.CustomerID, inv.SaleID, inv.Currency,
		inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.Total, inv.AmountCollected, inv.AmountCredited,
		inv.BalanceDue, inv.Status, inv.Notes, inv.CreatedAt, inv.UpdatedAt)
	queueLines(b, "invoice_lines", "invoice_id", inv.ID, inv.Lines)
	if err := execBatch(ctx, r.q, b); err != nil {
		if isUniqueViolation(err) {
			return domain.Validationf("factura duplicada (número %s o venta %s)", inv.Number, inv.SaleID)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) get(ctx context.Context, query, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv.Lines, err = listLines(ctx, r.q, "invoice_lines", "invoice_id", id); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetByID obtiene una factura con sus líneas.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la factura.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

// UpdateSettlement persiste cobrado, acreditado, saldo y estado.
func (r *InvoiceRepo) UpdateSettlement(ctx context.Context, inv *entity.Invoice) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices
		SET amount_collected = $2, amount_credited = $3, balance_due = $4, status = $5, updated_at = $6
		WHERE id = $1`,
		inv.ID, inv.AmountCollected, inv.AmountCredited, inv.BalanceDue, inv.Status, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice settlement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// List facturas más recientes primero, con líneas.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE ($1 = '' OR customer_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY issue_date DESC, number DESC
		LIMIT $3 OFFSET $4`, f.CustomerID, f.Status, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, inv := range out {
		if inv.Lines, err = listLines(ctx, r.q, "invoice_lines", "invoice_id", inv.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// OutstandingByCustomer saldo pendiente por cliente y moneda de facturas no anuladas.
func (r *InvoiceRepo) OutstandingByCustomer(ctx context.Context) ([]repository.CustomerOutstanding, error) {
	rows, err := r.q.Query(ctx, `
		SELECT customer_id, currency, COUNT(*), SUM(balance_due)
		FROM invoices
		WHERE status IN ('ISSUED', 'PARTIALLY_PAID') AND balance_due > 0
		GROUP BY customer_id, currency
		ORDER BY customer_id, currency`)
	if err != nil {
		return nil, fmt.Errorf("outstanding by customer: %w", err)
	}
	defer rows.Close()
	var out []repository.CustomerOutstanding
	for rows.Next() {
		var row repository.CustomerOutstanding
		if err := rows.Scan(&row.CustomerID, &row.Currency, &row.Invoices, &row.BalanceDue); err != nil {
			return nil, fmt.Errorf("scan outstanding: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CreditNoteRepo notas de crédito sobre PostgreSQL.
type CreditNoteRepo struct {
	q Querier
}

// NewCreditNoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCreditNoteRepository(q Querier) *CreditNoteRepo {
	return &CreditNoteRepo{q: q}
}

const creditNoteColumns = `id, number, invoice_id, customer_id, reason, subtotal, tax_amount, total, applied, applied_at, created_at`

func scanCreditNote(row pgx.Row) (*entity.CreditNote, error) {
	var n entity.CreditNote
	err := row.Scan(&n.ID, &n.Number, &n.InvoiceID, &n.CustomerID, &n.Reason, &n.Subtotal, &n.TaxAmount,
		&n.Total, &n.Applied, &n.AppliedAt, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserta la nota con sus líneas.
func (r *CreditNoteRepo) Create(ctx context.Context, n *entity.CreditNote) error {
	b := &pgx.Batch{}
	b.Queue(`INSERT INTO credit_notes (`+creditNoteColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		n.ID, n.Number, n.InvoiceID, n.CustomerID, n.Reason, n.Subtotal, n.TaxAmount, n.Total, n.Applied, n.AppliedAt, n.CreatedAt)
	queueLines(b, "credit_note_lines", "credit_note_id", n.ID, n.Lines)
	if err := execBatch(ctx, r.q, b); err != nil {
		return fmt.Errorf("insert credit note: %w", err)
	}
	return nil
}

func (r *CreditNoteRepo) get(ctx context.Context, query, id string) (*entity.CreditNote, error) {
	n, err := scanCreditNote(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credit note: %w", err)
	}
	if n.Lines, err = listLines(ctx, r.q, "credit_note_lines", "credit_note_id", id); err != nil {
		return nil, err
	}
	return n, nil
}

// GetByID obtiene una nota con sus líneas.
func (r *CreditNoteRepo) GetByID(ctx context.Context, id string) (*entity.CreditNote, error) {
	return r.get(ctx, `SELECT `+creditNoteColumns+` FROM credit_notes WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la nota.
func (r *CreditNoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.CreditNote, error) {
	return r.get(ctx, `SELECT `+creditNoteColumns+` FROM credit_notes WHERE id = $1 FOR UPDATE`, id)
}

// MarkApplied marca la nota como aplicada. Una nota ya aplicada no se vuelve a marcar.
func (r *CreditNoteRepo) MarkApplied(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE credit_notes SET applied = TRUE, applied_at = $2 WHERE id = $1 AND NOT applied`, id, at)
	if err != nil {
		return fmt.Errorf("mark credit note applied: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyApplied
	}
	return nil
}

// ListByInvoice notas de una factura en orden de emisión.
func (r *CreditNoteRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.CreditNote, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+creditNoteColumns+` FROM credit_notes
		WHERE invoice_id = $1 ORDER BY created_at, number`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list credit notes: %w", err)
	}
	defer rows.Close()
	var out []*entity.CreditNote
	for rows.Next() {
		n, err := scanCreditNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credit note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
