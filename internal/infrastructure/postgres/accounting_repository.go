package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var (
	_ repository.AccountRepository = (*AccountRepo)(nil)
	_ repository.JournalRepository = (*JournalRepo)(nil)
)

// AccountRepo plan de cuentas sobre PostgreSQL (usable con pool o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `id, code, name, type, balance, active, created_at, updated_at`

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var a entity.Account
	if err := row.Scan(&a.ID, &a.Code, &a.Name, &a.Type, &a.Balance, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste una cuenta. Código duplicado es un error de validación.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	_, err := r.q.Exec(ctx, `INSERT INTO accounts (`+accountColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Code, a.Name, a.Type, a.Balance, a.Active, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Validationf("ya existe una cuenta con código %s", a.Code)
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepo) get(ctx context.Context, query string, arg any) (*entity.Account, error) {
	a, err := scanAccount(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// GetByID obtiene una cuenta por ID.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// GetByCode obtiene una cuenta por código.
func (r *AccountRepo) GetByCode(ctx context.Context, code string) (*entity.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE code = $1`, code)
}

// GetForUpdate obtiene la cuenta y bloquea la fila.
func (r *AccountRepo) GetForUpdate(ctx context.Context, id string) (*entity.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste código, nombre, tipo y estado. El saldo solo cambia vía AddBalance.
func (r *AccountRepo) Update(ctx context.Context, a *entity.Account) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE accounts SET code = $2, name = $3, type = $4, active = $5, updated_at = $6
		WHERE id = $1`, a.ID, a.Code, a.Name, a.Type, a.Active, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Validationf("ya existe una cuenta con código %s", a.Code)
		}
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// AddBalance suma delta al saldo de la cuenta.
func (r *AccountRepo) AddBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE accounts SET balance = balance + $2, updated_at = now() WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("add account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// List cuentas ordenadas por código.
func (r *AccountRepo) List(ctx context.Context, includeInactive bool) ([]*entity.Account, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE $1 OR active
		ORDER BY code`, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var out []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// HasMovements indica si la cuenta figura en algún asiento.
func (r *AccountRepo) HasMovements(ctx context.Context, id string) (bool, error) {
	var found bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_movements WHERE account_id = $1)`, id).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("account has movements: %w", err)
	}
	return found, nil
}

// JournalRepo libro diario sobre PostgreSQL. Los asientos son inmutables.
type JournalRepo struct {
	q Querier
}

// NewJournalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

// Create inserta cabecera y movimientos en un solo batch.
func (r *JournalRepo) Create(ctx context.Context, e *entity.JournalEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO journal_entries (id, number, code, date, description, total_debit, total_credit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Number, e.Code, e.Date, e.Description, e.TotalDebit, e.TotalCredit, e.CreatedAt)
	for i := range e.Movements {
		m := &e.Movements[i]
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		m.EntryID, m.Position = e.ID, i+1
		b.Queue(`
			INSERT INTO journal_movements (id, entry_id, position, account_id, debit, credit, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			m.ID, m.EntryID, m.Position, m.AccountID, m.Debit, m.Credit, m.Description)
	}
	if err := execBatch(ctx, r.q, b); err != nil {
		if isUniqueViolation(err) {
			return domain.Validationf("número de asiento duplicado: %d", e.Number)
		}
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

const entryColumns = `id, number, code, date, description, total_debit, total_credit, created_at`

// GetByID obtiene un asiento con sus movimientos.
func (r *JournalRepo) GetByID(ctx context.Context, id string) (*entity.JournalEntry, error) {
	var e entity.JournalEntry
	err := r.q.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE id = $1`, id).Scan(
		&e.ID, &e.Number, &e.Code, &e.Date, &e.Description, &e.TotalDebit, &e.TotalCredit, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get journal entry: %w", err)
	}
	movs, err := r.movements(ctx, []string{e.ID})
	if err != nil {
		return nil, err
	}
	e.Movements = movs[e.ID]
	return &e, nil
}

// List asientos del rango ordenados por número, con movimientos.
func (r *JournalRepo) List(ctx context.Context, rng repository.DateRange) ([]*entity.JournalEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+entryColumns+` FROM journal_entries
		WHERE ($1::timestamptz IS NULL OR date >= $1)
		  AND ($2::timestamptz IS NULL OR date <= $2)
		ORDER BY number`, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var (
		out []*entity.JournalEntry
		ids []string
	)
	for rows.Next() {
		var e entity.JournalEntry
		if err := rows.Scan(&e.ID, &e.Number, &e.Code, &e.Date, &e.Description, &e.TotalDebit, &e.TotalCredit, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		out = append(out, &e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}
	movs, err := r.movements(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range out {
		e.Movements = movs[e.ID]
	}
	return out, nil
}

func (r *JournalRepo) movements(ctx context.Context, entryIDs []string) (map[string][]entity.Movement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, entry_id, position, account_id, debit, credit, description
		FROM journal_movements
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, position`, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("list journal movements: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.Movement, len(entryIDs))
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.EntryID, &m.Position, &m.AccountID, &m.Debit, &m.Credit, &m.Description); err != nil {
			return nil, fmt.Errorf("scan journal movement: %w", err)
		}
		out[m.EntryID] = append(out[m.EntryID], m)
	}
	return out, rows.Err()
}

// ListByAccount movimientos de una cuenta en orden de número de asiento.
func (r *JournalRepo) ListByAccount(ctx context.Context, accountID string) ([]repository.AccountMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT e.id, e.number, e.code, e.date, e.description, m.debit, m.credit, m.description
		FROM journal_movements m
		JOIN journal_entries e ON e.id = m.entry_id
		WHERE m.account_id = $1
		ORDER BY e.number, m.position`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list account movements: %w", err)
	}
	defer rows.Close()
	var out []repository.AccountMovement
	for rows.Next() {
		var am repository.AccountMovement
		if err := rows.Scan(&am.EntryID, &am.EntryNumber, &am.EntryCode, &am.EntryDate, &am.EntryDescription,
			&am.Debit, &am.Credit, &am.Description); err != nil {
			return nil, fmt.Errorf("scan account movement: %w", err)
		}
		out = append(out, am)
	}
	return out, rows.Err()
}

// TotalsByAccount sumas de debe y haber por cuenta con movimientos.
func (r *JournalRepo) TotalsByAccount(ctx context.Context) (map[string]repository.AccountTotals, error) {
	rows, err := r.q.Query(ctx, `
		SELECT account_id, COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM journal_movements
		GROUP BY account_id`)
	if err != nil {
		return nil, fmt.Errorf("account totals: %w", err)
	}
	defer rows.Close()
	out := map[string]repository.AccountTotals{}
	for rows.Next() {
		var (
			id string
			t  repository.AccountTotals
		)
		if err := rows.Scan(&id, &t.Debit, &t.Credit); err != nil {
			return nil, fmt.Errorf("scan account totals: %w", err)
		}
		out[id] = t
	}
	return out, rows.Err()
}
