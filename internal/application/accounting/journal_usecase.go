package accounting

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/numbering"
	"github.com/jhoicas/erp-core/internal/domain"
	domacc "github.com/jhoicas/erp-core/internal/domain/accounting"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

// JournalUseCase motor de asientos y reportes contables.
type JournalUseCase struct {
	store repository.Store
}

// NewJournalUseCase construye el caso de uso.
func NewJournalUseCase(store repository.Store) *JournalUseCase {
	return &JournalUseCase{store: store}
}

// CommitEntry registra un asiento balanceado y actualiza el saldo de cada cuenta en una sola transacción.
// Las cuentas se bloquean en orden de ID para que dos asientos concurrentes no se crucen.
func (uc *JournalUseCase) CommitEntry(ctx context.Context, in dto.CommitEntryRequest) (*dto.JournalEntryResponse, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, domain.Validationf("la descripción es obligatoria")
	}
	movs := make([]entity.Movement, 0, len(in.Movements))
	for _, m := range in.Movements {
		movs = append(movs, entity.Movement{
			AccountID:   m.AccountID,
			Debit:       m.Debit,
			Credit:      m.Credit,
			Description: m.Description,
		})
	}
	if err := domacc.ValidateMovements(movs); err != nil {
		return nil, err
	}
	debit, credit := domacc.Totals(movs)
	if err := domacc.CheckBalanced(debit, credit); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := now
	if in.Date != nil {
		date = in.Date.UTC()
	}
	entry := &entity.JournalEntry{
		ID:          uuid.New().String(),
		Date:        date,
		Description: desc,
		Movements:   movs,
		TotalDebit:  debit,
		TotalCredit: credit,
		CreatedAt:   now,
	}
	accounts := map[string]*entity.Account{}

	err := uc.store.Run(ctx, func(r repository.Repositories) error {
		deltas := map[string]decimal.Decimal{}
		for _, m := range movs {
			deltas[m.AccountID] = decimal.Zero
		}
		ids := make([]string, 0, len(deltas))
		for id := range deltas {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			acc, err := r.Accounts.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if acc == nil {
				return domain.Validationf("la cuenta %s no existe", id)
			}
			if !acc.Active {
				return domain.Validationf("la cuenta %s está inactiva", acc.Code)
			}
			accounts[id] = acc
		}
		for _, m := range movs {
			deltas[m.AccountID] = deltas[m.AccountID].Add(domacc.Delta(accounts[m.AccountID].Type, m.Debit, m.Credit))
		}

		n, code, err := numbering.Next(ctx, r.Counters, numbering.JournalEntry, date)
		if err != nil {
			return err
		}
		entry.Number, entry.Code = n, code
		if err := r.Journal.Create(ctx, entry); err != nil {
			return err
		}
		for _, id := range ids {
			if err := r.Accounts.AddBalance(ctx, id, deltas[id]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toEntryResponse(entry, accounts), nil
}

// GetEntry devuelve un asiento confirmado.
func (uc *JournalUseCase) GetEntry(ctx context.Context, id string) (*dto.JournalEntryResponse, error) {
	repos := uc.store.Repos()
	e, err := repos.Journal.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	accounts, err := accountIndex(ctx, repos)
	if err != nil {
		return nil, err
	}
	return toEntryResponse(e, accounts), nil
}

// Journal libro diario: asientos del rango en orden de número.
func (uc *JournalUseCase) Journal(ctx context.Context, from, to *time.Time) ([]*dto.JournalEntryResponse, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.Validationf("rango de fechas inválido")
	}
	repos := uc.store.Repos()
	entries, err := repos.Journal.List(ctx, repository.DateRange{From: from, To: to})
	if err != nil {
		return nil, err
	}
	accounts, err := accountIndex(ctx, repos)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.JournalEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e, accounts))
	}
	return out, nil
}

// Ledger libro mayor: movimientos de la cuenta con saldo acumulado según su saldo normal.
func (uc *JournalUseCase) Ledger(ctx context.Context, accountID string) (*dto.LedgerResponse, error) {
	repos := uc.store.Repos()
	acc, err := repos.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrAccountNotFound
	}
	movs, err := repos.Journal.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	res := &dto.LedgerResponse{
		Account:     *toAccountResponse(acc),
		Lines:       make([]dto.LedgerLine, 0, len(movs)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	running := decimal.Zero
	for _, m := range movs {
		running = running.Add(domacc.Delta(acc.Type, m.Debit, m.Credit))
		res.TotalDebit = res.TotalDebit.Add(m.Debit)
		res.TotalCredit = res.TotalCredit.Add(m.Credit)
		desc := m.Description
		if desc == "" {
			desc = m.EntryDescription
		}
		res.Lines = append(res.Lines, dto.LedgerLine{
			EntryID:     m.EntryID,
			EntryNumber: m.EntryNumber,
			EntryCode:   m.EntryCode,
			Date:        m.EntryDate,
			Description: desc,
			Debit:       m.Debit,
			Credit:      m.Credit,
			Balance:     running,
		})
	}
	res.FinalBalance = running
	return res, nil
}

// TrialBalance balance de sumas y saldos de las cuentas con movimientos, por código.
func (uc *JournalUseCase) TrialBalance(ctx context.Context) (*dto.TrialBalanceResponse, error) {
	repos := uc.store.Repos()
	accounts, err := repos.Accounts.List(ctx, true)
	if err != nil {
		return nil, err
	}
	totals, err := repos.Journal.TotalsByAccount(ctx)
	if err != nil {
		return nil, err
	}
	res := &dto.TrialBalanceResponse{
		Rows:               []dto.TrialBalanceRow{},
		TotalDebit:         decimal.Zero,
		TotalCredit:        decimal.Zero,
		TotalDebitBalance:  decimal.Zero,
		TotalCreditBalance: decimal.Zero,
	}
	for _, acc := range accounts {
		t, ok := totals[acc.ID]
		if !ok || (t.Debit.IsZero() && t.Credit.IsZero()) {
			continue
		}
		row := dto.TrialBalanceRow{
			AccountID:     acc.ID,
			Code:          acc.Code,
			Name:          acc.Name,
			Type:          string(acc.Type),
			TotalDebit:    t.Debit,
			TotalCredit:   t.Credit,
			DebitBalance:  decimal.Zero,
			CreditBalance: decimal.Zero,
		}
		if diff := t.Debit.Sub(t.Credit); diff.IsPositive() {
			row.DebitBalance = diff
		} else {
			row.CreditBalance = diff.Neg()
		}
		res.Rows = append(res.Rows, row)
		res.TotalDebit = res.TotalDebit.Add(t.Debit)
		res.TotalCredit = res.TotalCredit.Add(t.Credit)
		res.TotalDebitBalance = res.TotalDebitBalance.Add(row.DebitBalance)
		res.TotalCreditBalance = res.TotalCreditBalance.Add(row.CreditBalance)
	}
	res.Balanced = domacc.CheckBalanced(res.TotalDebit, res.TotalCredit) == nil
	return res, nil
}

func accountIndex(ctx context.Context, repos repository.Repositories) (map[string]*entity.Account, error) {
	list, err := repos.Accounts.List(ctx, true)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]*entity.Account, len(list))
	for _, a := range list {
		idx[a.ID] = a
	}
	return idx, nil
}

func toEntryResponse(e *entity.JournalEntry, accounts map[string]*entity.Account) *dto.JournalEntryResponse {
	res := &dto.JournalEntryResponse{
		ID:          e.ID,
		Number:      e.Number,
		Code:        e.Code,
		Date:        e.Date,
		Description: e.Description,
		TotalDebit:  e.TotalDebit,
		TotalCredit: e.TotalCredit,
		Movements:   make([]dto.MovementResponse, 0, len(e.Movements)),
	}
	for _, m := range e.Movements {
		mr := dto.MovementResponse{
			AccountID:   m.AccountID,
			Debit:       m.Debit,
			Credit:      m.Credit,
			Description: m.Description,
		}
		if acc, ok := accounts[m.AccountID]; ok {
			mr.AccountCode, mr.AccountName = acc.Code, acc.Name
		}
		res.Movements = append(res.Movements, mr)
	}
	return res
}
