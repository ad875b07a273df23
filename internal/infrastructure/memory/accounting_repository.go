package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var (
	_ repository.AccountRepository = (*accountRepo)(nil)
	_ repository.JournalRepository = (*journalRepo)(nil)
	_ repository.CounterRepository = (*counterRepo)(nil)
)

type accountRepo struct{ a access }

func (r *accountRepo) Create(_ context.Context, acc *entity.Account) error {
	if acc.ID == "" {
		acc.ID = uuid.New().String()
	}
	return r.a.with(func(st *state) error {
		for _, existing := range st.accounts {
			if existing.Code == acc.Code {
				return domain.Validationf("ya existe una cuenta con código %s", acc.Code)
			}
		}
		st.accounts[acc.ID] = *acc
		return nil
	})
}

func (r *accountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	var out *entity.Account
	err := r.a.with(func(st *state) error {
		if acc, ok := st.accounts[id]; ok {
			out = &acc
		}
		return nil
	})
	return out, err
}

func (r *accountRepo) GetByCode(_ context.Context, code string) (*entity.Account, error) {
	var out *entity.Account
	err := r.a.with(func(st *state) error {
		for _, acc := range st.accounts {
			if acc.Code == code {
				out = &acc
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *accountRepo) GetForUpdate(ctx context.Context, id string) (*entity.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *accountRepo) Update(_ context.Context, acc *entity.Account) error {
	return r.a.with(func(st *state) error {
		cur, ok := st.accounts[acc.ID]
		if !ok {
			return domain.ErrAccountNotFound
		}
		for id, existing := range st.accounts {
			if id != acc.ID && existing.Code == acc.Code {
				return domain.Validationf("ya existe una cuenta con código %s", acc.Code)
			}
		}
		cur.Code, cur.Name, cur.Type, cur.Active, cur.UpdatedAt = acc.Code, acc.Name, acc.Type, acc.Active, acc.UpdatedAt
		st.accounts[acc.ID] = cur
		return nil
	})
}

func (r *accountRepo) AddBalance(_ context.Context, id string, delta decimal.Decimal) error {
	return r.a.with(func(st *state) error {
		acc, ok := st.accounts[id]
		if !ok {
			return domain.ErrAccountNotFound
		}
		acc.Balance = acc.Balance.Add(delta)
		st.accounts[id] = acc
		return nil
	})
}

func (r *accountRepo) List(_ context.Context, includeInactive bool) ([]*entity.Account, error) {
	var out []*entity.Account
	err := r.a.with(func(st *state) error {
		for _, acc := range st.accounts {
			if !acc.Active && !includeInactive {
				continue
			}
			out = append(out, &acc)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *accountRepo) HasMovements(_ context.Context, id string) (bool, error) {
	found := false
	err := r.a.with(func(st *state) error {
		for _, e := range st.entries {
			for _, m := range e.Movements {
				if m.AccountID == id {
					found = true
					return nil
				}
			}
		}
		return nil
	})
	return found, err
}

type journalRepo struct{ a access }

func (r *journalRepo) Create(_ context.Context, e *entity.JournalEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	for i := range e.Movements {
		if e.Movements[i].ID == "" {
			e.Movements[i].ID = uuid.New().String()
		}
		e.Movements[i].EntryID = e.ID
		e.Movements[i].Position = i + 1
	}
	return r.a.with(func(st *state) error {
		for _, existing := range st.entries {
			if existing.Number == e.Number {
				return domain.Validationf("número de asiento duplicado: %d", e.Number)
			}
		}
		stored := *e
		stored.Movements = slices.Clone(e.Movements)
		st.entries[e.ID] = stored
		st.entryOrder = append(st.entryOrder, e.ID)
		return nil
	})
}

func (r *journalRepo) GetByID(_ context.Context, id string) (*entity.JournalEntry, error) {
	var out *entity.JournalEntry
	err := r.a.with(func(st *state) error {
		if e, ok := st.entries[id]; ok {
			out = copyEntry(e)
		}
		return nil
	})
	return out, err
}

// ordered devuelve los asientos por número creciente.
func ordered(st *state) []entity.JournalEntry {
	out := make([]entity.JournalEntry, 0, len(st.entryOrder))
	for _, id := range st.entryOrder {
		out = append(out, st.entries[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (r *journalRepo) List(_ context.Context, rng repository.DateRange) ([]*entity.JournalEntry, error) {
	var out []*entity.JournalEntry
	err := r.a.with(func(st *state) error {
		for _, e := range ordered(st) {
			if rng.Contains(e.Date) {
				out = append(out, copyEntry(e))
			}
		}
		return nil
	})
	return out, err
}

func (r *journalRepo) ListByAccount(_ context.Context, accountID string) ([]repository.AccountMovement, error) {
	var out []repository.AccountMovement
	err := r.a.with(func(st *state) error {
		for _, e := range ordered(st) {
			for _, m := range e.Movements {
				if m.AccountID != accountID {
					continue
				}
				out = append(out, repository.AccountMovement{
					EntryID:          e.ID,
					EntryNumber:      e.Number,
					EntryCode:        e.Code,
					EntryDate:        e.Date,
					EntryDescription: e.Description,
					Debit:            m.Debit,
					Credit:           m.Credit,
					Description:      m.Description,
				})
			}
		}
		return nil
	})
	return out, err
}

func (r *journalRepo) TotalsByAccount(_ context.Context) (map[string]repository.AccountTotals, error) {
	out := map[string]repository.AccountTotals{}
	err := r.a.with(func(st *state) error {
		for _, e := range st.entries {
			for _, m := range e.Movements {
				t := out[m.AccountID]
				t.Debit = t.Debit.Add(m.Debit)
				t.Credit = t.Credit.Add(m.Credit)
				out[m.AccountID] = t
			}
		}
		return nil
	})
	return out, err
}

type counterRepo struct{ a access }

func (r *counterRepo) Next(_ context.Context, name string) (int64, error) {
	var n int64
	err := r.a.with(func(st *state) error {
		st.counters[name]++
		n = st.counters[name]
		return nil
	})
	return n, err
}
