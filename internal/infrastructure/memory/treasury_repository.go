package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var (
	_ repository.BankAccountRepository   = (*bankAccountRepo)(nil)
	_ repository.VendorPaymentRepository = (*vendorPaymentRepo)(nil)
)

type bankAccountRepo struct{ a access }

func (r *bankAccountRepo) Create(_ context.Context, b *entity.BankAccount) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return r.a.with(func(st *state) error {
		st.bankAccounts[b.ID] = *b
		return nil
	})
}

func (r *bankAccountRepo) GetByID(_ context.Context, id string) (*entity.BankAccount, error) {
	var out *entity.BankAccount
	err := r.a.with(func(st *state) error {
		if b, ok := st.bankAccounts[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r *bankAccountRepo) GetForUpdate(ctx context.Context, id string) (*entity.BankAccount, error) {
	return r.GetByID(ctx, id)
}

func (r *bankAccountRepo) AddBalance(_ context.Context, id string, delta decimal.Decimal) error {
	return r.a.with(func(st *state) error {
		b, ok := st.bankAccounts[id]
		if !ok {
			return domain.ErrBankAccountNotFound
		}
		b.Balance = b.Balance.Add(delta)
		b.UpdatedAt = time.Now().UTC()
		st.bankAccounts[id] = b
		return nil
	})
}

func (r *bankAccountRepo) List(_ context.Context) ([]*entity.BankAccount, error) {
	var out []*entity.BankAccount
	err := r.a.with(func(st *state) error {
		for _, b := range st.bankAccounts {
			out = append(out, &b)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

type vendorPaymentRepo struct{ a access }

func (r *vendorPaymentRepo) Create(_ context.Context, p *entity.VendorPayment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return r.a.with(func(st *state) error {
		st.vendorPayments[p.ID] = *p
		st.vendorPayOrder = append(st.vendorPayOrder, p.ID)
		return nil
	})
}

func (r *vendorPaymentRepo) GetByID(_ context.Context, id string) (*entity.VendorPayment, error) {
	var out *entity.VendorPayment
	err := r.a.with(func(st *state) error {
		if p, ok := st.vendorPayments[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *vendorPaymentRepo) GetForUpdate(ctx context.Context, id string) (*entity.VendorPayment, error) {
	return r.GetByID(ctx, id)
}

func (r *vendorPaymentRepo) MarkVoided(_ context.Context, id string, at time.Time) error {
	return r.a.with(func(st *state) error {
		p, ok := st.vendorPayments[id]
		if !ok {
			return domain.ErrPaymentNotFound
		}
		p.Voided = true
		p.VoidedAt = &at
		st.vendorPayments[id] = p
		return nil
	})
}

func (r *vendorPaymentRepo) List(_ context.Context, vendorID string) ([]*entity.VendorPayment, error) {
	var out []*entity.VendorPayment
	err := r.a.with(func(st *state) error {
		for i := len(st.vendorPayOrder) - 1; i >= 0; i-- {
			p := st.vendorPayments[st.vendorPayOrder[i]]
			if vendorID != "" && p.VendorID != vendorID {
				continue
			}
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}
