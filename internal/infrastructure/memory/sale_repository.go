package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.SaleRepository = (*saleRepo)(nil)

type saleRepo struct{ a access }

func assignItemIDs(saleID string, items []entity.SaleItem) {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		items[i].SaleID = saleID
		items[i].Position = i + 1
	}
}

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	assignItemIDs(s.ID, s.Items)
	return r.a.with(func(st *state) error {
		st.sales[s.ID] = *copySale(*s)
		st.saleOrder = append(st.saleOrder, s.ID)
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.a.with(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = copySale(s)
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) ReplaceItems(_ context.Context, saleID string, items []entity.SaleItem, total decimal.Decimal, at time.Time) error {
	items = slices.Clone(items)
	assignItemIDs(saleID, items)
	return r.a.with(func(st *state) error {
		s, ok := st.sales[saleID]
		if !ok {
			return domain.ErrSaleNotFound
		}
		s.Items = items
		s.Total = total
		s.UpdatedAt = at
		st.sales[saleID] = s
		return nil
	})
}

func (r *saleRepo) UpdateStatus(_ context.Context, id, status string, at time.Time) error {
	return r.a.with(func(st *state) error {
		s, ok := st.sales[id]
		if !ok {
			return domain.ErrSaleNotFound
		}
		s.Status = status
		s.UpdatedAt = at
		if status == entity.SaleStatusConfirmed {
			t := at
			s.ConfirmedAt = &t
		}
		st.sales[id] = s
		return nil
	})
}

func (r *saleRepo) Delete(_ context.Context, id string) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.sales[id]; !ok {
			return domain.ErrSaleNotFound
		}
		delete(st.sales, id)
		st.saleOrder = slices.DeleteFunc(slices.Clone(st.saleOrder), func(s string) bool { return s == id })
		return nil
	})
}

func (r *saleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.a.with(func(st *state) error {
		for i := len(st.saleOrder) - 1; i >= 0; i-- {
			s := st.sales[st.saleOrder[i]]
			if f.CustomerID != "" && s.CustomerID != f.CustomerID {
				continue
			}
			if f.Status != "" && s.Status != f.Status {
				continue
			}
			out = append(out, copySale(s))
		}
		return nil
	})
	return page(out, f.Limit, f.Offset), err
}
