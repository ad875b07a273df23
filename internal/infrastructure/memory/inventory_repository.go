package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var (
	_ repository.StockRepository         = (*stockRepo)(nil)
	_ repository.StockMovementRepository = (*stockMovementRepo)(nil)
	_ repository.ProductRepository       = (*productRepo)(nil)
	_ repository.CustomerRepository      = (*customerRepo)(nil)
	_ repository.VendorRepository        = (*vendorRepo)(nil)
)

type stockRepo struct{ a access }

func (r *stockRepo) Get(_ context.Context, productCode string) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	err := r.a.with(func(st *state) error {
		if s, ok := st.stock[productCode]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *stockRepo) GetForUpdate(_ context.Context, productCode string) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	err := r.a.with(func(st *state) error {
		s, ok := st.stock[productCode]
		if !ok {
			s = entity.StockRecord{ProductCode: productCode, UpdatedAt: time.Now().UTC()}
			st.stock[productCode] = s
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *stockRepo) Update(_ context.Context, s *entity.StockRecord) error {
	if s.Quantity < 0 {
		return &domain.InsufficientStockError{ProductCode: s.ProductCode, Available: 0, Requested: -s.Quantity}
	}
	return r.a.with(func(st *state) error {
		st.stock[s.ProductCode] = *s
		return nil
	})
}

type stockMovementRepo struct{ a access }

func (r *stockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.a.with(func(st *state) error {
		if n := len(st.movements); n > 0 && st.movements[n-1].ID >= m.ID {
			return domain.Validationf("id de movimiento fuera de orden: %d", m.ID)
		}
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *stockMovementRepo) List(_ context.Context, productCode string, limit int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.a.with(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if productCode != "" && m.ProductCode != productCode {
				continue
			}
			out = append(out, &m)
			if limit > 0 && len(out) == limit {
				break
			}
		}
		return nil
	})
	return out, err
}

type productRepo struct{ a access }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return r.a.with(func(st *state) error {
		for _, existing := range st.products {
			if existing.Code == p.Code {
				return domain.Validationf("ya existe un artículo con código %s", p.Code)
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.with(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.with(func(st *state) error {
		for _, p := range st.products {
			if p.Code == code {
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) SetStock(_ context.Context, code string, quantity int64) error {
	return r.a.with(func(st *state) error {
		for id, p := range st.products {
			if p.Code == code {
				p.Stock = quantity
				p.UpdatedAt = time.Now().UTC()
				st.products[id] = p
				return nil
			}
		}
		return domain.ErrProductNotFound
	})
}

type customerRepo struct{ a access }

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return r.a.with(func(st *state) error {
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.a.with(func(st *state) error {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

type vendorRepo struct{ a access }

func (r *vendorRepo) Create(_ context.Context, v *entity.Vendor) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return r.a.with(func(st *state) error {
		st.vendors[v.ID] = *v
		return nil
	})
}

func (r *vendorRepo) GetByID(_ context.Context, id string) (*entity.Vendor, error) {
	var out *entity.Vendor
	err := r.a.with(func(st *state) error {
		if v, ok := st.vendors[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}
