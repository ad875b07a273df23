// Package accounting casos de uso del plan de cuentas y del libro diario.
package accounting

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

// AccountUseCase mantenimiento del plan de cuentas.
type AccountUseCase struct {
	store repository.Store
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(store repository.Store) *AccountUseCase {
	return &AccountUseCase{store: store}
}

// Create da de alta una cuenta activa con saldo cero.
func (uc *AccountUseCase) Create(ctx context.Context, in dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	code, name := strings.TrimSpace(in.Code), strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.Validationf("código y nombre son obligatorios")
	}
	typ, ok := entity.ParseAccountType(in.Type)
	if !ok {
		return nil, domain.Validationf("tipo de cuenta inválido: %q", in.Type)
	}
	now := time.Now().UTC()
	acc := &entity.Account{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		Type:      typ,
		Balance:   decimal.Zero,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.store.Run(ctx, func(r repository.Repositories) error {
		existing, err := r.Accounts.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.Validationf("ya existe una cuenta con código %s", code)
		}
		return r.Accounts.Create(ctx, acc)
	})
	if err != nil {
		return nil, err
	}
	return toAccountResponse(acc), nil
}

// Update modifica nombre, código o tipo. Código y tipo quedan fijos una vez que la cuenta tiene movimientos.
func (uc *AccountUseCase) Update(ctx context.Context, id string, in dto.UpdateAccountRequest) (*dto.AccountResponse, error) {
	var out *entity.Account
	err := uc.store.Run(ctx, func(r repository.Repositories) error {
		acc, err := r.Accounts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if acc == nil {
			return domain.ErrAccountNotFound
		}
		changesIdentity := false
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return domain.Validationf("el nombre no puede quedar vacío")
			}
			acc.Name = strings.TrimSpace(*in.Name)
		}
		if in.Code != nil && strings.TrimSpace(*in.Code) != acc.Code {
			code := strings.TrimSpace(*in.Code)
			if code == "" {
				return domain.Validationf("el código no puede quedar vacío")
			}
			other, err := r.Accounts.GetByCode(ctx, code)
			if err != nil {
				return err
			}
			if other != nil && other.ID != acc.ID {
				return domain.Validationf("ya existe una cuenta con código %s", code)
			}
			acc.Code = code
			changesIdentity = true
		}
		if in.Type != nil {
			typ, ok := entity.ParseAccountType(*in.Type)
			if !ok {
				return domain.Validationf("tipo de cuenta inválido: %q", *in.Type)
			}
			if typ != acc.Type {
				acc.Type = typ
				changesIdentity = true
			}
		}
		if changesIdentity {
			used, err := r.Accounts.HasMovements(ctx, acc.ID)
			if err != nil {
				return err
			}
			if used {
				return domain.Validationf("la cuenta %s tiene movimientos: no se puede cambiar código ni tipo", acc.Code)
			}
		}
		acc.UpdatedAt = time.Now().UTC()
		if err := r.Accounts.Update(ctx, acc); err != nil {
			return err
		}
		out = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAccountResponse(out), nil
}

// Deactivate da de baja lógica la cuenta; deja de aceptar movimientos.
func (uc *AccountUseCase) Deactivate(ctx context.Context, id string) (*dto.AccountResponse, error) {
	var out *entity.Account
	err := uc.store.Run(ctx, func(r repository.Repositories) error {
		acc, err := r.Accounts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if acc == nil {
			return domain.ErrAccountNotFound
		}
		acc.Active = false
		acc.UpdatedAt = time.Now().UTC()
		if err := r.Accounts.Update(ctx, acc); err != nil {
			return err
		}
		out = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAccountResponse(out), nil
}

// List devuelve las cuentas activas ordenadas por código.
func (uc *AccountUseCase) List(ctx context.Context) ([]*dto.AccountResponse, error) {
	list, err := uc.store.Repos().Accounts.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AccountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAccountResponse(a))
	}
	return out, nil
}

func toAccountResponse(a *entity.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		ID:      a.ID,
		Code:    a.Code,
		Name:    a.Name,
		Type:    string(a.Type),
		Balance: a.Balance,
		Active:  a.Active,
	}
}
