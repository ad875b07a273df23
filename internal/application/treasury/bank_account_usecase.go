package treasury

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/billing"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

// BankAccountUseCase alta y consulta de cuentas bancarias.
type BankAccountUseCase struct {
	repo            repository.BankAccountRepository
	defaultCurrency string
}

// NewBankAccountUseCase construye el caso de uso.
func NewBankAccountUseCase(repo repository.BankAccountRepository, defaultCurrency string) *BankAccountUseCase {
	return &BankAccountUseCase{repo: repo, defaultCurrency: defaultCurrency}
}

// Create da de alta una cuenta con su saldo inicial.
func (uc *BankAccountUseCase) Create(ctx context.Context, in dto.CreateBankAccountRequest) (*dto.BankAccountResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validationf("el nombre es obligatorio")
	}
	if in.OpeningBalance.IsNegative() {
		return nil, domain.Validationf("el saldo inicial no puede ser negativo")
	}
	if err := domain.CheckMoneyScale("saldo inicial", in.OpeningBalance); err != nil {
		return nil, err
	}
	currency, err := billing.NormalizeCurrency(in.Currency, uc.defaultCurrency)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	b := &entity.BankAccount{
		ID:        uuid.New().String(),
		Name:      name,
		Bank:      strings.TrimSpace(in.Bank),
		Number:    strings.TrimSpace(in.Number),
		Currency:  currency,
		Balance:   in.OpeningBalance,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return toBankAccountResponse(b), nil
}

// Get obtiene una cuenta bancaria.
func (uc *BankAccountUseCase) Get(ctx context.Context, id string) (*dto.BankAccountResponse, error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrBankAccountNotFound
	}
	return toBankAccountResponse(b), nil
}

// List lista las cuentas bancarias.
func (uc *BankAccountUseCase) List(ctx context.Context) ([]*dto.BankAccountResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BankAccountResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBankAccountResponse(b))
	}
	return out, nil
}

func toBankAccountResponse(b *entity.BankAccount) *dto.BankAccountResponse {
	return &dto.BankAccountResponse{
		ID:       b.ID,
		Name:     b.Name,
		Bank:     b.Bank,
		Number:   b.Number,
		Currency: b.Currency,
		Balance:  b.Balance,
		Active:   b.Active,
	}
}
