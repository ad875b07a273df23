package treasury

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/numbering"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

// PaymentUseCase pagos a proveedores.
type PaymentUseCase struct {
	store repository.Store
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(store repository.Store) *PaymentUseCase {
	return &PaymentUseCase{store: store}
}

// Register registra un pago a proveedor. Con cuenta bancaria la debita en la misma transacción
// y rechaza el pago si el saldo no alcanza.
func (uc *PaymentUseCase) Register(ctx context.Context, in dto.RegisterVendorPaymentRequest) (*dto.VendorPaymentResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if err := domain.CheckMoneyScale("importe", in.Amount); err != nil {
		return nil, err
	}
	concept := strings.TrimSpace(in.Concept)
	if concept == "" {
		return nil, domain.Validationf("el concepto es obligatorio")
	}
	method, ok := entity.ParsePaymentMethod(in.Method)
	if !ok {
		return nil, domain.Validationf("medio de pago inválido: %q", in.Method)
	}
	date := time.Now().UTC()
	if in.Date != nil {
		date = in.Date.UTC()
	}

	p := &entity.VendorPayment{
		ID:        uuid.New().String(),
		VendorID:  in.VendorID,
		Amount:    in.Amount,
		Method:    method,
		Concept:   concept,
		Reference: strings.TrimSpace(in.Reference),
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}
	err := uc.store.Run(ctx, func(r repository.Repositories) error {
		v, err := r.Vendors.GetByID(ctx, in.VendorID)
		if err != nil {
			return err
		}
		if v == nil || !v.Active {
			return domain.ErrVendorNotFound
		}
		if in.BankAccountID != "" {
			ba, err := r.BankAccounts.GetForUpdate(ctx, in.BankAccountID)
			if err != nil {
				return err
			}
			if ba == nil || !ba.Active {
				return domain.ErrBankAccountNotFound
			}
			if ba.Balance.LessThan(in.Amount) {
				return &domain.InsufficientFundsError{BankAccountID: ba.ID, Balance: ba.Balance, Requested: in.Amount}
			}
			if err := r.BankAccounts.AddBalance(ctx, ba.ID, in.Amount.Neg()); err != nil {
				return err
			}
			p.BankAccountID = ba.ID
		}
		if _, p.Number, err = numbering.Next(ctx, r.Counters, numbering.VendorPayment, date); err != nil {
			return err
		}
		return r.VendorPayments.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return toVendorPaymentResponse(p), nil
}

// Void anula un pago devolviendo el importe a la cuenta bancaria debitada.
func (uc *PaymentUseCase) Void(ctx context.Context, id string) (*dto.VendorPaymentResponse, error) {
	var p *entity.VendorPayment
	err := uc.store.Run(ctx, func(r repository.Repositories) error {
		var err error
		p, err = r.VendorPayments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrPaymentNotFound
		}
		if p.Voided {
			return domain.ErrPaymentAlreadyVoided
		}
		if p.BankAccountID != "" {
			if err := r.BankAccounts.AddBalance(ctx, p.BankAccountID, p.Amount); err != nil {
				return err
			}
		}
		now := time.Now().UTC()
		if err := r.VendorPayments.MarkVoided(ctx, p.ID, now); err != nil {
			return err
		}
		p.Voided, p.VoidedAt = true, &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toVendorPaymentResponse(p), nil
}

// List pagos registrados, opcionalmente de un proveedor.
func (uc *PaymentUseCase) List(ctx context.Context, vendorID string) ([]*dto.VendorPaymentResponse, error) {
	list, err := uc.store.Repos().VendorPayments.List(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.VendorPaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toVendorPaymentResponse(p))
	}
	return out, nil
}

func toVendorPaymentResponse(p *entity.VendorPayment) *dto.VendorPaymentResponse {
	return &dto.VendorPaymentResponse{
		ID:            p.ID,
		Number:        p.Number,
		VendorID:      p.VendorID,
		BankAccountID: p.BankAccountID,
		Amount:        p.Amount,
		Method:        p.Method,
		Concept:       p.Concept,
		Reference:     p.Reference,
		Date:          p.Date,
		Voided:        p.Voided,
		VoidedAt:      p.VoidedAt,
	}
}
