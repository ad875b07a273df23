// Package accounting reúne las reglas de partida doble independientes del almacenamiento.
package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// Tolerance diferencia máxima admitida entre debe y haber.
var Tolerance = decimal.New(1, -2)

// normalSign signo del saldo normal por tipo de cuenta, aplicado a (debe - haber).
var normalSign = map[entity.AccountType]decimal.Decimal{
	entity.AccountTypeAsset:     decimal.NewFromInt(1),
	entity.AccountTypeLiability: decimal.NewFromInt(-1),
	entity.AccountTypeEquity:    decimal.NewFromInt(-1),
	entity.AccountTypeIncome:    decimal.NewFromInt(-1),
	entity.AccountTypeExpense:   decimal.NewFromInt(1),
}

// Delta variación del saldo de una cuenta del tipo t por un movimiento (debit, credit).
func Delta(t entity.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	sign, ok := normalSign[t]
	if !ok {
		return decimal.Zero
	}
	return debit.Sub(credit).Mul(sign)
}

// Totals suma debe y haber de los movimientos.
func Totals(movs []entity.Movement) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, m := range movs {
		debit = debit.Add(m.Debit)
		credit = credit.Add(m.Credit)
	}
	return debit, credit
}

// CheckBalanced falla con UnbalancedEntryError si la diferencia supera la tolerancia.
func CheckBalanced(debit, credit decimal.Decimal) error {
	if debit.Sub(credit).Abs().GreaterThan(Tolerance) {
		return &domain.UnbalancedEntryError{TotalDebit: debit, TotalCredit: credit}
	}
	return nil
}

// ValidateMovements controla la forma del asiento antes de tocar el almacenamiento.
func ValidateMovements(movs []entity.Movement) error {
	if len(movs) < 2 {
		return domain.Validationf("el asiento requiere al menos dos movimientos")
	}
	for i, m := range movs {
		if m.AccountID == "" {
			return domain.Validationf("movimiento %d sin cuenta", i+1)
		}
		if m.Debit.IsNegative() || m.Credit.IsNegative() {
			return domain.Validationf("movimiento %d con importe negativo", i+1)
		}
		if m.Debit.IsZero() && m.Credit.IsZero() {
			return domain.Validationf("movimiento %d sin importe", i+1)
		}
		if err := domain.CheckMoneyScale(fmt.Sprintf("movimiento %d: debe", i+1), m.Debit); err != nil {
			return err
		}
		if err := domain.CheckMoneyScale(fmt.Sprintf("movimiento %d: haber", i+1), m.Credit); err != nil {
			return err
		}
	}
	return nil
}
