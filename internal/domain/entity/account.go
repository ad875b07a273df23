package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType tipo de cuenta contable; determina el signo de su saldo normal.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

var legacyAccountTypes = map[string]AccountType{
	"activo":     AccountTypeAsset,
	"pasivo":     AccountTypeLiability,
	"patrimonio": AccountTypeEquity,
	"ingreso":    AccountTypeIncome,
	"egreso":     AccountTypeExpense,
}

// ParseAccountType acepta el nombre canónico o el heredado en castellano (activo, pasivo, ...).
func ParseAccountType(s string) (AccountType, bool) {
	s = strings.TrimSpace(s)
	if t, ok := legacyAccountTypes[strings.ToLower(s)]; ok {
		return t, true
	}
	t := AccountType(strings.ToUpper(s))
	return t, t.Valid()
}

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// Account cuenta del plan de cuentas. Balance se mantiene con el signo de su saldo normal.
type Account struct {
	ID        string
	Code      string // único, ej. 1.1.01
	Name      string
	Type      AccountType
	Balance   decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
