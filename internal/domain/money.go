package domain

import "github.com/shopspring/decimal"

// MoneyScale decimales de todos los importes persistidos (NUMERIC(18,2)).
const MoneyScale = 2

// CheckMoneyScale rechaza importes con más de MoneyScale decimales significativos.
// "10.500" es válido; "0.005" no.
func CheckMoneyScale(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(MoneyScale)) {
		return Validationf("%s admite como máximo %d decimales: %s", field, MoneyScale, amount.String())
	}
	return nil
}
