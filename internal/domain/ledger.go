package domain

import "github.com/shopspring/decimal"

// AccountTotals is the summed debit and credit posted to one account.
type AccountTotals struct {
	AccountNumber string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
}

// Balance returns debit minus credit.
func (t AccountTotals) Balance() decimal.Decimal {
	return t.Debit.Sub(t.Credit)
}
