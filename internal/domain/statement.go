package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// StatementEntry is one line of an account statement.
type StatementEntry struct {
	Date          time.Time
	Description   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Balance       decimal.Decimal
	VoucherNumber int64
}

// AccountStatement is a chronological view of every line posted to one account.
// It is derived from the voucher list and never stored.
type AccountStatement struct {
	AccountNumber string
	Entries       []StatementEntry
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
	FinalBalance  decimal.Decimal
}

type statementRow struct {
	voucher *Voucher
	line    VoucherLine
}

// ProjectStatement derives the statement for accountNumber from vouchers.
// Entries are ordered by date, then voucher number, and the running balance
// accumulates debit minus credit from zero. The input is not modified.
func ProjectStatement(accountNumber string, vouchers []*Voucher) AccountStatement {
	var rows []statementRow
	for _, v := range vouchers {
		if v == nil {
			continue
		}
		for _, l := range v.Lines {
			if l.AccountNumber == accountNumber {
				rows = append(rows, statementRow{voucher: v, line: l})
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].voucher, rows[j].voucher
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.VoucherNumber < b.VoucherNumber
	})

	statement := AccountStatement{
		AccountNumber: accountNumber,
		Entries:       make([]StatementEntry, 0, len(rows)),
		TotalDebit:    decimal.Zero,
		TotalCredit:   decimal.Zero,
		FinalBalance:  decimal.Zero,
	}

	balance := decimal.Zero
	for _, row := range rows {
		balance = balance.Add(row.line.Debit).Sub(row.line.Credit)
		statement.TotalDebit = statement.TotalDebit.Add(row.line.Debit)
		statement.TotalCredit = statement.TotalCredit.Add(row.line.Credit)

		statement.Entries = append(statement.Entries, StatementEntry{
			Date:          row.voucher.Date,
			VoucherNumber: row.voucher.VoucherNumber,
			Description:   row.voucher.Description,
			Debit:         row.line.Debit,
			Credit:        row.line.Credit,
			Balance:       balance,
		})
	}

	statement.FinalBalance = balance

	return statement
}
