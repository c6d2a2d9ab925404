package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for voucher dates.
const DateLayout = "2006-01-02"

// MinPostableLines is the minimum number of lines with a nonzero amount.
const MinPostableLines = 2

// VoucherLine is one debit or credit row within a voucher.
type VoucherLine struct {
	ID            string
	AccountNumber string
	AccountName   string // display copy of the account name
	Debit         decimal.Decimal
	Credit        decimal.Decimal
}

// HasAmount reports whether the line carries a nonzero debit or credit.
func (l VoucherLine) HasAmount() bool {
	return !l.Debit.IsZero() || !l.Credit.IsZero()
}

// Validate enforces the per-line invariant: amounts are non-negative whole
// cents and at most one side is nonzero. A line carrying an amount must name
// an account. A named account must look like a BAS number, whether or not it
// is in the chart.
func (l VoucherLine) Validate() error {
	if err := ValidateAmount(l.Debit); err != nil {
		return err
	}
	if err := ValidateAmount(l.Credit); err != nil {
		return err
	}

	if !l.Debit.IsZero() && !l.Credit.IsZero() {
		return fmt.Errorf("%w: line on account %s has both debit and credit", ErrInvalidLine, l.AccountNumber)
	}

	number := strings.TrimSpace(l.AccountNumber)
	if l.HasAmount() && number == "" {
		return fmt.Errorf("%w: account number is required", ErrInvalidLine)
	}
	if number != "" && !accountNumberRegex.MatchString(number) {
		return fmt.Errorf("%w: account number %q must have %d digits", ErrInvalidLine, number, AccountNumberLength)
	}

	if utf8.RuneCountInString(l.AccountName) > MaxAccountNameLength {
		return fmt.Errorf("%w: account name exceeds %d characters", ErrInvalidLine, MaxAccountNameLength)
	}

	return nil
}

// Swapped returns a copy of the line with debit and credit exchanged.
func (l VoucherLine) Swapped() VoucherLine {
	return VoucherLine{
		AccountNumber: l.AccountNumber,
		AccountName:   l.AccountName,
		Debit:         l.Credit,
		Credit:        l.Debit,
	}
}

// Voucher is a balanced double-entry transaction.
type Voucher struct {
	CreatedAt     time.Time
	Date          time.Time
	ReversesID    *string
	ID            string
	Description   string
	Lines         []VoucherLine
	VoucherNumber int64
}

// Totals returns the summed debit and credit of all lines.
func (v *Voucher) Totals() (debit, credit decimal.Decimal) {
	result := ValidateLines(v.Lines)
	return result.TotalDebit, result.TotalCredit
}

// Touches reports whether any line of the voucher posts to accountNumber.
func (v *Voucher) Touches(accountNumber string) bool {
	for _, l := range v.Lines {
		if l.AccountNumber == accountNumber {
			return true
		}
	}
	return false
}

// VoucherDraft is the user supplied input for a new voucher.
type VoucherDraft struct {
	Date        time.Time
	Description string
	Lines       []VoucherLine
}

// PostableLines returns the lines that carry an amount.
func (d VoucherDraft) PostableLines() []VoucherLine {
	lines := make([]VoucherLine, 0, len(d.Lines))
	for _, l := range d.Lines {
		if l.HasAmount() {
			lines = append(lines, l)
		}
	}
	return lines
}

// Validate checks every line, the balance, the required fields and the
// minimum line count, in that order. It returns the balance result so
// callers can show the difference.
func (d VoucherDraft) Validate() (BalanceResult, error) {
	for _, l := range d.Lines {
		if err := l.Validate(); err != nil {
			return BalanceResult{}, err
		}
	}

	result := ValidateLines(d.Lines)
	if !result.IsValid {
		return result, fmt.Errorf("%w: difference %s", ErrImbalancedVoucher, result.Difference.StringFixed(2))
	}

	if d.Date.IsZero() {
		return result, ErrMissingDate
	}

	if strings.TrimSpace(d.Description) == "" {
		return result, ErrEmptyDescription
	}

	if len(d.PostableLines()) < MinPostableLines {
		return result, ErrInsufficientLines
	}

	return result, nil
}

// VoucherFilter narrows voucher listings. Zero values mean no filtering.
type VoucherFilter struct {
	Year int
}

// Matches reports whether v passes the filter.
func (f VoucherFilter) Matches(v *Voucher) bool {
	if f.Year != 0 && v.Date.Year() != f.Year {
		return false
	}
	return true
}

// ParseDate parses a calendar date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMissingDate
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}

	return t, nil
}

// TruncateToDate drops the clock part of t, keeping its calendar day in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
