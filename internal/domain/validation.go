package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinAccountNameLength = 1

	// AmountPlaces is the currency minor-unit precision. Line amounts may not
	// be finer than this.
	AmountPlaces = 2

	// AccountNumberLength is the digit count of a BAS account number.
	AccountNumberLength = 4
)

// MaxAmount is the largest amount a single line may carry (NUMERIC(18,2)).
var MaxAmount = decimal.RequireFromString("9999999999999999.99")

var (
	accountNumberRegex      = regexp.MustCompile(`^\d{4}$`)
	organizationNumberRegex = regexp.MustCompile(`^\d{6}-\d{4}$`)
	vatNumberRegex          = regexp.MustCompile(`^SE\d{12}$`)
	monthDayRegex           = regexp.MustCompile(`^(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
)

// BalanceResult is the outcome of checking a set of voucher lines.
type BalanceResult struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Difference  decimal.Decimal // TotalDebit - TotalCredit
	IsValid     bool
}

// ValidateLines sums debits and credits and reports whether they balance at
// two decimal places. An empty slice is vacuously balanced. It has no side
// effects and never fails.
func ValidateLines(lines []VoucherLine) BalanceResult {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for _, l := range lines {
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}

	totalDebit = totalDebit.Round(AmountPlaces)
	totalCredit = totalCredit.Round(AmountPlaces)

	return BalanceResult{
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Difference:  totalDebit.Sub(totalCredit),
		IsValid:     totalDebit.Equal(totalCredit),
	}
}

// ValidateAmount checks that d is non-negative, whole cents and within MaxAmount.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: amounts must not be negative", ErrInvalidLine)
	}
	if !d.Equal(d.Round(AmountPlaces)) {
		return fmt.Errorf("%w: amount %s has more than %d decimals", ErrInvalidLine, d.String(), AmountPlaces)
	}
	if d.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: amount %s exceeds %s", ErrInvalidLine, d.String(), MaxAmount.StringFixed(AmountPlaces))
	}
	return nil
}

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateOrganizationNumber checks the Swedish NNNNNN-NNNN format. Empty is allowed.
func ValidateOrganizationNumber(s string) error {
	if s == "" {
		return nil
	}
	if !organizationNumberRegex.MatchString(s) {
		return fmt.Errorf("%w: organization number %q must look like XXXXXX-XXXX", ErrInvalidCompanyProfile, s)
	}
	return nil
}

// ValidateVATNumber checks the Swedish SE + 12 digits format. Empty is allowed.
func ValidateVATNumber(s string) error {
	if s == "" {
		return nil
	}
	if !vatNumberRegex.MatchString(s) {
		return fmt.Errorf("%w: VAT number %q must look like SE123456789001", ErrInvalidCompanyProfile, s)
	}
	return nil
}

// ValidateMonthDay checks an MM-DD fiscal year boundary.
func ValidateMonthDay(s string) error {
	if !monthDayRegex.MatchString(s) {
		return fmt.Errorf("%w: %q must be in MM-DD format", ErrInvalidCompanyProfile, s)
	}
	return nil
}
