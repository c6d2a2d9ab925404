package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// AccountClass groups accounts by their BAS number range.
type AccountClass string

const (
	AccountClassAssets            AccountClass = "Assets"
	AccountClassEquityLiabilities AccountClass = "EquityLiabilities"
	AccountClassRevenue           AccountClass = "Revenue"
	AccountClassExpenses          AccountClass = "Expenses"
	AccountClassFinancialItems    AccountClass = "FinancialItems"
)

var accountClassNames = map[AccountClass]string{
	AccountClassAssets:            "Assets (Tillgångar)",
	AccountClassEquityLiabilities: "Equity & Liabilities (Eget kapital & Skulder)",
	AccountClassRevenue:           "Revenue (Intäkter)",
	AccountClassExpenses:          "Expenses (Kostnader)",
	AccountClassFinancialItems:    "Financial Items (Finansiella poster)",
}

// IsValid reports whether c is one of the known classes.
func (c AccountClass) IsValid() bool {
	_, ok := accountClassNames[c]
	return ok
}

// DisplayName returns the bilingual label used in reports.
func (c AccountClass) DisplayName() string {
	if name, ok := accountClassNames[c]; ok {
		return name
	}
	return string(c)
}

// Account is an entry in the chart of accounts. Number is the unique key.
type Account struct {
	Number      string
	Name        string
	Class       AccountClass
	Description string
}

// ClassForNumber derives the account class from a four digit BAS number.
func ClassForNumber(number string) (AccountClass, error) {
	number = strings.TrimSpace(number)
	if len(number) != 4 {
		return "", fmt.Errorf("%w: %q must have four digits", ErrInvalidAccountNumber, number)
	}

	n, err := strconv.Atoi(number)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not numeric", ErrInvalidAccountNumber, number)
	}

	switch {
	case n >= 1000 && n <= 1999:
		return AccountClassAssets, nil
	case n >= 2000 && n <= 2999:
		return AccountClassEquityLiabilities, nil
	case n >= 3000 && n <= 3999:
		return AccountClassRevenue, nil
	case n >= 4000 && n <= 7999:
		return AccountClassExpenses, nil
	case n >= 8000 && n <= 8999:
		return AccountClassFinancialItems, nil
	default:
		return "", fmt.Errorf("%w: %q is outside the BAS range 1000-8999", ErrInvalidAccountNumber, number)
	}
}

// Validate checks the account number, name and that the class matches the number range.
func (a *Account) Validate() error {
	class, err := ClassForNumber(a.Number)
	if err != nil {
		return err
	}

	if err := ValidateAccountName(a.Name); err != nil {
		return err
	}

	if a.Class != "" && a.Class != class {
		return fmt.Errorf("%w: account %s belongs to %s, not %s", ErrAccountClassMismatch, a.Number, class, a.Class)
	}

	return nil
}

// DefaultChart returns the system accounts seeded into an empty directory.
func DefaultChart() []Account {
	return []Account{
		{Number: "1200", Name: "Maskiner", Class: AccountClassAssets, Description: "Machinery and equipment"},
		{Number: "1510", Name: "Kundfordringar", Class: AccountClassAssets, Description: "Accounts receivable"},
		{Number: "1930", Name: "Företagskonto", Class: AccountClassAssets, Description: "Company bank account"},
		{Number: "2010", Name: "Aktiekapital", Class: AccountClassEquityLiabilities, Description: "Share capital"},
		{Number: "2440", Name: "Leverantörsskulder", Class: AccountClassEquityLiabilities, Description: "Accounts payable"},
		{Number: "2610", Name: "Utgående moms", Class: AccountClassEquityLiabilities, Description: "Output VAT"},
		{Number: "3001", Name: "Försäljning varor", Class: AccountClassRevenue, Description: "Sales of goods"},
		{Number: "3010", Name: "Försäljning tjänster", Class: AccountClassRevenue, Description: "Sales of services"},
		{Number: "4000", Name: "Inköp varor", Class: AccountClassExpenses, Description: "Purchases of goods"},
		{Number: "5010", Name: "Lokalhyra", Class: AccountClassExpenses, Description: "Premises rent"},
		{Number: "7010", Name: "Löner", Class: AccountClassExpenses, Description: "Salaries"},
		{Number: "8310", Name: "Ränteintäkter", Class: AccountClassFinancialItems, Description: "Interest income"},
		{Number: "8410", Name: "Räntekostnader", Class: AccountClassFinancialItems, Description: "Interest expenses"},
	}
}
