package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// sekFormatter renders amounts the way Swedish reports do: "1 000,00 SEK".
var sekFormatter = money.NewFormatter(2, ",", " ", "SEK", "1 $")

// formatSEK formats a decimal string from the API. Unparseable input is
// returned unchanged.
func formatSEK(amount string) string {
	if strings.TrimSpace(amount) == "" {
		return ""
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}

	cur := money.GetCurrency(money.SEK)
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return sekFormatter.Format(minor)
}

// formatSide formats a debit or credit column, leaving zero blank.
func formatSide(amount string) string {
	d, err := decimal.NewFromString(amount)
	if err == nil && d.IsZero() {
		return ""
	}
	return formatSEK(amount)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
