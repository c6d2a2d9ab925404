package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestVoucherLine_Validate(t *testing.T) {
	tests := []struct {
		name        string
		line        VoucherLine
		expectError bool
	}{
		{name: "debit only", line: line("1930", "100", "0")},
		{name: "credit only", line: line("3001", "0", "100")},
		{name: "blank line", line: line("", "0", "0")},
		{name: "both sides", line: line("1930", "100", "100"), expectError: true},
		{name: "negative debit", line: line("1930", "-1", "0"), expectError: true},
		{name: "amount without account", line: line(" ", "10", "0"), expectError: true},
		{name: "trailing zero decimals", line: line("1930", "10.000", "0")},
		{name: "sub-cent debit", line: line("1930", "0.004", "0"), expectError: true},
		{name: "sub-cent credit", line: line("3001", "0", "100.005"), expectError: true},
		{name: "amount too large", line: line("1930", "10000000000000000", "0"), expectError: true},
		{name: "largest amount", line: line("1930", "9999999999999999.99", "0")},
		{name: "unknown but well formed account", line: line("1999", "10", "0")},
		{name: "five digit account", line: line("19300", "10", "0"), expectError: true},
		{name: "non numeric account", line: line("19A0", "10", "0"), expectError: true},
		{name: "account on blank line", line: line("19300", "0", "0"), expectError: true},
		{
			name:        "name too long",
			line:        VoucherLine{AccountNumber: "1930", AccountName: strings.Repeat("x", MaxAccountNameLength+1), Debit: decimal.NewFromInt(1)},
			expectError: true,
		},
		{
			name: "long name counted in characters",
			line: VoucherLine{AccountNumber: "1930", AccountName: strings.Repeat("ö", MaxAccountNameLength), Debit: decimal.NewFromInt(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.Validate()
			if tt.expectError && !errors.Is(err, ErrInvalidLine) {
				t.Fatalf("expected ErrInvalidLine, got %v", err)
			}
			if !tt.expectError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestVoucherDraft_Validate(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	balanced := []VoucherLine{line("1930", "1000", "0"), line("3001", "0", "1000")}

	tests := []struct {
		name        string
		draft       VoucherDraft
		expectError error
	}{
		{
			name:  "valid sale",
			draft: VoucherDraft{Date: date, Description: "Sale", Lines: balanced},
		},
		{
			name:        "imbalanced is reported before missing fields",
			draft:       VoucherDraft{Lines: []VoucherLine{line("1930", "500", "0"), line("3001", "0", "300")}},
			expectError: ErrImbalancedVoucher,
		},
		{
			name:        "missing date",
			draft:       VoucherDraft{Description: "Sale", Lines: balanced},
			expectError: ErrMissingDate,
		},
		{
			name:        "blank description",
			draft:       VoucherDraft{Date: date, Description: "   ", Lines: balanced},
			expectError: ErrEmptyDescription,
		},
		{
			name:        "no lines",
			draft:       VoucherDraft{Date: date, Description: "Empty"},
			expectError: ErrInsufficientLines,
		},
		{
			name: "zero lines do not count",
			draft: VoucherDraft{Date: date, Description: "Padded", Lines: []VoucherLine{
				line("1930", "0", "0"),
				line("3001", "0", "0"),
			}},
			expectError: ErrInsufficientLines,
		},
		{
			name: "half cents that balance on totals",
			draft: VoucherDraft{Date: date, Description: "Rounding", Lines: []VoucherLine{
				line("1930", "0.005", "0"),
				line("5010", "0.005", "0"),
				line("3001", "0", "0.01"),
			}},
			expectError: ErrInvalidLine,
		},
		{
			name: "sub-cent lines do not count as amounts",
			draft: VoucherDraft{Date: date, Description: "Dust", Lines: []VoucherLine{
				line("1930", "0.004", "0"),
				line("3001", "0", "0.004"),
			}},
			expectError: ErrInvalidLine,
		},
		{
			name: "invalid line wins",
			draft: VoucherDraft{Date: date, Description: "Both", Lines: []VoucherLine{
				line("1930", "10", "10"),
				line("3001", "0", "0"),
			}},
			expectError: ErrInvalidLine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.draft.Validate()

			if tt.expectError == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestVoucherDraft_Validate_ReturnsDifference(t *testing.T) {
	draft := VoucherDraft{Lines: []VoucherLine{line("1930", "500", "0"), line("3001", "0", "300")}}

	result, err := draft.Validate()
	if !errors.Is(err, ErrImbalancedVoucher) {
		t.Fatalf("expected ErrImbalancedVoucher, got %v", err)
	}
	if !result.Difference.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected difference 200, got %s", result.Difference)
	}
	if err.Error() != "voucher must be balanced (debit = credit): difference 200.00" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestVoucherDraft_PostableLines(t *testing.T) {
	draft := VoucherDraft{Lines: []VoucherLine{
		line("1930", "100", "0"),
		line("", "0", "0"),
		line("3001", "0", "100"),
	}}

	lines := draft.PostableLines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 postable lines, got %d", len(lines))
	}
	if lines[0].AccountNumber != "1930" || lines[1].AccountNumber != "3001" {
		t.Errorf("expected input order to be kept, got %s, %s", lines[0].AccountNumber, lines[1].AccountNumber)
	}
}

func TestVoucherFilter_Matches(t *testing.T) {
	v := &Voucher{Date: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)}

	if !(VoucherFilter{}).Matches(v) {
		t.Error("expected empty filter to match")
	}
	if !(VoucherFilter{Year: 2023}).Matches(v) {
		t.Error("expected year filter to match")
	}
	if (VoucherFilter{Year: 2024}).Matches(v) {
		t.Error("expected other year not to match")
	}
}

func TestVoucher_Touches(t *testing.T) {
	v := &Voucher{Lines: []VoucherLine{line("1930", "1", "0"), line("3001", "0", "1")}}

	if !v.Touches("3001") {
		t.Error("expected voucher to touch 3001")
	}
	if v.Touches("2440") {
		t.Error("expected voucher not to touch 2440")
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2024 || got.Month() != time.February || got.Day() != 29 {
		t.Errorf("unexpected date %v", got)
	}

	if _, err := ParseDate(""); !errors.Is(err, ErrMissingDate) {
		t.Errorf("expected ErrMissingDate, got %v", err)
	}
	if _, err := ParseDate("2024-13-01"); err == nil {
		t.Error("expected error for invalid month")
	}
}

func TestTruncateToDate(t *testing.T) {
	in := time.Date(2024, 3, 5, 17, 45, 12, 99, time.UTC)
	got := TruncateToDate(in)

	if !got.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected truncation %v", got)
	}
}
