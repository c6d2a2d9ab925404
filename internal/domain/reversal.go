package domain

import (
	"fmt"
	"time"
)

// ReversalDescription is the description given to a reversal of v.
func ReversalDescription(v *Voucher) string {
	return fmt.Sprintf("Reversal of voucher #%d: %s", v.VoucherNumber, v.Description)
}

// ReverseVoucher builds a draft that cancels v: dated today, with every
// line's debit and credit swapped. Line IDs are left empty so the ledger
// assigns fresh ones. A balanced source always yields a balanced draft.
func ReverseVoucher(v *Voucher, today time.Time) VoucherDraft {
	lines := make([]VoucherLine, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = l.Swapped()
	}

	return VoucherDraft{
		Date:        TruncateToDate(today),
		Description: ReversalDescription(v),
		Lines:       lines,
	}
}
