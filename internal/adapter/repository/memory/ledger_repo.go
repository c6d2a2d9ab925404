package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/accountpro/bookkeeper/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// TotalsByAccount sums debit and credit per account.
func (r *LedgerRepository) TotalsByAccount(ctx context.Context) ([]domain.AccountTotals, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byAccount := make(map[string]*domain.AccountTotals)
	for _, v := range r.store.vouchers {
		for _, l := range v.Lines {
			t, ok := byAccount[l.AccountNumber]
			if !ok {
				t = &domain.AccountTotals{AccountNumber: l.AccountNumber, Debit: decimal.Zero, Credit: decimal.Zero}
				byAccount[l.AccountNumber] = t
			}
			t.Debit = t.Debit.Add(l.Debit)
			t.Credit = t.Credit.Add(l.Credit)
		}
	}

	totals := make([]domain.AccountTotals, 0, len(byAccount))
	for _, t := range byAccount {
		totals = append(totals, *t)
	}

	sort.Slice(totals, func(i, j int) bool {
		return totals[i].AccountNumber < totals[j].AccountNumber
	})

	return totals, nil
}
