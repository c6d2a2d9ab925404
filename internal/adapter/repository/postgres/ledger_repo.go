package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/accountpro/bookkeeper/internal/domain"
)

const totalsByAccountSQL = `SELECT account_number, COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
FROM voucher_lines
GROUP BY account_number
ORDER BY account_number`

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	db DBTX
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db DBTX) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// TotalsByAccount sums debit and credit per account.
func (r *LedgerRepository) TotalsByAccount(ctx context.Context) ([]domain.AccountTotals, error) {
	rows, err := r.db.Query(ctx, totalsByAccountSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]domain.AccountTotals, 0)
	for rows.Next() {
		var (
			t             domain.AccountTotals
			debit, credit pgtype.Numeric
		)
		if err := rows.Scan(&t.AccountNumber, &debit, &credit); err != nil {
			return nil, err
		}
		t.Debit = numericToDecimal(debit)
		t.Credit = numericToDecimal(credit)
		totals = append(totals, t)
	}

	return totals, rows.Err()
}
