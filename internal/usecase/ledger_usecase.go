package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/accountpro/bookkeeper/internal/domain"
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo  LedgerRepository
	voucherRepo VoucherRepository
	accountRepo AccountRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository, voucherRepo VoucherRepository, accountRepo AccountRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo:  ledgerRepo,
		voucherRepo: voucherRepo,
		accountRepo: accountRepo,
	}
}

// ConsistencyReport is the result of a ledger consistency check.
type ConsistencyReport struct {
	CheckedAt          time.Time
	TotalDebit         decimal.Decimal
	TotalCredit        decimal.Decimal
	Difference         decimal.Decimal
	ImbalancedVouchers []int64
	VoucherCount       int
	Consistent         bool
}

// CheckConsistency verifies that every stored voucher balances and that total
// debits equal total credits across all accounts.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totals, err := uc.ledgerRepo.TotalsByAccount(ctx)
	if err != nil {
		return nil, err
	}

	vouchers, err := uc.voucherRepo.List(ctx, domain.VoucherFilter{})
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		CheckedAt:          time.Now().UTC(),
		TotalDebit:         decimal.Zero,
		TotalCredit:        decimal.Zero,
		ImbalancedVouchers: []int64{},
		VoucherCount:       len(vouchers),
	}

	for _, t := range totals {
		report.TotalDebit = report.TotalDebit.Add(t.Debit)
		report.TotalCredit = report.TotalCredit.Add(t.Credit)
	}
	report.Difference = report.TotalDebit.Sub(report.TotalCredit)

	for _, v := range vouchers {
		if !domain.ValidateLines(v.Lines).IsValid {
			report.ImbalancedVouchers = append(report.ImbalancedVouchers, v.VoucherNumber)
		}
	}

	report.Consistent = report.Difference.Round(domain.AmountPlaces).IsZero() && len(report.ImbalancedVouchers) == 0

	return report, nil
}

// TrialBalanceRow is one account in the trial balance.
type TrialBalanceRow struct {
	AccountNumber string
	AccountName   string
	Class         domain.AccountClass
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Balance       decimal.Decimal
}

// TrialBalance is the debit and credit sum of every account with postings.
type TrialBalance struct {
	Rows        []TrialBalanceRow
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// TrialBalance sums debit and credit per account, ordered by account number.
// Accounts missing from the chart are listed with an empty name.
func (uc *LedgerUseCase) TrialBalance(ctx context.Context) (*TrialBalance, error) {
	totals, err := uc.ledgerRepo.TotalsByAccount(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	byNumber := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byNumber[a.Number] = a
	}

	tb := &TrialBalance{
		Rows:        make([]TrialBalanceRow, 0, len(totals)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, t := range totals {
		row := TrialBalanceRow{
			AccountNumber: t.AccountNumber,
			Debit:         t.Debit,
			Credit:        t.Credit,
			Balance:       t.Balance(),
		}
		if a, ok := byNumber[t.AccountNumber]; ok {
			row.AccountName = a.Name
			row.Class = a.Class
		} else if class, err := domain.ClassForNumber(t.AccountNumber); err == nil {
			row.Class = class
		}

		tb.Rows = append(tb.Rows, row)
		tb.TotalDebit = tb.TotalDebit.Add(t.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(t.Credit)
	}

	return tb, nil
}
