package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/usecase"
	"github.com/accountpro/bookkeeper/internal/usecase/mocks"
)

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.mustCreate(t, date(2024, 1, 15), "Sale", debit("1930", "1000"), credit("3001", "800"), credit("2610", "200"))
	f.mustCreate(t, date(2024, 1, 16), "Rent", debit("5010", "500"), credit("1930", "500"))

	report, err := f.ledger.CheckConsistency(ctx)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !report.Consistent {
		t.Fatalf("expected consistent ledger, got %+v", report)
	}
	if report.VoucherCount != 2 || !report.TotalDebit.Equal(amount("1500")) {
		t.Fatalf("unexpected totals %+v", report)
	}
}

func TestLedgerUseCase_CheckConsistency_Inconsistent(t *testing.T) {
	tests := []struct {
		name       string
		totals     []domain.AccountTotals
		vouchers   []*domain.Voucher
		imbalanced int
	}{
		{
			name: "totals differ",
			totals: []domain.AccountTotals{
				{AccountNumber: "1930", Debit: decimal.NewFromInt(10), Credit: decimal.Zero},
			},
		},
		{
			name:   "stored voucher does not balance",
			totals: nil,
			vouchers: []*domain.Voucher{
				{VoucherNumber: 4, Lines: []domain.VoucherLine{debit("1930", "10"), credit("3001", "9")}},
			},
			imbalanced: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
			voucherRepo := mocks.NewMockVoucherRepository(ctrl)
			ledgerRepo.EXPECT().TotalsByAccount(gomock.Any()).Return(tt.totals, nil)
			voucherRepo.EXPECT().List(gomock.Any(), domain.VoucherFilter{}).Return(tt.vouchers, nil)

			uc := usecase.NewLedgerUseCase(ledgerRepo, voucherRepo, mocks.NewMockAccountRepository(ctrl))
			report, err := uc.CheckConsistency(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if report.Consistent {
				t.Fatal("expected inconsistent ledger")
			}
			if len(report.ImbalancedVouchers) != tt.imbalanced {
				t.Fatalf("expected %d imbalanced vouchers, got %v", tt.imbalanced, report.ImbalancedVouchers)
			}
		})
	}
}

func TestLedgerUseCase_CheckConsistency_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	errDB := errors.New("db down")
	ledgerRepo.EXPECT().TotalsByAccount(gomock.Any()).Return(nil, errDB)

	uc := usecase.NewLedgerUseCase(ledgerRepo, mocks.NewMockVoucherRepository(ctrl), mocks.NewMockAccountRepository(ctrl))
	if _, err := uc.CheckConsistency(context.Background()); !errors.Is(err, errDB) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestLedgerUseCase_TrialBalance(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.mustCreate(t, date(2024, 1, 15), "Sale", debit("1930", "1000"), credit("3001", "1000"))
	f.mustCreate(t, date(2024, 1, 16), "Rent", debit("5010", "400"), credit("1930", "400"))
	f.mustCreate(t, date(2024, 1, 17), "Unlisted", debit("1999", "5"), credit("1930", "5"))

	tb, err := f.ledger.TrialBalance(ctx)
	if err != nil {
		t.Fatalf("trial balance: %v", err)
	}

	if len(tb.Rows) != 4 {
		t.Fatalf("expected 4 accounts, got %d", len(tb.Rows))
	}
	if tb.Rows[0].AccountNumber != "1930" || !tb.Rows[0].Balance.Equal(amount("595")) {
		t.Errorf("unexpected 1930 row %+v", tb.Rows[0])
	}
	if tb.Rows[1].AccountNumber != "1999" || tb.Rows[1].AccountName != "" || tb.Rows[1].Class != domain.AccountClassAssets {
		t.Errorf("unexpected unlisted row %+v", tb.Rows[1])
	}
	if !tb.TotalDebit.Equal(tb.TotalCredit) {
		t.Errorf("expected trial balance to balance, got %s / %s", tb.TotalDebit, tb.TotalCredit)
	}
}
