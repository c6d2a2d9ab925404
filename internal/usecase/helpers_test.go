package usecase_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/accountpro/bookkeeper/internal/adapter/repository/memory"
	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/infrastructure/metrics"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

type seqIDs struct {
	n atomic.Int64
}

func (g *seqIDs) Generate() string {
	return fmt.Sprintf("id-%04d", g.n.Add(1))
}

type ledgerFixture struct {
	store    *memory.Store
	vouchers *usecase.VoucherUseCase
	accounts *usecase.AccountUseCase
	ledger   *usecase.LedgerUseCase
	company  *usecase.CompanyUseCase
	outbox   *memory.OutboxRepository
	metrics  *metrics.Metrics
	today    time.Time
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	store := memory.NewStore(1)
	txm := memory.NewTxManager(store)
	accountRepo := memory.NewAccountRepository(store)
	voucherRepo := memory.NewVoucherRepository(store)
	outboxRepo := memory.NewOutboxRepository(store)
	ids := &seqIDs{}
	m := metrics.New(prometheus.NewRegistry())
	today := time.Date(2024, 6, 30, 9, 30, 0, 0, time.UTC)

	f := &ledgerFixture{
		store: store,
		vouchers: usecase.NewVoucherUseCase(txm, voucherRepo, memory.NewSequenceRepository(store), accountRepo, outboxRepo, ids, m).
			WithClock(func() time.Time { return today }),
		accounts: usecase.NewAccountUseCase(txm, accountRepo, outboxRepo, nil, ids, m),
		ledger:   usecase.NewLedgerUseCase(memory.NewLedgerRepository(store), voucherRepo, accountRepo),
		company:  usecase.NewCompanyUseCase(txm, memory.NewCompanyRepository(store), outboxRepo, ids),
		outbox:   outboxRepo,
		metrics:  m,
		today:    today,
	}

	if _, err := f.accounts.EnsureDefaultChart(context.Background()); err != nil {
		t.Fatalf("seed chart: %v", err)
	}

	return f
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func debit(account, value string) domain.VoucherLine {
	return domain.VoucherLine{AccountNumber: account, Debit: amount(value), Credit: decimal.Zero}
}

func credit(account, value string) domain.VoucherLine {
	return domain.VoucherLine{AccountNumber: account, Debit: decimal.Zero, Credit: amount(value)}
}

func (f *ledgerFixture) mustCreate(t *testing.T, d time.Time, desc string, lines ...domain.VoucherLine) *domain.Voucher {
	t.Helper()

	v, err := f.vouchers.CreateVoucher(context.Background(), usecase.CreateVoucherInput{
		Date:        d,
		Description: desc,
		Lines:       lines,
	})
	if err != nil {
		t.Fatalf("create voucher %q: %v", desc, err)
	}
	return v
}
