package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/accountpro/bookkeeper/internal/domain"
)

type otherTx struct{}

func (otherTx) Commit(context.Context) error   { return nil }
func (otherTx) Rollback(context.Context) error { return nil }

func voucher(id string, number int64, date time.Time, lines ...domain.VoucherLine) *domain.Voucher {
	return &domain.Voucher{ID: id, VoucherNumber: number, Date: date, Description: id, Lines: lines}
}

func dr(account string, amount int64) domain.VoucherLine {
	return domain.VoucherLine{AccountNumber: account, Debit: decimal.NewFromInt(amount), Credit: decimal.Zero}
}

func cr(account string, amount int64) domain.VoucherLine {
	return domain.VoucherLine{AccountNumber: account, Debit: decimal.Zero, Credit: decimal.NewFromInt(amount)}
}

func TestTx_RollbackUndoesAllChanges(t *testing.T) {
	ctx := context.Background()
	store := NewStore(1)
	txm := NewTxManager(store)
	vouchers := NewVoucherRepository(store)
	seq := NewSequenceRepository(store)
	outbox := NewOutboxRepository(store)
	accounts := NewAccountRepository(store)

	tx, err := txm.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	n, err := seq.Next(ctx, tx)
	if err != nil || n != 1 {
		t.Fatalf("expected number 1, got %d (%v)", n, err)
	}
	if err := vouchers.Create(ctx, tx, voucher("v1", n, time.Now(), dr("1930", 10), cr("3001", 10))); err != nil {
		t.Fatalf("create voucher: %v", err)
	}
	if err := outbox.Create(ctx, tx, &domain.OutboxEvent{ID: "e1"}); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := accounts.Create(ctx, tx, &domain.Account{Number: "1930", Name: "Bank"}); err != nil {
		t.Fatalf("create account: %v", err)
	}

	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	if _, err := vouchers.GetByID(ctx, "v1"); !errors.Is(err, domain.ErrVoucherNotFound) {
		t.Errorf("expected voucher to be rolled back, got %v", err)
	}
	if next, _ := seq.Peek(ctx); next != 1 {
		t.Errorf("expected counter to be rolled back to 1, got %d", next)
	}
	if events, _ := outbox.GetUnpublished(ctx, 10); len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
	if _, err := accounts.GetByNumber(ctx, "1930"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected account to be rolled back, got %v", err)
	}
}

func TestTx_RollbackAfterCommitIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewStore(5)
	txm := NewTxManager(store)
	seq := NewSequenceRepository(store)

	tx, _ := txm.Begin(ctx)
	if _, err := seq.Next(ctx, tx); err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback after commit: %v", err)
	}

	if next, _ := seq.Peek(ctx); next != 6 {
		t.Fatalf("expected 6 after commit, got %d", next)
	}

	if _, err := seq.Next(ctx, tx); !errors.Is(err, ErrTransactionDone) {
		t.Fatalf("expected ErrTransactionDone, got %v", err)
	}
}

func TestTxManager_BeginGivesUpAtDeadline(t *testing.T) {
	store := NewStore(1)
	txm := NewTxManager(store)

	held, err := txm.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := txm.Begin(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error while the lock is held, got %v", err)
	}
	if waited := time.Since(start); waited > time.Second {
		t.Fatalf("Begin waited %v past its deadline", waited)
	}

	if err := held.Commit(context.Background()); err != nil {
		t.Fatalf("commit: %v", err)
	}

	tx, err := txm.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin after release: %v", err)
	}
	_ = tx.Rollback(context.Background())
}

func TestTxManager_BeginWaitsForRelease(t *testing.T) {
	store := NewStore(1)
	txm := NewTxManager(store)

	held, err := txm.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = held.Rollback(context.Background())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := txm.Begin(ctx)
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	_ = tx.Commit(context.Background())
}

func TestRepositories_RejectForeignTransaction(t *testing.T) {
	ctx := context.Background()
	store := NewStore(1)

	if _, err := NewSequenceRepository(store).Next(ctx, otherTx{}); !errors.Is(err, ErrForeignTransaction) {
		t.Fatalf("expected ErrForeignTransaction, got %v", err)
	}

	otherStore := NewStore(1)
	tx, _ := NewTxManager(otherStore).Begin(ctx)
	defer tx.Rollback(ctx)

	if err := NewVoucherRepository(store).Create(ctx, tx, voucher("v", 1, time.Now())); !errors.Is(err, ErrForeignTransaction) {
		t.Fatalf("expected ErrForeignTransaction, got %v", err)
	}
}

func TestAccountRepository_DuplicateAndOrder(t *testing.T) {
	ctx := context.Background()
	store := NewStore(1)
	txm := NewTxManager(store)
	repo := NewAccountRepository(store)

	tx, _ := txm.Begin(ctx)
	for _, n := range []string{"3001", "1930", "2440"} {
		if err := repo.Create(ctx, tx, &domain.Account{Number: n, Name: n}); err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
	}
	if err := repo.Create(ctx, tx, &domain.Account{Number: "1930", Name: "dup"}); !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
	_ = tx.Commit(ctx)

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Number != "1930" || list[1].Number != "2440" || list[2].Number != "3001" {
		t.Fatalf("unexpected order: %+v", list)
	}
}

func TestVoucherRepository_ListIsSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewStore(1)
	txm := NewTxManager(store)
	repo := NewVoucherRepository(store)

	tx, _ := txm.Begin(ctx)
	_ = repo.Create(ctx, tx, voucher("b", 2, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), dr("1930", 5), cr("3001", 5)))
	_ = repo.Create(ctx, tx, voucher("a", 1, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), dr("1930", 7), cr("3001", 7)))
	_ = tx.Commit(ctx)

	list, _ := repo.List(ctx, domain.VoucherFilter{})
	if len(list) != 2 || list[0].VoucherNumber != 1 || list[1].VoucherNumber != 2 {
		t.Fatalf("expected vouchers ordered by number, got %+v", list)
	}

	list[0].Lines[0].Debit = decimal.NewFromInt(999)
	again, _ := repo.GetByID(ctx, "a")
	if !again.Lines[0].Debit.Equal(decimal.NewFromInt(7)) {
		t.Fatal("mutating a listed voucher changed the store")
	}

	only2024, _ := repo.List(ctx, domain.VoucherFilter{Year: 2024})
	if len(only2024) != 1 || only2024[0].ID != "b" {
		t.Fatalf("expected only voucher b for 2024, got %+v", only2024)
	}
}

func TestVoucherRepository_DeleteMissing(t *testing.T) {
	ctx := context.Background()
	store := NewStore(1)
	tx, _ := NewTxManager(store).Begin(ctx)
	defer tx.Rollback(ctx)

	removed, err := NewVoucherRepository(store).Delete(ctx, tx, "nope")
	if err != nil || removed {
		t.Fatalf("expected (false, nil), got (%v, %v)", removed, err)
	}
}

func TestSequenceRepository_ConcurrentNumbersAreUnique(t *testing.T) {
	ctx := context.Background()
	store := NewStore(1)
	txm := NewTxManager(store)
	seq := NewSequenceRepository(store)

	const workers = 50
	numbers := make(chan int64, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := txm.Begin(ctx)
			if err != nil {
				t.Errorf("begin: %v", err)
				return
			}
			n, err := seq.Next(ctx, tx)
			if err != nil {
				t.Errorf("next: %v", err)
				_ = tx.Rollback(ctx)
				return
			}
			_ = tx.Commit(ctx)
			numbers <- n
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int64]bool)
	for n := range numbers {
		if seen[n] {
			t.Fatalf("number %d handed out twice", n)
		}
		seen[n] = true
	}
	if len(seen) != workers {
		t.Fatalf("expected %d numbers, got %d", workers, len(seen))
	}
}

func TestLedgerRepository_TotalsByAccount(t *testing.T) {
	ctx := context.Background()
	store := NewStore(1)
	tx, _ := NewTxManager(store).Begin(ctx)
	vouchers := NewVoucherRepository(store)
	_ = vouchers.Create(ctx, tx, voucher("a", 1, time.Now(), dr("1930", 100), cr("3001", 100)))
	_ = vouchers.Create(ctx, tx, voucher("b", 2, time.Now(), dr("5010", 40), cr("1930", 40)))
	_ = tx.Commit(ctx)

	totals, err := NewLedgerRepository(store).TotalsByAccount(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 3 || totals[0].AccountNumber != "1930" {
		t.Fatalf("unexpected totals %+v", totals)
	}
	if !totals[0].Balance().Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected 1930 balance 60, got %s", totals[0].Balance())
	}
}

func TestOutboxRepository_PublishLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore(1)
	repo := NewOutboxRepository(store)

	tx, _ := NewTxManager(store).Begin(ctx)
	_ = repo.Create(ctx, tx, &domain.OutboxEvent{ID: "e1", EventType: domain.EventTypeVoucherCreated})
	_ = repo.Create(ctx, tx, &domain.OutboxEvent{ID: "e2", EventType: domain.EventTypeVoucherDeleted})
	_ = tx.Commit(ctx)

	publishedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := repo.MarkPublished(ctx, "e1", publishedAt); err != nil {
		t.Fatalf("mark: %v", err)
	}

	pending, _ := repo.GetUnpublished(ctx, 10)
	if len(pending) != 1 || pending[0].ID != "e2" {
		t.Fatalf("expected only e2 pending, got %+v", pending)
	}

	if err := repo.DeletePublished(ctx, publishedAt.Add(time.Hour)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.outbox) != 1 {
		t.Fatalf("expected 1 event left, got %d", len(store.outbox))
	}
}
