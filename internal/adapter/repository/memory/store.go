// Package memory is an in-process storage backend. A transaction holds the
// store's write lock from Begin until Commit or Rollback, so writes are
// serialized and reads never observe a half-applied voucher.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

// ErrForeignTransaction is returned when a repository receives a transaction
// that was not started by this store.
var ErrForeignTransaction = errors.New("memory: transaction does not belong to this store")

// ErrTransactionDone is returned when a finished transaction is used again.
var ErrTransactionDone = errors.New("memory: transaction already committed or rolled back")

// Store holds all state of the in-memory backend.
type Store struct {
	mu sync.RWMutex

	accounts   map[string]*domain.Account
	vouchers   map[string]*domain.Voucher
	company    *domain.CompanyProfile
	outbox     []*domain.OutboxEvent
	nextNumber int64
}

// NewStore creates an empty store whose first voucher gets startNumber.
func NewStore(startNumber int64) *Store {
	if startNumber < 1 {
		startNumber = 1
	}
	return &Store{
		accounts:   make(map[string]*domain.Account),
		vouchers:   make(map[string]*domain.Voucher),
		nextNumber: startNumber,
	}
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// lockPollInterval is how often Begin retries a contended write lock.
const lockPollInterval = time.Millisecond

// Begin takes the store's write lock. It is released by Commit or Rollback.
// Waiting for the lock stops when ctx is done.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := m.store.lock(ctx); err != nil {
		return nil, err
	}
	return &Tx{store: m.store}, nil
}

func (s *Store) lock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.mu.TryLock() {
		return nil
	}

	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("memory: waiting for store lock: %w", ctx.Err())
		case <-ticker.C:
			if s.mu.TryLock() {
				return nil
			}
		}
	}
}

// Tx is an open transaction. Mutations are applied immediately and undone on Rollback.
type Tx struct {
	store *Store
	undo  []func()
	done  bool
}

// Commit keeps the changes and releases the lock.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTransactionDone
	}
	t.done = true
	t.undo = nil
	t.store.mu.Unlock()
	return nil
}

// Rollback reverts the changes and releases the lock. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.store.mu.Unlock()
	return nil
}

func (t *Tx) onRollback(f func()) {
	t.undo = append(t.undo, f)
}

func (s *Store) txFrom(tx usecase.Transaction) (*Tx, error) {
	mtx, ok := tx.(*Tx)
	if !ok || mtx.store != s {
		return nil, ErrForeignTransaction
	}
	if mtx.done {
		return nil, ErrTransactionDone
	}
	return mtx, nil
}

func cloneVoucher(v *domain.Voucher) *domain.Voucher {
	c := *v
	c.Lines = append([]domain.VoucherLine(nil), v.Lines...)
	if v.ReversesID != nil {
		id := *v.ReversesID
		c.ReversesID = &id
	}
	return &c
}

func cloneEvent(e *domain.OutboxEvent) *domain.OutboxEvent {
	c := *e
	if e.Payload != nil {
		c.Payload = make(map[string]any, len(e.Payload))
		for k, v := range e.Payload {
			c.Payload[k] = v
		}
	}
	if e.PublishedAt != nil {
		at := *e.PublishedAt
		c.PublishedAt = &at
	}
	return &c
}
