package usecase

import (
	"context"
	"time"

	"github.com/accountpro/bookkeeper/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	// Create stores a new account. Returns domain.ErrAccountExists on a duplicate number.
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	// List returns every account ordered by number.
	List(ctx context.Context) ([]*domain.Account, error)
}

// VoucherRepository defines data access for vouchers and their lines.
type VoucherRepository interface {
	Create(ctx context.Context, tx Transaction, voucher *domain.Voucher) error
	GetByID(ctx context.Context, id string) (*domain.Voucher, error)
	// Delete removes the voucher and its lines. It reports whether a voucher was removed.
	Delete(ctx context.Context, tx Transaction, id string) (bool, error)
	// List returns matching vouchers ordered by voucher number.
	List(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error)
}

// SequenceRepository hands out voucher numbers.
type SequenceRepository interface {
	// Next returns the current counter value and advances it. The counter
	// stays locked until tx ends.
	Next(ctx context.Context, tx Transaction) (int64, error)
	// Peek returns the number the next voucher would get.
	Peek(ctx context.Context) (int64, error)
}

// CompanyRepository stores the single company profile.
type CompanyRepository interface {
	// Get returns domain.ErrCompanyProfileNotFound when nothing has been saved.
	Get(ctx context.Context) (*domain.CompanyProfile, error)
	Save(ctx context.Context, tx Transaction, profile *domain.CompanyProfile) error
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	// TotalsByAccount sums debit and credit per account, ordered by account number.
	TotalsByAccount(ctx context.Context) ([]domain.AccountTotals, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation that failed with a transient storage error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}
