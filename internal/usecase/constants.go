package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPending marks a key whose first request is still running.
	IdempotencyPending = "processing"

	// AccountListCacheKey holds the serialized chart of accounts.
	AccountListCacheKey = "accounts:list"

	// AccountListCacheTTL bounds staleness if an invalidation is lost.
	AccountListCacheTTL = 10 * time.Minute
)
