package memory

import (
	"context"

	"github.com/accountpro/bookkeeper/internal/usecase"
)

// SequenceRepository implements usecase.SequenceRepository.
type SequenceRepository struct {
	store *Store
}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository(store *Store) *SequenceRepository {
	return &SequenceRepository{store: store}
}

// Next returns the next voucher number and advances the counter.
func (r *SequenceRepository) Next(ctx context.Context, tx usecase.Transaction) (int64, error) {
	mtx, err := r.store.txFrom(tx)
	if err != nil {
		return 0, err
	}

	n := r.store.nextNumber
	r.store.nextNumber++
	mtx.onRollback(func() { r.store.nextNumber = n })

	return n, nil
}

// Peek returns the number the next voucher would get.
func (r *SequenceRepository) Peek(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.nextNumber, nil
}
