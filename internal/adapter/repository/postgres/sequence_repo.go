package postgres

import (
	"context"

	"github.com/accountpro/bookkeeper/internal/usecase"
)

const (
	ensureSequenceSQL = `INSERT INTO voucher_sequence (id, next_number) VALUES (1, $1)
ON CONFLICT (id) DO NOTHING`

	// The UPDATE takes a row lock that is held until the transaction ends,
	// so concurrent voucher creation is serialized on the counter.
	nextSequenceSQL = `UPDATE voucher_sequence SET next_number = next_number + 1
WHERE id = 1
RETURNING next_number - 1`

	peekSequenceSQL = `SELECT next_number FROM voucher_sequence WHERE id = 1`
)

// SequenceRepository implements usecase.SequenceRepository on a single-row counter table.
type SequenceRepository struct {
	db DBTX
}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository(db DBTX) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Ensure creates the counter starting at start if it does not exist yet.
// An existing counter is left alone.
func (r *SequenceRepository) Ensure(ctx context.Context, start int64) error {
	if start < 1 {
		start = 1
	}
	_, err := r.db.Exec(ctx, ensureSequenceSQL, start)
	return err
}

// Next returns the next voucher number and advances the counter.
func (r *SequenceRepository) Next(ctx context.Context, tx usecase.Transaction) (int64, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := pgxTx.QueryRow(ctx, nextSequenceSQL).Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

// Peek returns the number the next voucher would get.
func (r *SequenceRepository) Peek(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, peekSequenceSQL).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
