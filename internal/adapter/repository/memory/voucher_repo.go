package memory

import (
	"context"
	"sort"

	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

// VoucherRepository implements usecase.VoucherRepository.
type VoucherRepository struct {
	store *Store
}

// NewVoucherRepository creates a new VoucherRepository.
func NewVoucherRepository(store *Store) *VoucherRepository {
	return &VoucherRepository{store: store}
}

// Create appends a voucher.
func (r *VoucherRepository) Create(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error {
	mtx, err := r.store.txFrom(tx)
	if err != nil {
		return err
	}

	id := voucher.ID
	r.store.vouchers[id] = cloneVoucher(voucher)
	mtx.onRollback(func() { delete(r.store.vouchers, id) })

	return nil
}

// GetByID retrieves a voucher by ID.
func (r *VoucherRepository) GetByID(ctx context.Context, id string) (*domain.Voucher, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	v, ok := r.store.vouchers[id]
	if !ok {
		return nil, domain.ErrVoucherNotFound
	}

	return cloneVoucher(v), nil
}

// Delete removes a voucher if present.
func (r *VoucherRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) (bool, error) {
	mtx, err := r.store.txFrom(tx)
	if err != nil {
		return false, err
	}

	v, ok := r.store.vouchers[id]
	if !ok {
		return false, nil
	}

	delete(r.store.vouchers, id)
	mtx.onRollback(func() { r.store.vouchers[id] = v })

	return true, nil
}

// List returns a snapshot of matching vouchers ordered by voucher number.
func (r *VoucherRepository) List(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	vouchers := make([]*domain.Voucher, 0, len(r.store.vouchers))
	for _, v := range r.store.vouchers {
		if filter.Matches(v) {
			vouchers = append(vouchers, cloneVoucher(v))
		}
	}

	sort.Slice(vouchers, func(i, j int) bool {
		return vouchers[i].VoucherNumber < vouchers[j].VoucherNumber
	})

	return vouchers, nil
}
