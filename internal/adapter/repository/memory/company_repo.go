package memory

import (
	"context"

	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

// CompanyRepository implements usecase.CompanyRepository.
type CompanyRepository struct {
	store *Store
}

// NewCompanyRepository creates a new CompanyRepository.
func NewCompanyRepository(store *Store) *CompanyRepository {
	return &CompanyRepository{store: store}
}

// Get returns the saved profile.
func (r *CompanyRepository) Get(ctx context.Context) (*domain.CompanyProfile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if r.store.company == nil {
		return nil, domain.ErrCompanyProfileNotFound
	}

	c := *r.store.company
	return &c, nil
}

// Save replaces the profile.
func (r *CompanyRepository) Save(ctx context.Context, tx usecase.Transaction, profile *domain.CompanyProfile) error {
	mtx, err := r.store.txFrom(tx)
	if err != nil {
		return err
	}

	previous := r.store.company
	c := *profile
	r.store.company = &c
	mtx.onRollback(func() { r.store.company = previous })

	return nil
}
