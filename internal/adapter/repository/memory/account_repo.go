package memory

import (
	"context"
	"sort"

	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create stores a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	mtx, err := r.store.txFrom(tx)
	if err != nil {
		return err
	}

	if _, exists := r.store.accounts[account.Number]; exists {
		return domain.ErrAccountExists
	}

	c := *account
	r.store.accounts[account.Number] = &c
	mtx.onRollback(func() { delete(r.store.accounts, account.Number) })

	return nil
}

// GetByNumber retrieves an account by number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.accounts[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	c := *a
	return &c, nil
}

// List returns all accounts ordered by number.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(r.store.accounts))
	for _, a := range r.store.accounts {
		c := *a
		accounts = append(accounts, &c)
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Number < accounts[j].Number
	})

	return accounts, nil
}
