package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/infrastructure/metrics"
)

// AccountUseCase handles the chart of accounts.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	cache       Cache
	idGen       IDGenerator
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase. outboxRepo, cache and metrics may be nil.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		cache:       cache,
		idGen:       idGen,
		metrics:     metrics,
		logger:      zerolog.Nop(),
	}
}

// WithLogger sets the logger.
func (uc *AccountUseCase) WithLogger(l zerolog.Logger) *AccountUseCase {
	uc.logger = l
	return uc
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Number      string
	Name        string
	Class       domain.AccountClass
	Description string
}

func (in CreateAccountInput) toAccount() (*domain.Account, error) {
	account := &domain.Account{
		Number:      strings.TrimSpace(in.Number),
		Name:        strings.TrimSpace(in.Name),
		Class:       in.Class,
		Description: strings.TrimSpace(in.Description),
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	// derived from the number when not given
	if account.Class == "" {
		account.Class, _ = domain.ClassForNumber(account.Number)
	}

	return account, nil
}

// CreateAccount adds an account to the chart. Accounts are immutable once created.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	account, err := input.toAccount()
	if err != nil {
		return nil, err
	}

	if err := uc.createAll(ctx, []*domain.Account{account}); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by number.
func (uc *AccountUseCase) GetAccount(ctx context.Context, number string) (*domain.Account, error) {
	return uc.accountRepo.GetByNumber(ctx, strings.TrimSpace(number))
}

// ListAccounts lists the chart ordered by account number. The list is served
// from the cache when one is configured.
func (uc *AccountUseCase) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, AccountListCacheKey); err == nil && data != nil {
			var cached []*domain.Account
			if err := json.Unmarshal(data, &cached); err == nil {
				uc.recordCache("hit")
				return cached, nil
			}
		}
		uc.recordCache("miss")
	}

	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(accounts); err == nil {
			if err := uc.cache.Set(ctx, AccountListCacheKey, data, AccountListCacheTTL); err != nil {
				uc.logger.Warn().Err(err).Msg("failed to cache account list")
			}
		}
	}

	return accounts, nil
}

// EnsureDefaultChart seeds the default BAS accounts when the chart is empty.
// It returns the number of accounts created.
func (uc *AccountUseCase) EnsureDefaultChart(ctx context.Context) (int, error) {
	existing, err := uc.accountRepo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	chart := domain.DefaultChart()
	accounts := make([]*domain.Account, len(chart))
	for i := range chart {
		accounts[i] = &chart[i]
	}

	if err := uc.createAll(ctx, accounts); err != nil {
		return 0, err
	}

	uc.logger.Info().Int("accounts", len(accounts)).Msg("seeded default chart of accounts")

	return len(accounts), nil
}

// ImportAccounts adds every account whose number is not yet in the chart.
// All accounts are validated before anything is stored. It returns the
// number of accounts created.
func (uc *AccountUseCase) ImportAccounts(ctx context.Context, inputs []CreateAccountInput) (int, error) {
	existing, err := uc.accountRepo.List(ctx)
	if err != nil {
		return 0, err
	}

	known := make(map[string]bool, len(existing))
	for _, a := range existing {
		known[a.Number] = true
	}

	var accounts []*domain.Account
	for _, in := range inputs {
		account, err := in.toAccount()
		if err != nil {
			return 0, err
		}
		if known[account.Number] {
			continue
		}
		known[account.Number] = true
		accounts = append(accounts, account)
	}

	if len(accounts) == 0 {
		return 0, nil
	}

	if err := uc.createAll(ctx, accounts); err != nil {
		return 0, err
	}

	return len(accounts), nil
}

func (uc *AccountUseCase) createAll(ctx context.Context, accounts []*domain.Account) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	for _, account := range accounts {
		if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
			return err
		}

		if uc.outboxRepo != nil {
			event := domain.NewOutboxEvent(uc.idGen.Generate(), domain.AggregateTypeAccount, account.Number, domain.EventTypeAccountCreated,
				domain.AccountCreatedEvent{
					Number: account.Number,
					Name:   account.Name,
					Class:  string(account.Class),
				}, now)
			if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	uc.invalidateList(ctx)

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Add(float64(len(accounts)))
	}

	return nil
}

func (uc *AccountUseCase) invalidateList(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, AccountListCacheKey); err != nil {
		uc.logger.Warn().Err(err).Msg("failed to invalidate account list cache")
	}
}

func (uc *AccountUseCase) recordCache(result string) {
	if uc.metrics != nil {
		uc.metrics.AccountCache.WithLabelValues(result).Inc()
	}
}

