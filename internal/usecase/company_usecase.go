package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/accountpro/bookkeeper/internal/domain"
)

// CompanyUseCase manages the company profile.
type CompanyUseCase struct {
	txManager   TransactionManager
	companyRepo CompanyRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
}

// NewCompanyUseCase creates a new CompanyUseCase. outboxRepo may be nil.
func NewCompanyUseCase(txManager TransactionManager, companyRepo CompanyRepository, outboxRepo OutboxRepository, idGen IDGenerator) *CompanyUseCase {
	return &CompanyUseCase{
		txManager:   txManager,
		companyRepo: companyRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
	}
}

// GetProfile returns the saved profile, or the defaults if none was saved.
func (uc *CompanyUseCase) GetProfile(ctx context.Context) (*domain.CompanyProfile, error) {
	profile, err := uc.companyRepo.Get(ctx)
	if errors.Is(err, domain.ErrCompanyProfileNotFound) {
		defaults := domain.DefaultCompanyProfile()
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile replaces the profile after normalizing and validating it.
func (uc *CompanyUseCase) UpdateProfile(ctx context.Context, profile domain.CompanyProfile) (*domain.CompanyProfile, error) {
	profile.Normalize()
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	profile.UpdatedAt = time.Now().UTC()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.companyRepo.Save(txCtx, tx, &profile); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := domain.NewOutboxEvent(uc.idGen.Generate(), domain.AggregateTypeCompany, "profile",
			domain.EventTypeCompanyProfileUpdated, profile, profile.UpdatedAt)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return &profile, nil
}
