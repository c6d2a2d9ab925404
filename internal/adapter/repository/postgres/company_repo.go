package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

const (
	selectCompanySQL = `SELECT company_name, organization_number, address, postal_code, city, country,
       vat_number, fiscal_year_start, fiscal_year_end, updated_at
FROM company_profile WHERE id = 1`

	upsertCompanySQL = `INSERT INTO company_profile (id, company_name, organization_number, address, postal_code, city,
       country, vat_number, fiscal_year_start, fiscal_year_end, updated_at)
VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
       company_name = EXCLUDED.company_name,
       organization_number = EXCLUDED.organization_number,
       address = EXCLUDED.address,
       postal_code = EXCLUDED.postal_code,
       city = EXCLUDED.city,
       country = EXCLUDED.country,
       vat_number = EXCLUDED.vat_number,
       fiscal_year_start = EXCLUDED.fiscal_year_start,
       fiscal_year_end = EXCLUDED.fiscal_year_end,
       updated_at = EXCLUDED.updated_at`
)

// CompanyRepository implements usecase.CompanyRepository.
type CompanyRepository struct {
	db DBTX
}

// NewCompanyRepository creates a new CompanyRepository.
func NewCompanyRepository(db DBTX) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Get returns the saved profile.
func (r *CompanyRepository) Get(ctx context.Context) (*domain.CompanyProfile, error) {
	var (
		p         domain.CompanyProfile
		updatedAt pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, selectCompanySQL).Scan(
		&p.CompanyName, &p.OrganizationNumber, &p.Address, &p.PostalCode, &p.City, &p.Country,
		&p.VATNumber, &p.FiscalYearStart, &p.FiscalYearEnd, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCompanyProfileNotFound
		}
		return nil, err
	}
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// Save replaces the profile.
func (r *CompanyRepository) Save(ctx context.Context, tx usecase.Transaction, p *domain.CompanyProfile) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx, upsertCompanySQL,
		p.CompanyName, p.OrganizationNumber, p.Address, p.PostalCode, p.City, p.Country,
		p.VATNumber, p.FiscalYearStart, p.FiscalYearEnd, timeToPgTimestamptz(p.UpdatedAt),
	)
	return err
}
