package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

const (
	insertAccountSQL = `INSERT INTO accounts (number, name, class, description)
VALUES ($1, $2, $3, $4)
ON CONFLICT (number) DO NOTHING`

	selectAccountSQL = `SELECT number, name, class, description FROM accounts WHERE number = $1`

	listAccountsSQL = `SELECT number, name, class, description FROM accounts ORDER BY number`
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	tag, err := pgxTx.Exec(ctx, insertAccountSQL, account.Number, account.Name, string(account.Class), account.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountExists
	}

	return nil
}

// GetByNumber retrieves an account by number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	account, err := scanAccount(r.db.QueryRow(ctx, selectAccountSQL, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// List lists all accounts ordered by number.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx, listAccountsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a     domain.Account
		class string
	)

	if err := row.Scan(&a.Number, &a.Name, &class, &a.Description); err != nil {
		return nil, err
	}
	a.Class = domain.AccountClass(class)

	return &a, nil
}
