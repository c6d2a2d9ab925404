package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

const (
	insertVoucherSQL = `INSERT INTO vouchers (id, voucher_number, date, description, reverses_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	insertVoucherLineSQL = `INSERT INTO voucher_lines (id, voucher_id, position, account_number, account_name, debit, credit)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	deleteVoucherSQL = `DELETE FROM vouchers WHERE id = $1`

	selectVoucherColumns = `SELECT v.id, v.voucher_number, v.date, v.description, v.reverses_id, v.created_at,
       l.id, l.account_number, l.account_name, l.debit, l.credit
FROM vouchers v
JOIN voucher_lines l ON l.voucher_id = v.id`

	selectVoucherSQL = selectVoucherColumns + `
WHERE v.id = $1
ORDER BY l.position`

	listVouchersSQL = selectVoucherColumns + `
WHERE ($1::int = 0 OR EXTRACT(YEAR FROM v.date)::int = $1)
ORDER BY v.voucher_number, l.position`
)

// VoucherRepository implements usecase.VoucherRepository.
type VoucherRepository struct {
	db DBTX
}

// NewVoucherRepository creates a new VoucherRepository.
func NewVoucherRepository(db DBTX) *VoucherRepository {
	return &VoucherRepository{db: db}
}

// Create inserts a voucher and its lines.
func (r *VoucherRepository) Create(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx, insertVoucherSQL,
		voucher.ID,
		voucher.VoucherNumber,
		timeToPgDate(voucher.Date),
		voucher.Description,
		voucher.ReversesID,
		timeToPgTimestamptz(voucher.CreatedAt),
	)
	if err != nil {
		return err
	}

	for i, l := range voucher.Lines {
		_, err = pgxTx.Exec(ctx, insertVoucherLineSQL,
			l.ID,
			voucher.ID,
			i,
			l.AccountNumber,
			l.AccountName,
			decimalToNumeric(l.Debit),
			decimalToNumeric(l.Credit),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a voucher with its lines.
func (r *VoucherRepository) GetByID(ctx context.Context, id string) (*domain.Voucher, error) {
	rows, err := r.db.Query(ctx, selectVoucherSQL, id)
	if err != nil {
		return nil, err
	}

	vouchers, err := collectVouchers(rows)
	if err != nil {
		return nil, err
	}
	if len(vouchers) == 0 {
		return nil, domain.ErrVoucherNotFound
	}

	return vouchers[0], nil
}

// Delete removes a voucher; its lines go with it via ON DELETE CASCADE.
func (r *VoucherRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) (bool, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return false, err
	}

	tag, err := pgxTx.Exec(ctx, deleteVoucherSQL, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// List returns matching vouchers ordered by voucher number.
func (r *VoucherRepository) List(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error) {
	rows, err := r.db.Query(ctx, listVouchersSQL, filter.Year)
	if err != nil {
		return nil, err
	}

	return collectVouchers(rows)
}

// collectVouchers folds joined voucher/line rows, which must arrive grouped
// by voucher, into vouchers.
func collectVouchers(rows pgx.Rows) ([]*domain.Voucher, error) {
	defer rows.Close()

	vouchers := make([]*domain.Voucher, 0)
	var current *domain.Voucher

	for rows.Next() {
		var (
			v          domain.Voucher
			date       pgtype.Date
			reversesID *string
			createdAt  pgtype.Timestamptz
			line       domain.VoucherLine
			debit      pgtype.Numeric
			credit     pgtype.Numeric
		)

		err := rows.Scan(
			&v.ID, &v.VoucherNumber, &date, &v.Description, &reversesID, &createdAt,
			&line.ID, &line.AccountNumber, &line.AccountName, &debit, &credit,
		)
		if err != nil {
			return nil, err
		}

		if current == nil || current.ID != v.ID {
			v.Date = dateFromPg(date)
			v.CreatedAt = createdAt.Time
			v.ReversesID = reversesID
			current = &v
			vouchers = append(vouchers, current)
		}

		line.Debit = numericToDecimal(debit)
		line.Credit = numericToDecimal(credit)
		current.Lines = append(current.Lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return vouchers, nil
}

func dateFromPg(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return domain.TruncateToDate(d.Time)
}
