package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/infrastructure/metrics"
)

// VoucherUseCase handles the voucher ledger: creating, deleting, listing and
// reversing vouchers, and projecting account statements from them.
type VoucherUseCase struct {
	txManager    TransactionManager
	voucherRepo  VoucherRepository
	sequenceRepo SequenceRepository
	accountRepo  AccountRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	metrics      *metrics.Metrics
	retrier      Retrier
	logger       zerolog.Logger
	now          func() time.Time
}

// NewVoucherUseCase creates a new VoucherUseCase. outboxRepo and metrics may be nil.
func NewVoucherUseCase(
	txManager TransactionManager,
	voucherRepo VoucherRepository,
	sequenceRepo SequenceRepository,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *VoucherUseCase {
	return &VoucherUseCase{
		txManager:    txManager,
		voucherRepo:  voucherRepo,
		sequenceRepo: sequenceRepo,
		accountRepo:  accountRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		metrics:      metrics,
		logger:       zerolog.Nop(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithRetrier retries voucher writes that hit transient storage conflicts.
func (uc *VoucherUseCase) WithRetrier(r Retrier) *VoucherUseCase {
	uc.retrier = r
	return uc
}

// WithLogger sets the logger used for lifecycle and data-quality messages.
func (uc *VoucherUseCase) WithLogger(l zerolog.Logger) *VoucherUseCase {
	uc.logger = l
	return uc
}

// WithClock replaces the wall clock, used for CreatedAt and reversal dates.
func (uc *VoucherUseCase) WithClock(now func() time.Time) *VoucherUseCase {
	uc.now = now
	return uc
}

// CreateVoucherInput represents input for creating a voucher.
type CreateVoucherInput struct {
	Date        time.Time
	Description string
	Lines       []domain.VoucherLine
}

// CreateVoucher validates the draft and appends it to the ledger with the
// next voucher number. Lines without an amount are dropped.
func (uc *VoucherUseCase) CreateVoucher(ctx context.Context, input CreateVoucherInput) (*domain.Voucher, error) {
	draft := domain.VoucherDraft{
		Description: strings.TrimSpace(input.Description),
		Lines:       input.Lines,
	}
	if !input.Date.IsZero() {
		draft.Date = domain.TruncateToDate(input.Date)
	}

	return uc.create(ctx, draft, nil)
}

// ReverseVoucher creates a new voucher that cancels the voucher with the given id.
// The original is left untouched.
func (uc *VoucherUseCase) ReverseVoucher(ctx context.Context, id string) (*domain.Voucher, error) {
	original, err := uc.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	draft := domain.ReverseVoucher(original, uc.now())

	reversal, err := uc.create(ctx, draft, original)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.VouchersReversed.Inc()
	}

	return reversal, nil
}

func (uc *VoucherUseCase) create(ctx context.Context, draft domain.VoucherDraft, reverses *domain.Voucher) (*domain.Voucher, error) {
	start := time.Now()

	result, err := draft.Validate()
	if err != nil {
		uc.recordRejection(err)
		return nil, err
	}

	lines, unknown, err := uc.resolveAccountNames(ctx, draft.PostableLines())
	if err != nil {
		return nil, err
	}
	if len(unknown) > 0 {
		uc.logger.Warn().
			Strs("accounts", unknown).
			Str("description", draft.Description).
			Msg("voucher posts to accounts missing from the chart")
	}

	var voucher *domain.Voucher
	op := func() error {
		v, err := uc.persist(ctx, draft, lines, result, reverses)
		if err != nil {
			return err
		}
		voucher = v
		return nil
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, op)
	} else {
		err = op()
	}
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.VouchersCreated.Inc()
		uc.metrics.VoucherDuration.Observe(time.Since(start).Seconds())
		uc.metrics.VoucherAmount.Observe(result.TotalDebit.InexactFloat64())
	}

	uc.logger.Info().
		Str("voucher_id", voucher.ID).
		Int64("voucher_number", voucher.VoucherNumber).
		Str("total", result.TotalDebit.StringFixed(2)).
		Msg("voucher created")

	return voucher, nil
}

func (uc *VoucherUseCase) persist(
	ctx context.Context,
	draft domain.VoucherDraft,
	lines []domain.VoucherLine,
	result domain.BalanceResult,
	reverses *domain.Voucher,
) (*domain.Voucher, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	number, err := uc.sequenceRepo.Next(txCtx, tx)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	voucher := &domain.Voucher{
		ID:            uc.idGen.Generate(),
		VoucherNumber: number,
		Date:          draft.Date,
		Description:   draft.Description,
		Lines:         make([]domain.VoucherLine, len(lines)),
		CreatedAt:     now,
	}
	for i, l := range lines {
		l.ID = uc.idGen.Generate()
		voucher.Lines[i] = l
	}
	if reverses != nil {
		originalID := reverses.ID
		voucher.ReversesID = &originalID
	}

	if err := uc.voucherRepo.Create(txCtx, tx, voucher); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		events := []*domain.OutboxEvent{
			domain.NewOutboxEvent(uc.idGen.Generate(), domain.AggregateTypeVoucher, voucher.ID, domain.EventTypeVoucherCreated,
				domain.VoucherCreatedEvent{
					VoucherID:     voucher.ID,
					VoucherNumber: voucher.VoucherNumber,
					Date:          voucher.Date.Format(domain.DateLayout),
					TotalAmount:   result.TotalDebit.StringFixed(2),
					LineCount:     len(voucher.Lines),
				}, now),
		}
		if reverses != nil {
			events = append(events, domain.NewOutboxEvent(uc.idGen.Generate(), domain.AggregateTypeVoucher, reverses.ID, domain.EventTypeVoucherReversed,
				domain.VoucherReversedEvent{
					ReversalVoucherID: voucher.ID,
					OriginalVoucherID: reverses.ID,
					ReversalNumber:    voucher.VoucherNumber,
					OriginalNumber:    reverses.VoucherNumber,
				}, now))
		}

		for _, event := range events {
			if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return voucher, nil
}

// resolveAccountNames fills empty account names from the chart and returns
// the distinct account numbers that are not in it.
func (uc *VoucherUseCase) resolveAccountNames(ctx context.Context, lines []domain.VoucherLine) ([]domain.VoucherLine, []string, error) {
	resolved := make([]domain.VoucherLine, len(lines))
	names := make(map[string]string)
	var unknown []string

	for i, l := range lines {
		name, seen := names[l.AccountNumber]
		if !seen {
			account, err := uc.accountRepo.GetByNumber(ctx, l.AccountNumber)
			switch {
			case errors.Is(err, domain.ErrAccountNotFound):
				unknown = append(unknown, l.AccountNumber)
			case err != nil:
				return nil, nil, err
			default:
				name = account.Name
			}
			names[l.AccountNumber] = name
		}

		if strings.TrimSpace(l.AccountName) == "" {
			l.AccountName = name
		}
		resolved[i] = l
	}

	return resolved, unknown, nil
}

// UnknownAccounts returns the distinct account numbers on lines with an
// amount that are missing from the chart of accounts, in line order.
func (uc *VoucherUseCase) UnknownAccounts(ctx context.Context, lines []domain.VoucherLine) ([]string, error) {
	_, unknown, err := uc.resolveAccountNames(ctx, domain.VoucherDraft{Lines: lines}.PostableLines())
	return unknown, err
}

// DeleteVoucher removes a voucher. Deleting an id that does not exist is not an error.
// Voucher numbers are never reused.
func (uc *VoucherUseCase) DeleteVoucher(ctx context.Context, id string) error {
	voucher, err := uc.voucherRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrVoucherNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	removed, err := uc.voucherRepo.Delete(txCtx, tx, id)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	if uc.outboxRepo != nil {
		event := domain.NewOutboxEvent(uc.idGen.Generate(), domain.AggregateTypeVoucher, id, domain.EventTypeVoucherDeleted,
			domain.VoucherDeletedEvent{VoucherID: id, VoucherNumber: voucher.VoucherNumber}, uc.now())
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.VouchersDeleted.Inc()
	}

	uc.logger.Info().
		Str("voucher_id", id).
		Int64("voucher_number", voucher.VoucherNumber).
		Msg("voucher deleted")

	return nil
}

// GetVoucher retrieves a voucher by ID.
func (uc *VoucherUseCase) GetVoucher(ctx context.Context, id string) (*domain.Voucher, error) {
	return uc.voucherRepo.GetByID(ctx, id)
}

// ListVouchers lists vouchers ordered by voucher number.
func (uc *VoucherUseCase) ListVouchers(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error) {
	return uc.voucherRepo.List(ctx, filter)
}

// NextVoucherNumber previews the number the next voucher will get.
func (uc *VoucherUseCase) NextVoucherNumber(ctx context.Context) (int64, error) {
	return uc.sequenceRepo.Peek(ctx)
}

// ValidateVoucher reports the balance of a set of lines without storing anything.
func (uc *VoucherUseCase) ValidateVoucher(lines []domain.VoucherLine) domain.BalanceResult {
	return domain.ValidateLines(lines)
}

// GetAccountStatement projects the statement of one account from the
// vouchers matching filter. It is recomputed on every call.
func (uc *VoucherUseCase) GetAccountStatement(ctx context.Context, accountNumber string, filter domain.VoucherFilter) (domain.AccountStatement, error) {
	start := time.Now()

	vouchers, err := uc.voucherRepo.List(ctx, filter)
	if err != nil {
		return domain.AccountStatement{}, err
	}

	statement := domain.ProjectStatement(accountNumber, vouchers)

	if uc.metrics != nil {
		uc.metrics.StatementDuration.Observe(time.Since(start).Seconds())
	}

	return statement, nil
}

func (uc *VoucherUseCase) recordRejection(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.VoucherRejections.WithLabelValues(rejectionReason(err)).Inc()
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrImbalancedVoucher):
		return "imbalanced"
	case errors.Is(err, domain.ErrInsufficientLines):
		return "insufficient_lines"
	case errors.Is(err, domain.ErrMissingDate):
		return "missing_date"
	case errors.Is(err, domain.ErrEmptyDescription):
		return "empty_description"
	case errors.Is(err, domain.ErrInvalidLine):
		return "invalid_line"
	default:
		return "other"
	}
}
