package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/usecase"
	"github.com/accountpro/bookkeeper/internal/usecase/mocks"
)

type voucherMocks struct {
	txm      *mocks.MockTransactionManager
	tx       *mocks.MockTransaction
	vouchers *mocks.MockVoucherRepository
	seq      *mocks.MockSequenceRepository
	accounts *mocks.MockAccountRepository
	outbox   *mocks.MockOutboxRepository
	ids      *mocks.MockIDGenerator
}

func newVoucherMocks(ctrl *gomock.Controller) *voucherMocks {
	return &voucherMocks{
		txm:      mocks.NewMockTransactionManager(ctrl),
		tx:       mocks.NewMockTransaction(ctrl),
		vouchers: mocks.NewMockVoucherRepository(ctrl),
		seq:      mocks.NewMockSequenceRepository(ctrl),
		accounts: mocks.NewMockAccountRepository(ctrl),
		outbox:   mocks.NewMockOutboxRepository(ctrl),
		ids:      mocks.NewMockIDGenerator(ctrl),
	}
}

func (m *voucherMocks) useCase() *usecase.VoucherUseCase {
	return usecase.NewVoucherUseCase(m.txm, m.vouchers, m.seq, m.accounts, m.outbox, m.ids, nil)
}

func saleInput() usecase.CreateVoucherInput {
	return usecase.CreateVoucherInput{
		Date:        date(2024, 1, 15),
		Description: "Sale",
		Lines:       []domain.VoucherLine{debit("1930", "1000"), credit("3001", "1000")},
	}
}

func TestVoucherUseCase_CreateVoucher_StorageErrors(t *testing.T) {
	errDB := errors.New("db down")

	tests := []struct {
		name  string
		setup func(m *voucherMocks)
	}{
		{
			name: "account lookup fails",
			setup: func(m *voucherMocks) {
				m.accounts.EXPECT().GetByNumber(gomock.Any(), "1930").Return(nil, errDB)
			},
		},
		{
			name: "begin fails",
			setup: func(m *voucherMocks) {
				m.accounts.EXPECT().GetByNumber(gomock.Any(), gomock.Any()).Return(&domain.Account{Name: "x"}, nil).Times(2)
				m.txm.EXPECT().Begin(gomock.Any()).Return(nil, errDB)
			},
		},
		{
			name: "sequence fails",
			setup: func(m *voucherMocks) {
				m.accounts.EXPECT().GetByNumber(gomock.Any(), gomock.Any()).Return(&domain.Account{Name: "x"}, nil).Times(2)
				m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.seq.EXPECT().Next(gomock.Any(), m.tx).Return(int64(0), errDB)
				m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
			},
		},
		{
			name: "append fails",
			setup: func(m *voucherMocks) {
				m.accounts.EXPECT().GetByNumber(gomock.Any(), gomock.Any()).Return(&domain.Account{Name: "x"}, nil).Times(2)
				m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.seq.EXPECT().Next(gomock.Any(), m.tx).Return(int64(7), nil)
				m.ids.EXPECT().Generate().Return("id").Times(3)
				m.vouchers.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(errDB)
				m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
			},
		},
		{
			name: "outbox fails",
			setup: func(m *voucherMocks) {
				m.accounts.EXPECT().GetByNumber(gomock.Any(), gomock.Any()).Return(&domain.Account{Name: "x"}, nil).Times(2)
				m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.seq.EXPECT().Next(gomock.Any(), m.tx).Return(int64(7), nil)
				m.ids.EXPECT().Generate().Return("id").Times(4)
				m.vouchers.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
				m.outbox.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(errDB)
				m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
			},
		},
		{
			name: "commit fails",
			setup: func(m *voucherMocks) {
				m.accounts.EXPECT().GetByNumber(gomock.Any(), gomock.Any()).Return(&domain.Account{Name: "x"}, nil).Times(2)
				m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.seq.EXPECT().Next(gomock.Any(), m.tx).Return(int64(7), nil)
				m.ids.EXPECT().Generate().Return("id").Times(4)
				m.vouchers.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
				m.outbox.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
				m.tx.EXPECT().Commit(gomock.Any()).Return(errDB)
				m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := newVoucherMocks(ctrl)
			tt.setup(m)

			v, err := m.useCase().CreateVoucher(context.Background(), saleInput())
			if !errors.Is(err, errDB) {
				t.Fatalf("expected db error, got %v", err)
			}
			if v != nil {
				t.Fatalf("expected no voucher, got %+v", v)
			}
		})
	}
}

func TestVoucherUseCase_CreateVoucher_UsesRetrier(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newVoucherMocks(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)

	m.accounts.EXPECT().GetByNumber(gomock.Any(), gomock.Any()).Return(&domain.Account{Name: "x"}, nil).Times(2)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, op func() error) error {
		return op()
	})
	m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.seq.EXPECT().Next(gomock.Any(), m.tx).Return(int64(42), nil)
	m.ids.EXPECT().Generate().Return("id").Times(4)
	m.vouchers.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.outbox.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	v, err := m.useCase().WithRetrier(retrier).CreateVoucher(context.Background(), saleInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.VoucherNumber != 42 {
		t.Fatalf("expected number from sequence, got %d", v.VoucherNumber)
	}
}

func TestVoucherUseCase_DeleteVoucher_Errors(t *testing.T) {
	errDB := errors.New("db down")

	t.Run("lookup error surfaces", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := newVoucherMocks(ctrl)
		m.vouchers.EXPECT().GetByID(gomock.Any(), "v1").Return(nil, errDB)

		if err := m.useCase().DeleteVoucher(context.Background(), "v1"); !errors.Is(err, errDB) {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("removed concurrently is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := newVoucherMocks(ctrl)
		m.vouchers.EXPECT().GetByID(gomock.Any(), "v1").Return(&domain.Voucher{ID: "v1", VoucherNumber: 3}, nil)
		m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
		m.vouchers.EXPECT().Delete(gomock.Any(), m.tx, "v1").Return(false, nil)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

		if err := m.useCase().DeleteVoucher(context.Background(), "v1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("delete error surfaces", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := newVoucherMocks(ctrl)
		m.vouchers.EXPECT().GetByID(gomock.Any(), "v1").Return(&domain.Voucher{ID: "v1", VoucherNumber: 3}, nil)
		m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
		m.vouchers.EXPECT().Delete(gomock.Any(), m.tx, "v1").Return(false, errDB)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

		if err := m.useCase().DeleteVoucher(context.Background(), "v1"); !errors.Is(err, errDB) {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestVoucherUseCase_GetAccountStatement_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newVoucherMocks(ctrl)
	errDB := errors.New("db down")
	m.vouchers.EXPECT().List(gomock.Any(), domain.VoucherFilter{}).Return(nil, errDB)

	if _, err := m.useCase().GetAccountStatement(context.Background(), "1930", domain.VoucherFilter{}); !errors.Is(err, errDB) {
		t.Fatalf("expected db error, got %v", err)
	}
}
