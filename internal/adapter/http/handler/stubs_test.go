package handler

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"

	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/infrastructure/scripts"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

// withURLParams attaches chi route parameters to req.
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

type accountServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn    func(ctx context.Context, number string) (*domain.Account, error)
	listFn   func(ctx context.Context) ([]*domain.Account, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, number string) (*domain.Account, error) {
	if s.getFn == nil {
		return nil, domain.ErrAccountNotFound
	}
	return s.getFn(ctx, number)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.listFn(ctx)
}

type statementServiceStub struct {
	fn func(ctx context.Context, accountNumber string, filter domain.VoucherFilter) (domain.AccountStatement, error)
}

func (s *statementServiceStub) GetAccountStatement(ctx context.Context, accountNumber string, filter domain.VoucherFilter) (domain.AccountStatement, error) {
	return s.fn(ctx, accountNumber, filter)
}

type voucherServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateVoucherInput) (*domain.Voucher, error)
	reverseFn func(ctx context.Context, id string) (*domain.Voucher, error)
	deleteFn  func(ctx context.Context, id string) error
	getFn     func(ctx context.Context, id string) (*domain.Voucher, error)
	listFn    func(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error)
	nextFn    func(ctx context.Context) (int64, error)
	unknown   []string
}

func (s *voucherServiceStub) CreateVoucher(ctx context.Context, input usecase.CreateVoucherInput) (*domain.Voucher, error) {
	return s.createFn(ctx, input)
}

func (s *voucherServiceStub) ReverseVoucher(ctx context.Context, id string) (*domain.Voucher, error) {
	return s.reverseFn(ctx, id)
}

func (s *voucherServiceStub) DeleteVoucher(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *voucherServiceStub) GetVoucher(ctx context.Context, id string) (*domain.Voucher, error) {
	return s.getFn(ctx, id)
}

func (s *voucherServiceStub) ListVouchers(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error) {
	return s.listFn(ctx, filter)
}

func (s *voucherServiceStub) NextVoucherNumber(ctx context.Context) (int64, error) {
	return s.nextFn(ctx)
}

func (s *voucherServiceStub) ValidateVoucher(lines []domain.VoucherLine) domain.BalanceResult {
	return domain.ValidateLines(lines)
}

func (s *voucherServiceStub) UnknownAccounts(ctx context.Context, lines []domain.VoucherLine) ([]string, error) {
	return s.unknown, nil
}

type companyServiceStub struct {
	profile   *domain.CompanyProfile
	updateErr error
}

func (s *companyServiceStub) GetProfile(ctx context.Context) (*domain.CompanyProfile, error) {
	return s.profile, nil
}

func (s *companyServiceStub) UpdateProfile(ctx context.Context, profile domain.CompanyProfile) (*domain.CompanyProfile, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &profile, nil
}

type ledgerServiceStub struct {
	report *usecase.ConsistencyReport
	tb     *usecase.TrialBalance
}

func (s *ledgerServiceStub) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return s.report, nil
}

func (s *ledgerServiceStub) TrialBalance(ctx context.Context) (*usecase.TrialBalance, error) {
	return s.tb, nil
}

type scriptRunnerStub struct {
	result *scripts.Result
	called scripts.Action
}

func (s *scriptRunnerStub) Run(ctx context.Context, action scripts.Action) (*scripts.Result, error) {
	s.called = action
	return s.result, nil
}
