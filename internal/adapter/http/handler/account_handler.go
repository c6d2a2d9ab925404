package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/accountpro/bookkeeper/internal/adapter/http/dto"
	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/infrastructure/chart"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, number string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
}

// StatementService projects account statements.
type StatementService interface {
	GetAccountStatement(ctx context.Context, accountNumber string, filter domain.VoucherFilter) (domain.AccountStatement, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC   AccountService
	statementUC StatementService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, statementUC StatementService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, statementUC: statementUC}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by number.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	account, err := h.accountUC.GetAccount(r.Context(), number)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists the chart of accounts ordered by number.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAccounts(r.Context())
	if err != nil {
		writeDomainError(w, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    len(accounts),
	})
}

// Export writes the chart of accounts as CSV.
func (h *AccountHandler) Export(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAccounts(r.Context())
	if err != nil {
		writeDomainError(w, "failed to list accounts", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="accounts.csv"`)
	w.WriteHeader(http.StatusOK)
	_ = chart.Write(w, accounts)
}

// Statement returns the account statement, optionally for one year.
// Accounts missing from the chart still get a statement of their postings.
func (h *AccountHandler) Statement(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	filter, err := parseYearQuery(r)
	if err != nil {
		writeDomainError(w, "invalid query", err)
		return
	}

	statement, err := h.statementUC.GetAccountStatement(r.Context(), number, filter)
	if err != nil {
		writeDomainError(w, "failed to build statement", err)
		return
	}

	var name string
	if account, err := h.accountUC.GetAccount(r.Context(), number); err == nil {
		name = account.Name
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(statement, name))
}
