package handler

import (
	"context"
	"net/http"

	"github.com/accountpro/bookkeeper/internal/adapter/http/dto"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
	TrialBalance(ctx context.Context) (*usecase.TrialBalance, error)
}

// LedgerHandler handles ledger-wide reports.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// CheckConsistency verifies that the ledger balances.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeDomainError(w, "failed to check ledger consistency", err)
		return
	}

	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.ConsistencyFromUseCase(report))
}

// TrialBalance returns debit and credit totals per account.
func (h *LedgerHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	tb, err := h.ledgerUC.TrialBalance(r.Context())
	if err != nil {
		writeDomainError(w, "failed to build trial balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromUseCase(tb))
}
