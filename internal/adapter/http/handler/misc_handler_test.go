package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/accountpro/bookkeeper/internal/adapter/http/dto"
	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/infrastructure/scripts"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

func TestCompanyHandler(t *testing.T) {
	profile := domain.DefaultCompanyProfile()
	stub := &companyServiceStub{profile: &profile}
	h := NewCompanyHandler(stub)

	rec := serve(h.Get, httptest.NewRequest(http.MethodGet, "/company", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"fiscal_year_start":"01-01"`) {
		t.Fatalf("unexpected get response %d %s", rec.Code, rec.Body.String())
	}

	body := `{"company_name":"Acme AB","organization_number":"556677-8899"}`
	rec = serve(h.Update, httptest.NewRequest(http.MethodPut, "/company", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.CompanyProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.CompanyName != "Acme AB" {
		t.Fatalf("unexpected profile %+v", resp)
	}

	stub.updateErr = domain.ErrInvalidCompanyProfile
	rec = serve(h.Update, httptest.NewRequest(http.MethodPut, "/company", strings.NewReader(`{"vat_number":"123"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	tests := []struct {
		name       string
		consistent bool
		status     int
	}{
		{"consistent", true, http.StatusOK},
		{"inconsistent", false, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLedgerHandler(&ledgerServiceStub{report: &usecase.ConsistencyReport{Consistent: tt.consistent}})

			rec := serve(h.CheckConsistency, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"imbalanced_vouchers":[]`) {
				t.Fatalf("expected empty imbalanced list, got %s", rec.Body.String())
			}
		})
	}
}

func TestLedgerHandler_TrialBalance(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{tb: &usecase.TrialBalance{
		Rows: []usecase.TrialBalanceRow{
			{AccountNumber: "1930", Debit: decimal.NewFromInt(1000), Credit: decimal.Zero, Balance: decimal.NewFromInt(1000)},
		},
		TotalDebit:  decimal.NewFromInt(1000),
		TotalCredit: decimal.NewFromInt(1000),
	}})

	rec := serve(h.TrialBalance, httptest.NewRequest(http.MethodGet, "/ledger/trial-balance", nil))

	var resp dto.TrialBalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Rows) != 1 || resp.Rows[0].Balance != "1000.00" || resp.TotalCredit != "1000.00" {
		t.Fatalf("unexpected trial balance %+v", resp)
	}
}

func TestScriptHandler(t *testing.T) {
	runner := &scriptRunnerStub{result: &scripts.Result{Success: true, Message: "done"}}
	h := NewScriptHandler(runner)

	req := withURLParams(httptest.NewRequest(http.MethodPost, "/scripts/annual-report", nil), map[string]string{"action": "annual-report"})
	rec := serve(h.Run, req)
	if rec.Code != http.StatusOK || runner.called != scripts.ActionAnnualReport {
		t.Fatalf("expected 200 running annual-report, got %d %q", rec.Code, runner.called)
	}

	runner.result = &scripts.Result{Success: false, Message: "Unable to reach the script service."}
	req = withURLParams(httptest.NewRequest(http.MethodPost, "/scripts/declaration", nil), map[string]string{"action": "declaration"})
	rec = serve(h.Run, req)
	if rec.Code != http.StatusBadGateway || !strings.Contains(rec.Body.String(), "Unable to reach") {
		t.Fatalf("expected 502 with message, got %d %s", rec.Code, rec.Body.String())
	}

	req = withURLParams(httptest.NewRequest(http.MethodPost, "/scripts/payroll", nil), map[string]string{"action": "payroll"})
	if rec = serve(h.Run, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown action, got %d", rec.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(map[string]Checker{
		"postgres": func(ctx context.Context) error { return nil },
	})

	if rec := serve(h.Liveness, httptest.NewRequest(http.MethodGet, "/health", nil)); rec.Code != http.StatusOK {
		t.Fatalf("expected liveness 200, got %d", rec.Code)
	}

	rec := serve(h.Readiness, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"postgres":"ok"`) {
		t.Fatalf("expected ready, got %d %s", rec.Code, rec.Body.String())
	}

	h = NewHealthHandler(map[string]Checker{
		"redis": func(ctx context.Context) error { return errors.New("connection refused") },
	})
	rec = serve(h.Readiness, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
