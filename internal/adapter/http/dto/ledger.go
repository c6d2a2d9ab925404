package dto

import (
	"time"

	"github.com/accountpro/bookkeeper/internal/usecase"
)

// ConsistencyResponse is the result of a ledger consistency check.
type ConsistencyResponse struct {
	Consistent         bool      `json:"consistent"`
	TotalDebit         string    `json:"total_debit"`
	TotalCredit        string    `json:"total_credit"`
	Difference         string    `json:"difference"`
	VoucherCount       int       `json:"voucher_count"`
	ImbalancedVouchers []int64   `json:"imbalanced_vouchers"`
	CheckedAt          time.Time `json:"checked_at"`
}

// ConsistencyFromUseCase converts a consistency report to response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport) *ConsistencyResponse {
	imbalanced := r.ImbalancedVouchers
	if imbalanced == nil {
		imbalanced = []int64{}
	}
	return &ConsistencyResponse{
		Consistent:         r.Consistent,
		TotalDebit:         FormatAmount(r.TotalDebit),
		TotalCredit:        FormatAmount(r.TotalCredit),
		Difference:         FormatAmount(r.Difference),
		VoucherCount:       r.VoucherCount,
		ImbalancedVouchers: imbalanced,
		CheckedAt:          r.CheckedAt,
	}
}

// TrialBalanceRowResponse is one account row of the trial balance.
type TrialBalanceRowResponse struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	Class         string `json:"class,omitempty"`
	Debit         string `json:"debit"`
	Credit        string `json:"credit"`
	Balance       string `json:"balance"`
}

// TrialBalanceResponse represents the trial balance.
type TrialBalanceResponse struct {
	Rows        []*TrialBalanceRowResponse `json:"rows"`
	TotalDebit  string                     `json:"total_debit"`
	TotalCredit string                     `json:"total_credit"`
}

// TrialBalanceFromUseCase converts a trial balance to response.
func TrialBalanceFromUseCase(tb *usecase.TrialBalance) *TrialBalanceResponse {
	rows := make([]*TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = &TrialBalanceRowResponse{
			AccountNumber: r.AccountNumber,
			AccountName:   r.AccountName,
			Class:         string(r.Class),
			Debit:         FormatAmount(r.Debit),
			Credit:        FormatAmount(r.Credit),
			Balance:       FormatAmount(r.Balance),
		}
	}
	return &TrialBalanceResponse{
		Rows:        rows,
		TotalDebit:  FormatAmount(tb.TotalDebit),
		TotalCredit: FormatAmount(tb.TotalCredit),
	}
}
