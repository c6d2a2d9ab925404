package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

// VoucherLineRequest is one line of a voucher request. Amounts are decimal
// strings; an empty amount is zero.
type VoucherLineRequest struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name,omitempty"`
	Debit         string `json:"debit,omitempty"`
	Credit        string `json:"credit,omitempty"`
}

// ToDomain parses the amounts of the line.
func (r VoucherLineRequest) ToDomain() (domain.VoucherLine, error) {
	debit, err := ParseAmount(r.Debit)
	if err != nil {
		return domain.VoucherLine{}, fmt.Errorf("debit on account %s: %w", r.AccountNumber, err)
	}

	credit, err := ParseAmount(r.Credit)
	if err != nil {
		return domain.VoucherLine{}, fmt.Errorf("credit on account %s: %w", r.AccountNumber, err)
	}

	return domain.VoucherLine{
		AccountNumber: strings.TrimSpace(r.AccountNumber),
		AccountName:   strings.TrimSpace(r.AccountName),
		Debit:         debit,
		Credit:        credit,
	}, nil
}

// LinesToDomain parses every line.
func LinesToDomain(lines []VoucherLineRequest) ([]domain.VoucherLine, error) {
	result := make([]domain.VoucherLine, len(lines))
	for i, l := range lines {
		line, err := l.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		result[i] = line
	}
	return result, nil
}

// CreateVoucherRequest represents a request to create a voucher.
type CreateVoucherRequest struct {
	Date        string               `json:"date"`
	Description string               `json:"description"`
	Lines       []VoucherLineRequest `json:"lines"`
}

// ToUseCaseInput converts to use case input. A missing date is left zero so
// that validation reports it in order with the other rules.
func (r *CreateVoucherRequest) ToUseCaseInput() (usecase.CreateVoucherInput, error) {
	lines, err := LinesToDomain(r.Lines)
	if err != nil {
		return usecase.CreateVoucherInput{}, err
	}

	var date time.Time
	if strings.TrimSpace(r.Date) != "" {
		date, err = domain.ParseDate(r.Date)
		if err != nil {
			return usecase.CreateVoucherInput{}, err
		}
	}

	return usecase.CreateVoucherInput{
		Date:        date,
		Description: r.Description,
		Lines:       lines,
	}, nil
}

// ValidateVoucherRequest asks for a balance check of lines.
type ValidateVoucherRequest struct {
	Lines []VoucherLineRequest `json:"lines"`
}

// BalanceResponse is the result of a balance check.
type BalanceResponse struct {
	TotalDebit  string `json:"total_debit"`
	TotalCredit string `json:"total_credit"`
	Difference  string `json:"difference"`
	IsValid     bool   `json:"is_valid"`
}

// BalanceFromDomain converts a balance result to response.
func BalanceFromDomain(b domain.BalanceResult) *BalanceResponse {
	return &BalanceResponse{
		TotalDebit:  FormatAmount(b.TotalDebit),
		TotalCredit: FormatAmount(b.TotalCredit),
		Difference:  FormatAmount(b.Difference),
		IsValid:     b.IsValid,
	}
}

// VoucherLineResponse represents a voucher line in API responses.
type VoucherLineResponse struct {
	ID            string `json:"id"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	Debit         string `json:"debit"`
	Credit        string `json:"credit"`
}

// VoucherResponse represents a voucher in API responses.
type VoucherResponse struct {
	ID            string                 `json:"id"`
	VoucherNumber int64                  `json:"voucher_number"`
	Date          string                 `json:"date"`
	Description   string                 `json:"description"`
	ReversesID    *string                `json:"reverses_id,omitempty"`
	Lines         []*VoucherLineResponse `json:"lines"`
	TotalDebit    string                 `json:"total_debit"`
	TotalCredit   string                 `json:"total_credit"`
	CreatedAt     time.Time              `json:"created_at"`
}

// VoucherFromDomain converts domain voucher to response.
func VoucherFromDomain(v *domain.Voucher) *VoucherResponse {
	lines := make([]*VoucherLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = &VoucherLineResponse{
			ID:            l.ID,
			AccountNumber: l.AccountNumber,
			AccountName:   l.AccountName,
			Debit:         FormatAmount(l.Debit),
			Credit:        FormatAmount(l.Credit),
		}
	}

	debit, credit := v.Totals()

	return &VoucherResponse{
		ID:            v.ID,
		VoucherNumber: v.VoucherNumber,
		Date:          v.Date.Format(domain.DateLayout),
		Description:   v.Description,
		ReversesID:    v.ReversesID,
		Lines:         lines,
		TotalDebit:    FormatAmount(debit),
		TotalCredit:   FormatAmount(credit),
		CreatedAt:     v.CreatedAt,
	}
}

// VouchersFromDomain converts domain vouchers to responses.
func VouchersFromDomain(vouchers []*domain.Voucher) []*VoucherResponse {
	result := make([]*VoucherResponse, len(vouchers))
	for i, v := range vouchers {
		result[i] = VoucherFromDomain(v)
	}
	return result
}

// CreateVoucherResponse wraps a created voucher with non-fatal warnings.
type CreateVoucherResponse struct {
	*VoucherResponse
	Warnings []string `json:"warnings,omitempty"`
}

// ListVouchersResponse represents a list of vouchers.
type ListVouchersResponse struct {
	Vouchers []*VoucherResponse `json:"vouchers"`
	Total    int                `json:"total"`
}

// NextNumberResponse holds the number the next voucher would get.
type NextNumberResponse struct {
	NextNumber int64 `json:"next_number"`
}
