package dto

import (
	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Number      string `json:"number"`
	Name        string `json:"name"`
	Class       string `json:"class,omitempty"`
	Description string `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Number:      r.Number,
		Name:        r.Name,
		Class:       domain.AccountClass(r.Class),
		Description: r.Description,
	}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	Number      string `json:"number"`
	Name        string `json:"name"`
	Class       string `json:"class"`
	ClassName   string `json:"class_name"`
	Description string `json:"description"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		Number:      a.Number,
		Name:        a.Name,
		Class:       string(a.Class),
		ClassName:   a.Class.DisplayName(),
		Description: a.Description,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int                `json:"total"`
}

// StatementEntryResponse is one statement row.
type StatementEntryResponse struct {
	Date          string `json:"date"`
	VoucherNumber int64  `json:"voucher_number"`
	Description   string `json:"description"`
	Debit         string `json:"debit"`
	Credit        string `json:"credit"`
	Balance       string `json:"balance"`
}

// StatementResponse represents an account statement.
type StatementResponse struct {
	AccountNumber string                    `json:"account_number"`
	AccountName   string                    `json:"account_name,omitempty"`
	Entries       []*StatementEntryResponse `json:"entries"`
	TotalDebit    string                    `json:"total_debit"`
	TotalCredit   string                    `json:"total_credit"`
	FinalBalance  string                    `json:"final_balance"`
}

// StatementFromDomain converts a projected statement to response.
func StatementFromDomain(s domain.AccountStatement, accountName string) *StatementResponse {
	entries := make([]*StatementEntryResponse, len(s.Entries))
	for i, e := range s.Entries {
		entries[i] = &StatementEntryResponse{
			Date:          e.Date.Format(domain.DateLayout),
			VoucherNumber: e.VoucherNumber,
			Description:   e.Description,
			Debit:         FormatAmount(e.Debit),
			Credit:        FormatAmount(e.Credit),
			Balance:       FormatAmount(e.Balance),
		}
	}

	return &StatementResponse{
		AccountNumber: s.AccountNumber,
		AccountName:   accountName,
		Entries:       entries,
		TotalDebit:    FormatAmount(s.TotalDebit),
		TotalCredit:   FormatAmount(s.TotalCredit),
		FinalBalance:  FormatAmount(s.FinalBalance),
	}
}
