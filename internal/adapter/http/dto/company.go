package dto

import (
	"time"

	"github.com/accountpro/bookkeeper/internal/domain"
)

// CompanyProfileRequest replaces the company profile.
type CompanyProfileRequest struct {
	CompanyName        string `json:"company_name"`
	OrganizationNumber string `json:"organization_number"`
	Address            string `json:"address"`
	PostalCode         string `json:"postal_code"`
	City               string `json:"city"`
	Country            string `json:"country"`
	VATNumber          string `json:"vat_number"`
	FiscalYearStart    string `json:"fiscal_year_start"`
	FiscalYearEnd      string `json:"fiscal_year_end"`
}

// ToDomain converts the request to a profile.
func (r *CompanyProfileRequest) ToDomain() domain.CompanyProfile {
	return domain.CompanyProfile{
		CompanyName:        r.CompanyName,
		OrganizationNumber: r.OrganizationNumber,
		Address:            r.Address,
		PostalCode:         r.PostalCode,
		City:               r.City,
		Country:            r.Country,
		VATNumber:          r.VATNumber,
		FiscalYearStart:    r.FiscalYearStart,
		FiscalYearEnd:      r.FiscalYearEnd,
	}
}

// CompanyProfileResponse represents the company profile.
type CompanyProfileResponse struct {
	CompanyProfileRequest
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CompanyProfileFromDomain converts a profile to response.
func CompanyProfileFromDomain(p *domain.CompanyProfile) *CompanyProfileResponse {
	resp := &CompanyProfileResponse{
		CompanyProfileRequest: CompanyProfileRequest{
			CompanyName:        p.CompanyName,
			OrganizationNumber: p.OrganizationNumber,
			Address:            p.Address,
			PostalCode:         p.PostalCode,
			City:               p.City,
			Country:            p.Country,
			VATNumber:          p.VATNumber,
			FiscalYearStart:    p.FiscalYearStart,
			FiscalYearEnd:      p.FiscalYearEnd,
		},
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}
