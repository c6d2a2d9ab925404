package domain

import (
	"strings"
	"time"
)

// CompanyProfile holds the company details printed on reports.
type CompanyProfile struct {
	UpdatedAt          time.Time
	CompanyName        string
	OrganizationNumber string
	Address            string
	PostalCode         string
	City               string
	Country            string
	VATNumber          string
	FiscalYearStart    string // MM-DD
	FiscalYearEnd      string // MM-DD
}

// DefaultCompanyProfile is returned before anything has been saved.
func DefaultCompanyProfile() CompanyProfile {
	return CompanyProfile{
		Country:         "Sweden",
		FiscalYearStart: "01-01",
		FiscalYearEnd:   "12-31",
	}
}

// Normalize trims whitespace and fills empty fiscal year bounds and country
// with the defaults.
func (p *CompanyProfile) Normalize() {
	p.CompanyName = strings.TrimSpace(p.CompanyName)
	p.OrganizationNumber = strings.TrimSpace(p.OrganizationNumber)
	p.Address = strings.TrimSpace(p.Address)
	p.PostalCode = strings.TrimSpace(p.PostalCode)
	p.City = strings.TrimSpace(p.City)
	p.Country = strings.TrimSpace(p.Country)
	p.VATNumber = strings.ToUpper(strings.ReplaceAll(p.VATNumber, " ", ""))
	p.FiscalYearStart = strings.TrimSpace(p.FiscalYearStart)
	p.FiscalYearEnd = strings.TrimSpace(p.FiscalYearEnd)

	defaults := DefaultCompanyProfile()
	if p.Country == "" {
		p.Country = defaults.Country
	}
	if p.FiscalYearStart == "" {
		p.FiscalYearStart = defaults.FiscalYearStart
	}
	if p.FiscalYearEnd == "" {
		p.FiscalYearEnd = defaults.FiscalYearEnd
	}
}

// Validate checks the formatted fields.
func (p *CompanyProfile) Validate() error {
	if err := ValidateOrganizationNumber(p.OrganizationNumber); err != nil {
		return err
	}
	if err := ValidateVATNumber(p.VATNumber); err != nil {
		return err
	}
	if err := ValidateMonthDay(p.FiscalYearStart); err != nil {
		return err
	}
	return ValidateMonthDay(p.FiscalYearEnd)
}
