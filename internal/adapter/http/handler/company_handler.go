package handler

import (
	"context"
	"net/http"

	"github.com/accountpro/bookkeeper/internal/adapter/http/dto"
	"github.com/accountpro/bookkeeper/internal/domain"
)

// CompanyService defines the behavior needed by CompanyHandler.
type CompanyService interface {
	GetProfile(ctx context.Context) (*domain.CompanyProfile, error)
	UpdateProfile(ctx context.Context, profile domain.CompanyProfile) (*domain.CompanyProfile, error)
}

// CompanyHandler handles the company profile.
type CompanyHandler struct {
	companyUC CompanyService
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(companyUC CompanyService) *CompanyHandler {
	return &CompanyHandler{companyUC: companyUC}
}

// Get returns the profile.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.companyUC.GetProfile(r.Context())
	if err != nil {
		writeDomainError(w, "failed to get company profile", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CompanyProfileFromDomain(profile))
}

// Update replaces the profile.
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.CompanyProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.companyUC.UpdateProfile(r.Context(), req.ToDomain())
	if err != nil {
		writeDomainError(w, "failed to update company profile", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CompanyProfileFromDomain(profile))
}
