package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/accountpro/bookkeeper/internal/adapter/http/dto"
	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

// VoucherService defines the behavior needed by VoucherHandler.
type VoucherService interface {
	CreateVoucher(ctx context.Context, input usecase.CreateVoucherInput) (*domain.Voucher, error)
	ReverseVoucher(ctx context.Context, id string) (*domain.Voucher, error)
	DeleteVoucher(ctx context.Context, id string) error
	GetVoucher(ctx context.Context, id string) (*domain.Voucher, error)
	ListVouchers(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error)
	NextVoucherNumber(ctx context.Context) (int64, error)
	ValidateVoucher(lines []domain.VoucherLine) domain.BalanceResult
	UnknownAccounts(ctx context.Context, lines []domain.VoucherLine) ([]string, error)
}

// VoucherHandler handles voucher-related HTTP requests.
type VoucherHandler struct {
	voucherUC VoucherService
}

// NewVoucherHandler creates a new VoucherHandler.
func NewVoucherHandler(voucherUC VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherUC: voucherUC}
}

// Create validates and books a voucher.
func (h *VoucherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateVoucherRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid voucher", err.Error())
		return
	}

	voucher, err := h.voucherUC.CreateVoucher(r.Context(), input)
	if errors.Is(err, domain.ErrImbalancedVoucher) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "failed to create voucher",
			Message: err.Error(),
			Balance: dto.BalanceFromDomain(h.voucherUC.ValidateVoucher(input.Lines)),
		})
		return
	}
	if err != nil {
		writeDomainError(w, "failed to create voucher", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreateVoucherResponse{
		VoucherResponse: dto.VoucherFromDomain(voucher),
		Warnings:        h.warnings(r.Context(), voucher),
	})
}

func (h *VoucherHandler) warnings(ctx context.Context, v *domain.Voucher) []string {
	unknown, err := h.voucherUC.UnknownAccounts(ctx, v.Lines)
	if err != nil {
		return nil
	}

	warnings := make([]string, 0, len(unknown))
	for _, number := range unknown {
		warnings = append(warnings, fmt.Sprintf("account %s is not in the chart of accounts", number))
	}
	return warnings
}

// Validate checks whether lines balance without storing anything.
func (h *VoucherHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req dto.ValidateVoucherRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lines, err := dto.LinesToDomain(req.Lines)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid voucher lines", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(h.voucherUC.ValidateVoucher(lines)))
}

// List lists vouchers ordered by number, optionally for one year.
func (h *VoucherHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseYearQuery(r)
	if err != nil {
		writeDomainError(w, "invalid query", err)
		return
	}

	vouchers, err := h.voucherUC.ListVouchers(r.Context(), filter)
	if err != nil {
		writeDomainError(w, "failed to list vouchers", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListVouchersResponse{
		Vouchers: dto.VouchersFromDomain(vouchers),
		Total:    len(vouchers),
	})
}

// Get retrieves a voucher by ID.
func (h *VoucherHandler) Get(w http.ResponseWriter, r *http.Request) {
	voucher, err := h.voucherUC.GetVoucher(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get voucher", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VoucherFromDomain(voucher))
}

// Delete removes a voucher. Unknown ids succeed.
func (h *VoucherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.voucherUC.DeleteVoucher(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete voucher", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reverse books a voucher that cancels the given one.
func (h *VoucherHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	reversal, err := h.voucherUC.ReverseVoucher(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to reverse voucher", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.VoucherFromDomain(reversal))
}

// NextNumber returns the number the next voucher would get.
func (h *VoucherHandler) NextNumber(w http.ResponseWriter, r *http.Request) {
	n, err := h.voucherUC.NextVoucherNumber(r.Context())
	if err != nil {
		writeDomainError(w, "failed to read voucher sequence", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NextNumberResponse{NextNumber: n})
}
