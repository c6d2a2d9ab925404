package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/accountpro/bookkeeper/internal/adapter/http/dto"
	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/infrastructure/scripts"
)

// errInvalidYear is returned for a year query parameter that is not a number.
var errInvalidYear = errors.New("year must be a four digit number")

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status mapDomainError picks.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, mapDomainError(err), message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrVoucherNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrImbalancedVoucher),
		errors.Is(err, domain.ErrInsufficientLines),
		errors.Is(err, domain.ErrEmptyDescription),
		errors.Is(err, domain.ErrMissingDate),
		errors.Is(err, domain.ErrInvalidLine),
		errors.Is(err, domain.ErrInvalidAccountNumber),
		errors.Is(err, domain.ErrAccountClassMismatch),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrInvalidCompanyProfile),
		errors.Is(err, dto.ErrInvalidAmount),
		errors.Is(err, scripts.ErrUnknownAction),
		errors.Is(err, errInvalidYear):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseYearQuery reads the optional year filter. Zero means all years.
func parseYearQuery(r *http.Request) (domain.VoucherFilter, error) {
	val := r.URL.Query().Get("year")
	if val == "" {
		return domain.VoucherFilter{}, nil
	}

	year, err := strconv.Atoi(val)
	if err != nil || year < 1000 || year > 9999 {
		return domain.VoucherFilter{}, errInvalidYear
	}

	return domain.VoucherFilter{Year: year}, nil
}

// decodeJSON decodes the request body into v and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}
