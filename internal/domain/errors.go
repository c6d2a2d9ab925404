package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountExists        = errors.New("account already exists")
	ErrInvalidAccountNumber = errors.New("invalid account number")
	ErrAccountClassMismatch = errors.New("account class does not match number range")
	ErrInvalidAccountName   = errors.New("invalid account name")

	// Voucher errors
	ErrImbalancedVoucher = errors.New("voucher must be balanced (debit = credit)")
	ErrInsufficientLines = errors.New("voucher must have at least 2 valid lines")
	ErrEmptyDescription  = errors.New("description is required")
	ErrMissingDate       = errors.New("date is required")
	ErrInvalidLine       = errors.New("invalid voucher line")
	ErrVoucherNotFound   = errors.New("voucher not found")

	// Company profile errors
	ErrInvalidCompanyProfile  = errors.New("invalid company profile")
	ErrCompanyProfileNotFound = errors.New("company profile not saved")
)
