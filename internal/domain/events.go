package domain

import (
	"encoding/json"
	"time"
)

// Event types
const (
	EventTypeVoucherCreated        = "voucher.created"
	EventTypeVoucherDeleted        = "voucher.deleted"
	EventTypeVoucherReversed       = "voucher.reversed"
	EventTypeAccountCreated        = "account.created"
	EventTypeCompanyProfileUpdated = "company_profile.updated"
)

// Aggregate types
const (
	AggregateTypeVoucher = "voucher"
	AggregateTypeAccount = "account"
	AggregateTypeCompany = "company"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// VoucherCreatedEvent payload
type VoucherCreatedEvent struct {
	VoucherID     string `json:"voucher_id"`
	VoucherNumber int64  `json:"voucher_number"`
	Date          string `json:"date"`
	TotalAmount   string `json:"total_amount"`
	LineCount     int    `json:"line_count"`
}

// VoucherDeletedEvent payload
type VoucherDeletedEvent struct {
	VoucherID     string `json:"voucher_id"`
	VoucherNumber int64  `json:"voucher_number"`
}

// VoucherReversedEvent payload
type VoucherReversedEvent struct {
	ReversalVoucherID string `json:"reversal_voucher_id"`
	OriginalVoucherID string `json:"original_voucher_id"`
	ReversalNumber    int64  `json:"reversal_number"`
	OriginalNumber    int64  `json:"original_number"`
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Class  string `json:"class"`
}

// NewOutboxEvent builds an unpublished event from a typed payload.
func NewOutboxEvent(id, aggregateType, aggregateID, eventType string, payload any, at time.Time) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       MarshalState(payload),
		CreatedAt:     at,
	}
}

// MarshalState converts a typed payload into the generic map stored in the outbox.
func MarshalState(v any) map[string]any {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"error": "failed to marshal state"}
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return map[string]any{"error": "failed to unmarshal state"}
	}

	return result
}
