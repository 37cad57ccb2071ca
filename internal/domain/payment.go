package domain

import "time"

// PaymentState represents the processor-side state of a payment
type PaymentState string

const (
	PaymentPending    PaymentState = "pending"
	PaymentProcessing PaymentState = "processing"
	PaymentSucceeded  PaymentState = "succeeded"
	PaymentFailed     PaymentState = "failed"
	PaymentRefunded   PaymentState = "refunded"
	PaymentPayInShop  PaymentState = "pay_in_shop"
)

// Payment mirrors an external payment-processor intent, one-to-one with a booking.
// Created only when a deposit flow is initiated; never deleted, only updated.
type Payment struct {
	ID        int64
	TenantID  int64
	BookingID int64

	// IntentID идентификатор intent во внешнем платёжном процессоре.
	// Глобально уникален, поэтому webhook ищет платёж без привязки к tenant.
	IntentID string

	AmountMinor int64
	Status      PaymentState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFinal returns true if the payment reached a terminal processor state
func (p *Payment) IsFinal() bool {
	return p.Status == PaymentSucceeded || p.Status == PaymentFailed || p.Status == PaymentRefunded
}
