package domain

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// BookingPaymentStatus represents the payment side of a booking's lifecycle
type BookingPaymentStatus string

const (
	PaymentStatusPending        BookingPaymentStatus = "pending"
	PaymentStatusDepositPending BookingPaymentStatus = "deposit_pending"
	PaymentStatusDepositPaid    BookingPaymentStatus = "deposit_paid"
	PaymentStatusFullyPaid      BookingPaymentStatus = "fully_paid"
	PaymentStatusRefunded       BookingPaymentStatus = "refunded"
	PaymentStatusCancelled      BookingPaymentStatus = "cancelled"
)

// PaymentMethod is how the customer chose to pay for the booking
type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodInShop PaymentMethod = "in_shop"
)

// Booking represents an appointment of a customer with a barber.
//
// Invariants:
//   - for one (tenant, barber, date) no two bookings with status != cancelled
//     have overlapping [start, start+duration) intervals; adjacency is allowed;
//   - ExpiresAt is non-nil iff Status == pending and PaymentStatus == deposit_pending;
//   - bookings are never deleted, cancellation is a terminal status.
type Booking struct {
	ID         int64
	TenantID   int64
	CustomerID int64
	BarberID   int64
	ServiceID  int64

	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int

	Status        BookingStatus
	PaymentStatus BookingPaymentStatus

	// Денормализация для истории: название, цена и депозит фиксируются на момент бронирования
	ServiceName      string
	PriceMinor       int64
	DepositMinor     int64
	OutstandingMinor int64

	ExpiresAt          *time.Time
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndTime returns the computed end of the booking interval
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// BlocksSlot returns true if the booking still occupies its interval.
// Only cancellation releases the slot; completed and no-show bookings
// keep their historical interval occupied.
func (b *Booking) BlocksSlot() bool {
	return b.Status != StatusCancelled
}

// IsTerminal returns true if no further status transitions are possible
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled || b.Status == StatusNoShow
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the booking date/time can still be changed
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// AwaitsDeposit returns true if the booking holds its slot pending an online deposit
func (b *Booking) AwaitsDeposit() bool {
	return b.Status == StatusPending && b.PaymentStatus == PaymentStatusDepositPending
}

// BarberScheduleFilter фильтр бронирований одного барбера на день
type BarberScheduleFilter struct {
	TenantID      int64
	BarberID      int64
	Date          time.Time
	IncludeFreed  bool // Включать ли отменённые бронирования (по умолчанию — нет)
	ForUpdateLock bool // Блокировать прочитанные строки (только внутри транзакции)
}
