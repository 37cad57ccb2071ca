package handlers

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings/models"
)

// BookingView HTTP представление бронирования, общее для всех операций
// жизненного цикла
type BookingView struct {
	ID              int64  `json:"id"`
	CustomerID      int64  `json:"customerId"`
	BarberID        int64  `json:"barberId"`
	ServiceID       int64  `json:"serviceId"`
	BookingDate     string `json:"bookingDate"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
	PaymentStatus   string `json:"paymentStatus"`

	ServiceName      string `json:"serviceName"`
	PriceMinor       int64  `json:"priceMinor"`
	DepositMinor     int64  `json:"depositMinor"`
	OutstandingMinor int64  `json:"outstandingMinor"`

	ExpiresAt          *string `json:"expiresAt,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToBookingView конвертирует модель сервиса в HTTP представление
func ToBookingView(b *models.BookingResponse) *BookingView {
	out := &BookingView{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		BarberID:           b.BarberID,
		ServiceID:          b.ServiceID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		DurationMinutes:    b.DurationMinutes,
		Status:             b.Status,
		PaymentStatus:      b.PaymentStatus,
		ServiceName:        b.ServiceName,
		PriceMinor:         b.PriceMinor,
		DepositMinor:       b.DepositMinor,
		OutstandingMinor:   b.OutstandingMinor,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}

	if b.ExpiresAt != nil {
		v := b.ExpiresAt.Format(time.RFC3339)
		out.ExpiresAt = &v
	}
	if b.CancelledAt != nil {
		v := b.CancelledAt.Format(time.RFC3339)
		out.CancelledAt = &v
	}

	return out
}
