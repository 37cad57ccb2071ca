package models

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// BookingResponse представление бронирования для внешних слоёв
type BookingResponse struct {
	ID              int64
	TenantID        int64
	CustomerID      int64
	BarberID        int64
	ServiceID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          string
	PaymentStatus   string

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

// ScheduleResponse список бронирований мастера на день
type ScheduleResponse struct {
	BarberID int64
	Date     time.Time
	Bookings []*BookingResponse
}

// FromDomainBooking конвертирует domain.Booking в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                 b.ID,
		TenantID:           b.TenantID,
		CustomerID:         b.CustomerID,
		BarberID:           b.BarberID,
		ServiceID:          b.ServiceID,
		BookingDate:        b.BookingDate,
		StartTime:          b.StartTime,
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		ServiceName:        b.ServiceName,
		PriceMinor:         b.PriceMinor,
		DepositMinor:       b.DepositMinor,
		OutstandingMinor:   b.OutstandingMinor,
		ExpiresAt:          b.ExpiresAt,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список бронирований
func FromDomainBookingList(bookings []*domain.Booking) []*BookingResponse {
	out := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = FromDomainBooking(b)
	}
	return out
}
