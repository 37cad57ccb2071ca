package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Request модель запроса на перенос бронирования
type Request struct {
	TenantID  int64            // ID салона (из middleware)
	BookingID int64            // ID бронирования
	Date      time.Time        // Новая дата
	StartTime types.TimeString // Новое время начала
}

// Response модель ответа с перенесённым бронированием
type Response struct {
	ID              int64
	BarberID        int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          string
	PaymentStatus   string
}
