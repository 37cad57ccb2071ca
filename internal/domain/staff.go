package domain

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Barber represents a staff member who can be booked
type Barber struct {
	ID          int64
	TenantID    int64
	DisplayName string
	Active      bool // Неактивный барбер скрыт для новых бронирований, старые остаются в силе
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AvailabilityWindow is a recurring weekly working window of a barber.
// At most one window per weekday; windows of one barber never overlap.
type AvailabilityWindow struct {
	ID        int64
	TenantID  int64
	BarberID  int64
	Weekday   time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Break is an ad-hoc time-of-day interval excluded from a barber's availability.
// Breaks are not date-specific: they apply to every working day.
type Break struct {
	ID        int64
	TenantID  int64
	BarberID  int64
	StartTime types.TimeString
	EndTime   types.TimeString
}
