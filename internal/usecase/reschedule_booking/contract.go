package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, tenantID, bookingID int64) (*domain.Booking, error)
	LockSchedule(ctx context.Context, tenantID, barberID int64, date time.Time) error
	GetScheduleForDay(ctx context.Context, filter domain.BarberScheduleFilter) ([]*domain.Booking, error)
	Reschedule(ctx context.Context, bookingID int64, date time.Time, startTime types.TimeString) error
}

// StaffRepository интерфейс репозитория мастеров
type StaffRepository interface {
	GetWindowForWeekday(ctx context.Context, tenantID, barberID int64, weekday time.Weekday) (*domain.AvailabilityWindow, error)
	ListBreaks(ctx context.Context, tenantID, barberID int64) ([]*domain.Break, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
