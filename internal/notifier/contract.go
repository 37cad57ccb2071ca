package notifier

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// Event тип события жизненного цикла бронирования
type Event string

const (
	EventBookingConfirmed Event = "booking_confirmed"
	EventBookingCancelled Event = "booking_cancelled"
	EventBookingExpired   Event = "booking_expired"
	EventBookingCompleted Event = "booking_completed"
	EventBookingNoShow    Event = "booking_no_show"
)

// Notification уведомление клиенту об изменении бронирования
type Notification struct {
	Event       Event
	Booking     *domain.Booking
	Phone       string
	DisplayName string
}

// Notifier отправляет уведомления клиентам.
// Доставка best-effort: ошибки логируются и не влияют на результат операции.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
