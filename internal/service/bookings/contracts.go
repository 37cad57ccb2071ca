package bookings

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/notifier"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Booking, error)
	GetScheduleForDay(ctx context.Context, filter domain.BarberScheduleFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string) error
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.BookingPaymentStatus) error
	MarkPaidInShop(ctx context.Context, id int64) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentState) error
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	GetByID(ctx context.Context, tenantID, customerID int64) (*domain.Customer, error)
	IncrementNoShowCount(ctx context.Context, tenantID, customerID int64) error
}

// TransitionValidator проверяет допустимость перехода статуса бронирования
type TransitionValidator interface {
	Apply(ctx context.Context, current domain.BookingStatus, event domain.Event) (domain.BookingStatus, error)
}

// Notifier отправляет уведомления клиентам
type Notifier interface {
	Notify(ctx context.Context, n notifier.Notification)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
