package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Config настройки депозитов
type Config struct {
	Currency        string // Валюта ISO 4217
	MinDepositMinor int64  // Минимальная сумма депозита, принимаемая процессором
	DepositTTL      time.Duration
}

// Request модель запроса на создание бронирования
type Request struct {
	TenantID   int64            // ID салона (из middleware)
	CustomerID int64            // ID клиента
	BarberID   int64            // ID мастера
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00")

	PaymentMethod domain.PaymentMethod // online | in_shop
}

// Response модель ответа с созданным бронированием
type Response struct {
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

	// Денормализованные данные услуги
	ServiceName      string
	PriceMinor       int64
	DepositMinor     int64
	OutstandingMinor int64

	// Заполняются, когда требуется депозит
	ExpiresAt   *time.Time
	CheckoutURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}
