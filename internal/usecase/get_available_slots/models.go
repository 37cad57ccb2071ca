package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	TenantID  int64     // ID салона (из middleware)
	BarberID  int64     // ID мастера
	ServiceID int64     // ID услуги (определяет длительность слота)
	Date      time.Time // Дата (без времени)
}

// Slot доступный слот для бронирования
type Slot struct {
	StartTime       types.TimeString
	DurationMinutes int
}

// Response модель ответа со списком доступных слотов
type Response struct {
	BarberID  int64
	ServiceID int64
	Date      time.Time
	Slots     []Slot
}
