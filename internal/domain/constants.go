package domain

// Slot quantization
const (
	// SlotStepMinutes шаг сетки времени начала слотов
	SlotStepMinutes = 15
)

// Default configuration values
const (
	DefaultDepositTTLMinutes = 15 // Сколько pending-бронирование ждёт оплату депозита
	DefaultMinDepositMinor   = 50 // Минимальная сумма, принимаемая платёжным процессором
	MaxCancellationReasonLen = 500
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MinDepositPercent         = 0
	MaxDepositPercent         = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
