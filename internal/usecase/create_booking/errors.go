package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrBarberNotFound возвращается, когда мастер не найден в пределах tenant
	ErrBarberNotFound = errors.New("create_booking: barber not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceInactive возвращается, когда услуга деактивирована
	ErrServiceInactive = errors.New("create_booking: service is inactive")

	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("create_booking: customer not found")

	// ErrCustomerBlocked возвращается, когда клиент в чёрном списке
	ErrCustomerBlocked = errors.New("create_booking: customer is blacklisted")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrOutsideWorkingHours возвращается, когда слот не помещается в рабочее окно мастера
	ErrOutsideWorkingHours = errors.New("create_booking: slot is outside working hours")

	// ErrOverlapsBreak возвращается, когда слот пересекается с перерывом мастера
	ErrOverlapsBreak = errors.New("create_booking: slot overlaps a break")

	// ErrSlotConflict возвращается, когда слот уже занят другим бронированием
	ErrSlotConflict = errors.New("create_booking: slot is already taken")

	// ErrAmountTooSmall возвращается, когда сумма депозита ниже минимума процессора
	ErrAmountTooSmall = errors.New("create_booking: deposit amount is below processor minimum")

	// ErrPaymentGateway возвращается при недоступности платёжного процессора
	ErrPaymentGateway = errors.New("create_booking: payment gateway error")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
