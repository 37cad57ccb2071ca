package reschedule_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено в пределах tenant
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrNotReschedulable возвращается, когда бронирование в терминальном статусе
	ErrNotReschedulable = errors.New("reschedule_booking: booking can no longer be rescheduled")

	// ErrInvalidDate возвращается при некорректной новой дате
	ErrInvalidDate = errors.New("reschedule_booking: invalid booking date")

	// ErrOutsideWorkingHours возвращается, когда новый слот вне рабочего окна мастера
	ErrOutsideWorkingHours = errors.New("reschedule_booking: slot is outside working hours")

	// ErrOverlapsBreak возвращается, когда новый слот пересекается с перерывом
	ErrOverlapsBreak = errors.New("reschedule_booking: slot overlaps a break")

	// ErrSlotConflict возвращается, когда новый слот уже занят
	ErrSlotConflict = errors.New("reschedule_booking: slot is already taken")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
