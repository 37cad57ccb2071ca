package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.BarberID <= 0 {
		return fmt.Errorf("%w: barberID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	// Слоты квантованы: время начала кратно шагу сетки
	minutes, err := req.StartTime.MinutesFromMidnight()
	if err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	if minutes%domain.SlotStepMinutes != 0 {
		return fmt.Errorf("%w: startTime must be aligned to %d minutes", ErrInvalidInput, domain.SlotStepMinutes)
	}

	if req.PaymentMethod != domain.PaymentMethodOnline && req.PaymentMethod != domain.PaymentMethodInShop {
		return fmt.Errorf("%w: paymentMethod must be %q or %q", ErrInvalidInput, domain.PaymentMethodOnline, domain.PaymentMethodInShop)
	}

	return nil
}

// validateDate проверяет, что дата бронирования не в прошлом
func validateDate(bookingDate, now time.Time) error {
	dateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, bookingDate.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	return nil
}

// validateSlotInWindow проверяет, что интервал [start, end) целиком помещается
// в рабочее окно мастера
func validateSlotInWindow(start, end types.TimeString, window *domain.AvailabilityWindow) error {
	if start.IsBefore(window.StartTime) {
		return ErrOutsideWorkingHours
	}
	if end.IsAfter(window.EndTime) {
		return ErrOutsideWorkingHours
	}
	return nil
}

// validateSlotAgainstBreaks проверяет, что интервал не пересекается с перерывами.
// Пересечение по строгим неравенствам: слот, примыкающий к перерыву, допустим.
func validateSlotAgainstBreaks(start, end types.TimeString, breaks []*domain.Break) error {
	for _, br := range breaks {
		if br.StartTime.IsBefore(end) && start.IsBefore(br.EndTime) {
			return ErrOverlapsBreak
		}
	}
	return nil
}

// findOverlappingBooking ищет активное бронирование, пересекающееся со слотом.
// Строгие неравенства: примыкающие интервалы не конфликтуют.
func findOverlappingBooking(
	start, end types.TimeString,
	bookings []*domain.Booking,
) *domain.Booking {
	for _, booking := range bookings {
		if !booking.BlocksSlot() {
			continue
		}

		bookingEnd, err := booking.EndTime()
		if err != nil {
			// Если не можем вычислить конец бронирования, пропускаем
			continue
		}

		if booking.StartTime.IsBefore(end) && start.IsBefore(bookingEnd) {
			return booking
		}
	}

	return nil
}

// computeDeposit вычисляет размер депозита в минорных единицах.
// Округление half-up: половина копейки округляется вверх.
func computeDeposit(priceMinor int64, depositPercent int) int64 {
	return (priceMinor*int64(depositPercent) + 50) / 100
}
