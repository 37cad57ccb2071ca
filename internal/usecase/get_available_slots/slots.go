package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// generateCandidateSlots генерирует кандидатов начала слота внутри рабочего окна.
// Кандидаты идут с шагом сетки (не с шагом длительности услуги): услуга на 45 минут
// может начинаться в 10:00, 10:15, 10:30 и так далее.
// Слот-кандидат должен целиком помещаться в окно: [start, start+duration) ⊆ [open, close).
func generateCandidateSlots(
	window *domain.AvailabilityWindow,
	durationMinutes int,
	requestDate time.Time,
	now time.Time,
) ([]types.TimeString, error) {
	if isDateInPast(requestDate, now) {
		return []types.TimeString{}, nil
	}

	allSlots := make([]types.TimeString, 0)
	currentSlot := window.StartTime

	for currentSlot.IsBefore(window.EndTime) {
		slotEnd, err := currentSlot.AddMinutes(durationMinutes)
		if err != nil {
			break
		}
		if slotEnd.IsAfter(window.EndTime) {
			break
		}

		allSlots = append(allSlots, currentSlot)

		currentSlot, err = currentSlot.AddMinutes(domain.SlotStepMinutes)
		if err != nil {
			break
		}
	}

	// Для сегодняшней даты прошедшие слоты не предлагаются
	if !isSameDay(requestDate, now) {
		return allSlots, nil
	}

	currentTime := types.NewTimeString(now)

	availableSlots := make([]types.TimeString, 0)
	for _, slot := range allSlots {
		if !slot.IsBefore(currentTime) {
			availableSlots = append(availableSlots, slot)
		}
	}

	return availableSlots, nil
}

// filterOccupiedSlots убирает кандидатов, пересекающихся с перерывами или активными
// бронированиями. Пересечение по строгим неравенствам: примыкающие интервалы
// не конфликтуют (бронирование 11:00-11:30 не блокирует слот 11:30).
func filterOccupiedSlots(
	candidates []types.TimeString,
	durationMinutes int,
	breaks []*domain.Break,
	bookings []*domain.Booking,
) []Slot {
	result := make([]Slot, 0, len(candidates))

	for _, slotStart := range candidates {
		slotEnd, err := slotStart.AddMinutes(durationMinutes)
		if err != nil {
			continue
		}

		if overlapsBreak(slotStart, slotEnd, breaks) {
			continue
		}

		if overlapsBooking(slotStart, slotEnd, bookings) {
			continue
		}

		result = append(result, Slot{
			StartTime:       slotStart,
			DurationMinutes: durationMinutes,
		})
	}

	return result
}

// overlapsBreak проверяет пересечение интервала с перерывами мастера
func overlapsBreak(start, end types.TimeString, breaks []*domain.Break) bool {
	for _, br := range breaks {
		if br.StartTime.IsBefore(end) && start.IsBefore(br.EndTime) {
			return true
		}
	}
	return false
}

// overlapsBooking проверяет пересечение интервала с активными бронированиями.
// Отменённые бронирования слот не занимают, completed и no_show — занимают:
// их интервал остаётся историческим фактом дня.
func overlapsBooking(start, end types.TimeString, bookings []*domain.Booking) bool {
	for _, booking := range bookings {
		if !booking.BlocksSlot() {
			continue
		}

		bookingEnd, err := booking.EndTime()
		if err != nil {
			continue
		}

		if booking.StartTime.IsBefore(end) && start.IsBefore(bookingEnd) {
			return true
		}
	}
	return false
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
