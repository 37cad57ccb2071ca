package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	staffRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/staff"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// UseCase use case для переноса бронирования на другую дату/время
type UseCase struct {
	bookingRepo  BookingRepository
	staffRepo    StaffRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	staffRepo StaffRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		staffRepo:    staffRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case переноса бронирования.
// Новый слот проходит ту же проверку конфликтов, что и при создании,
// само переносимое бронирование из проверки исключается.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: tenant=%d, booking=%d, date=%s, time=%s",
		req.TenantID, req.BookingID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("RescheduleBooking: date validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.TenantID, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking id=%d not found in tenant=%d", req.BookingID, req.TenantID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if !booking.CanBeRescheduled() {
		uc.logger.Warn("RescheduleBooking: booking id=%d has status %s", booking.ID, booking.Status)
		return nil, ErrNotReschedulable
	}

	// 3. Предварительная проверка рабочего окна
	end, err := req.StartTime.AddMinutes(booking.DurationMinutes)
	if err != nil {
		uc.logger.Warn("RescheduleBooking: slot does not fit the day: %v", err)
		return nil, ErrOutsideWorkingHours
	}

	window, err := uc.staffRepo.GetWindowForWeekday(ctx, req.TenantID, booking.BarberID, req.Date.Weekday())
	if err != nil {
		if errors.Is(err, staffRepo.ErrWindowNotFound) {
			uc.logger.Warn("RescheduleBooking: barber id=%d does not work on %s", booking.BarberID, req.Date.Weekday())
			return nil, ErrOutsideWorkingHours
		}
		uc.logger.Error("RescheduleBooking: failed to get availability window: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability window: %v", ErrInternal, err)
	}

	if req.StartTime.IsBefore(window.StartTime) || end.IsAfter(window.EndTime) {
		uc.logger.Warn("RescheduleBooking: slot %s-%s outside window %s-%s",
			req.StartTime, end, window.StartTime, window.EndTime)
		return nil, ErrOutsideWorkingHours
	}

	breaks, err := uc.staffRepo.ListBreaks(ctx, req.TenantID, booking.BarberID)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to list breaks: %v", err)
		return nil, fmt.Errorf("%w: failed to list breaks: %v", ErrInternal, err)
	}

	for _, br := range breaks {
		if br.StartTime.IsBefore(end) && req.StartTime.IsBefore(br.EndTime) {
			uc.logger.Warn("RescheduleBooking: slot %s-%s overlaps a break", req.StartTime, end)
			return nil, ErrOverlapsBreak
		}
	}

	// 4. Конфликтная проверка и перенос в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Advisory lock на расписание целевого дня
		if err := uc.bookingRepo.LockSchedule(txCtx, req.TenantID, booking.BarberID, req.Date); err != nil {
			uc.logger.Error("RescheduleBooking: failed to lock schedule: %v", err)
			return fmt.Errorf("%w: failed to lock schedule: %v", ErrInternal, err)
		}

		// 4.2. Занятые интервалы целевого дня с блокировкой строк
		bookings, err := uc.bookingRepo.GetScheduleForDay(txCtx, domain.BarberScheduleFilter{
			TenantID:      req.TenantID,
			BarberID:      booking.BarberID,
			Date:          req.Date,
			ForUpdateLock: true,
		})
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get schedule: %v", err)
			return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
		}

		// 4.3. Пересечения, исключая само переносимое бронирование
		if conflict := findConflict(req.StartTime, end, booking.ID, bookings); conflict != nil {
			uc.logger.Warn("RescheduleBooking: slot %s-%s conflicts with booking id=%d",
				req.StartTime, end, conflict.ID)
			return ErrSlotConflict
		}

		// 4.4. Переносим
		if err := uc.bookingRepo.Reschedule(txCtx, booking.ID, req.Date, req.StartTime); err != nil {
			uc.logger.Error("RescheduleBooking: failed to reschedule booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to reschedule booking: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: booking id=%d moved to %s %s",
		booking.ID, req.Date.Format(domain.DateFormat), req.StartTime)

	return &Response{
		ID:              booking.ID,
		BarberID:        booking.BarberID,
		BookingDate:     req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: booking.DurationMinutes,
		Status:          string(booking.Status),
		PaymentStatus:   string(booking.PaymentStatus),
	}, nil
}

// findConflict ищет активное бронирование, пересекающееся с новым слотом.
// Строгие неравенства: примыкающие интервалы не конфликтуют.
func findConflict(start, end types.TimeString, selfID int64, bookings []*domain.Booking) *domain.Booking {
	for _, b := range bookings {
		if b.ID == selfID {
			continue
		}
		if !b.BlocksSlot() {
			continue
		}

		bookingEnd, err := b.EndTime()
		if err != nil {
			continue
		}

		if b.StartTime.IsBefore(end) && start.IsBefore(bookingEnd) {
			return b
		}
	}

	return nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
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

	minutes, err := req.StartTime.MinutesFromMidnight()
	if err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	if minutes%domain.SlotStepMinutes != 0 {
		return fmt.Errorf("%w: startTime must be aligned to %d minutes", ErrInvalidInput, domain.SlotStepMinutes)
	}

	return nil
}

// validateDate проверяет, что новая дата не в прошлом
func validateDate(bookingDate, now time.Time) error {
	dateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, bookingDate.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	return nil
}
