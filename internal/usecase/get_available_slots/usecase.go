package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/catalog"
	staffRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/staff"
)

// UseCase use case для получения доступных слотов мастера
type UseCase struct {
	bookingRepo  BookingRepository
	staffRepo    StaffRepository
	catalogRepo  CatalogRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	staffRepo StaffRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		staffRepo:    staffRepo,
		catalogRepo:  catalogRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Чтение без блокировок: результат — совет клиенту, истинная проверка
// конфликтов происходит при создании бронирования.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: tenant=%d, barber=%d, service=%d, date=%s",
		req.TenantID, req.BarberID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем мастера
	barber, err := uc.staffRepo.GetByID(ctx, req.TenantID, req.BarberID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrBarberNotFound) {
			uc.logger.Warn("GetAvailableSlots: barber id=%d not found in tenant=%d", req.BarberID, req.TenantID)
			return nil, ErrBarberNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get barber id=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: failed to get barber: %v", ErrInternal, err)
	}

	if !barber.Active {
		uc.logger.Warn("GetAvailableSlots: barber id=%d is inactive", req.BarberID)
		return nil, ErrBarberNotFound
	}

	// 4. Получаем услугу (длительность определяет размер слота)
	service, err := uc.catalogRepo.GetByID(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found in tenant=%d", req.ServiceID, req.TenantID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// Деактивированная услуга не бронируется
	if !service.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 5. Рабочее окно мастера на этот день недели
	window, err := uc.staffRepo.GetWindowForWeekday(ctx, req.TenantID, req.BarberID, req.Date.Weekday())
	if err != nil {
		if errors.Is(err, staffRepo.ErrWindowNotFound) {
			// Выходной день мастера — пустой список, не ошибка
			uc.logger.Info("GetAvailableSlots: barber id=%d does not work on %s", req.BarberID, req.Date.Weekday())
			return &Response{
				BarberID:  req.BarberID,
				ServiceID: req.ServiceID,
				Date:      req.Date,
				Slots:     []Slot{},
			}, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get availability window: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability window: %v", ErrInternal, err)
	}

	// 6. Генерируем кандидатов
	candidates, err := generateCandidateSlots(window, service.DurationMinutes, req.Date, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	// 7. Перерывы мастера
	breaks, err := uc.staffRepo.ListBreaks(ctx, req.TenantID, req.BarberID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list breaks: %v", err)
		return nil, fmt.Errorf("%w: failed to list breaks: %v", ErrInternal, err)
	}

	// 8. Занятые интервалы дня (без FOR UPDATE — обычное чтение)
	bookings, err := uc.bookingRepo.GetScheduleForDay(ctx, domain.BarberScheduleFilter{
		TenantID: req.TenantID,
		BarberID: req.BarberID,
		Date:     req.Date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	// 9. Фильтруем занятое
	slots := filterOccupiedSlots(candidates, service.DurationMinutes, breaks, bookings)

	uc.logger.Info("GetAvailableSlots: %d slots available for barber=%d on %s",
		len(slots), req.BarberID, req.Date.Format(domain.DateFormat))

	return &Response{
		BarberID:  req.BarberID,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Slots:     slots,
	}, nil
}
