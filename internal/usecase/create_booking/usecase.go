package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	gatewayClient "github.com/m04kA/SMC-BarberBooking/internal/integrations/paymentgateway"
	catalogRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/catalog"
	customerRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/customer"
	staffRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/staff"
	"github.com/m04kA/SMC-BarberBooking/pkg/ptr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	paymentRepo  PaymentRepository
	staffRepo    StaffRepository
	catalogRepo  CatalogRepository
	customerRepo CustomerRepository
	gateway      PaymentGatewayClient
	txManager    TransactionManager
	timeProvider TimeProvider
	cfg          Config
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	staffRepo StaffRepository,
	catalogRepo CatalogRepository,
	customerRepo CustomerRepository,
	gateway PaymentGatewayClient,
	txManager TransactionManager,
	cfg Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		staffRepo:    staffRepo,
		catalogRepo:  catalogRepo,
		customerRepo: customerRepo,
		gateway:      gateway,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		cfg:          cfg,
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Платёжное намерение создаётся ДО входа в транзакцию: сетевой вызов процессора
// не должен удерживать блокировку расписания. Проигравшее гонку намерение
// истекает на стороне процессора.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: tenant=%d, customer=%d, barber=%d, service=%d, date=%s, time=%s",
		req.TenantID, req.CustomerID, req.BarberID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация даты
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем мастера
	barber, err := uc.staffRepo.GetByID(ctx, req.TenantID, req.BarberID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrBarberNotFound) {
			uc.logger.Warn("CreateBooking: barber id=%d not found in tenant=%d", req.BarberID, req.TenantID)
			return nil, ErrBarberNotFound
		}
		uc.logger.Error("CreateBooking: failed to get barber id=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: failed to get barber: %v", ErrInternal, err)
	}

	// Неактивный мастер не принимает новые бронирования
	if !barber.Active {
		uc.logger.Warn("CreateBooking: barber id=%d is inactive", req.BarberID)
		return nil, ErrBarberNotFound
	}

	// 5. Получаем услугу
	service, err := uc.catalogRepo.GetByID(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found in tenant=%d", req.ServiceID, req.TenantID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.Active {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 6. Получаем клиента и проверяем чёрный список
	customer, err := uc.customerRepo.GetByID(ctx, req.TenantID, req.CustomerID)
	if err != nil {
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			uc.logger.Warn("CreateBooking: customer id=%d not found in tenant=%d", req.CustomerID, req.TenantID)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("CreateBooking: failed to get customer id=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}

	if customer.Blacklisted {
		uc.logger.Warn("CreateBooking: customer id=%d is blacklisted", req.CustomerID)
		return nil, ErrCustomerBlocked
	}

	// 7. Предварительная проверка рабочего окна (без блокировки).
	// Окна и перерывы статичны относительно гонки за слот, поэтому проверяются вне транзакции.
	end, err := req.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: slot does not fit the day: %v", err)
		return nil, ErrOutsideWorkingHours
	}

	window, err := uc.staffRepo.GetWindowForWeekday(ctx, req.TenantID, req.BarberID, req.Date.Weekday())
	if err != nil {
		if errors.Is(err, staffRepo.ErrWindowNotFound) {
			uc.logger.Warn("CreateBooking: barber id=%d does not work on %s", req.BarberID, req.Date.Weekday())
			return nil, ErrOutsideWorkingHours
		}
		uc.logger.Error("CreateBooking: failed to get availability window: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability window: %v", ErrInternal, err)
	}

	if err := validateSlotInWindow(req.StartTime, end, window); err != nil {
		uc.logger.Warn("CreateBooking: slot %s-%s outside window %s-%s", req.StartTime, end, window.StartTime, window.EndTime)
		return nil, err
	}

	breaks, err := uc.staffRepo.ListBreaks(ctx, req.TenantID, req.BarberID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list breaks: %v", err)
		return nil, fmt.Errorf("%w: failed to list breaks: %v", ErrInternal, err)
	}

	if err := validateSlotAgainstBreaks(req.StartTime, end, breaks); err != nil {
		uc.logger.Warn("CreateBooking: slot %s-%s overlaps a break", req.StartTime, end)
		return nil, err
	}

	// 8. Депозит и платёжное намерение — до транзакции
	var (
		depositMinor int64
		checkoutURL  string
		intentID     string
		expiresAt    *time.Time
		payStatus    = domain.PaymentStatusPending
		rowStatus    = domain.PaymentPayInShop
	)

	if req.PaymentMethod == domain.PaymentMethodOnline {
		depositMinor = computeDeposit(service.PriceMinor, service.DepositPercent)

		// Проверяем минимум процессора до сетевого вызова
		if depositMinor < uc.cfg.MinDepositMinor {
			uc.logger.Warn("CreateBooking: deposit %d below minimum %d", depositMinor, uc.cfg.MinDepositMinor)
			return nil, ErrAmountTooSmall
		}

		description := fmt.Sprintf("Deposit for %s on %s %s", service.Name, req.Date.Format(domain.DateFormat), req.StartTime)

		intent, err := uc.gateway.CreateIntent(ctx, depositMinor, uc.cfg.Currency, description)
		if err != nil {
			if errors.Is(err, gatewayClient.ErrAmountRejected) {
				uc.logger.Warn("CreateBooking: processor rejected amount %d: %v", depositMinor, err)
				return nil, ErrAmountTooSmall
			}
			uc.logger.Error("CreateBooking: failed to create payment intent: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
		}

		intentID = intent.ID
		checkoutURL = intent.CheckoutURL
		expiresAt = ptr.Ptr(now.Add(uc.cfg.DepositTTL))
		payStatus = domain.PaymentStatusDepositPending
		rowStatus = domain.PaymentPending
	} else {
		// Оплата в салоне: собственный идентификатор вместо intent процессора.
		// Бронирование остаётся pending без срока истечения, подтверждается персоналом.
		intentID = "shop-" + uuid.NewString()
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 9. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 9.1. Advisory lock на расписание (tenant, barber, date)
		if err := uc.bookingRepo.LockSchedule(txCtx, req.TenantID, req.BarberID, req.Date); err != nil {
			uc.logger.Error("CreateBooking: failed to lock schedule: %v", err)
			return fmt.Errorf("%w: failed to lock schedule: %v", ErrInternal, err)
		}

		// 9.2. Читаем занятые интервалы дня с блокировкой строк
		bookings, err := uc.bookingRepo.GetScheduleForDay(txCtx, domain.BarberScheduleFilter{
			TenantID:      req.TenantID,
			BarberID:      req.BarberID,
			Date:          req.Date,
			ForUpdateLock: true,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get schedule: %v", err)
			return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
		}

		// 9.3. Проверяем пересечения
		if conflict := findOverlappingBooking(req.StartTime, end, bookings); conflict != nil {
			uc.logger.Warn("CreateBooking: slot %s-%s conflicts with booking id=%d", req.StartTime, end, conflict.ID)
			return ErrSlotConflict
		}

		// 9.4. Создаем бронирование с денормализацией данных услуги
		booking := &domain.Booking{
			TenantID:        req.TenantID,
			CustomerID:      req.CustomerID,
			BarberID:        req.BarberID,
			ServiceID:       req.ServiceID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			PaymentStatus:   payStatus,

			ServiceName:      service.Name,
			PriceMinor:       service.PriceMinor,
			DepositMinor:     depositMinor,
			OutstandingMinor: service.PriceMinor - depositMinor,

			ExpiresAt: expiresAt,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 9.5. Создаем платёж в той же транзакции
		amount := depositMinor
		if amount == 0 {
			amount = service.PriceMinor
		}

		if _, err := uc.paymentRepo.Create(txCtx, &domain.Payment{
			TenantID:    req.TenantID,
			BookingID:   created.ID,
			IntentID:    intentID,
			AmountMinor: amount,
			Status:      rowStatus,
		}); err != nil {
			uc.logger.Error("CreateBooking: failed to create payment: %v", err)
			return fmt.Errorf("%w: failed to create payment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d status=%s", result.ID, result.Status)

	return &Response{
		ID:               result.ID,
		TenantID:         result.TenantID,
		CustomerID:       result.CustomerID,
		BarberID:         result.BarberID,
		ServiceID:        result.ServiceID,
		BookingDate:      result.BookingDate,
		StartTime:        result.StartTime,
		DurationMinutes:  result.DurationMinutes,
		Status:           string(result.Status),
		PaymentStatus:    string(result.PaymentStatus),
		ServiceName:      result.ServiceName,
		PriceMinor:       result.PriceMinor,
		DepositMinor:     result.DepositMinor,
		OutstandingMinor: result.OutstandingMinor,
		ExpiresAt:        result.ExpiresAt,
		CheckoutURL:      checkoutURL,
		CreatedAt:        result.CreatedAt,
		UpdatedAt:        result.UpdatedAt,
	}, nil
}
