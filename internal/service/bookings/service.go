package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BarberBooking/internal/notifier"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings/models"
)

// Service сервис жизненного цикла бронирований.
// Все переходы статусов идут через validator: недопустимый переход
// возвращает ErrInvalidTransition, состояние не меняется.
type Service struct {
	bookingRepo  BookingRepository
	paymentRepo  PaymentRepository
	customerRepo CustomerRepository
	validator    TransitionValidator
	notifier     Notifier
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	customerRepo CustomerRepository,
	validator TransitionValidator,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		validator:    validator,
		notifier:     notifier,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetByID получает бронирование в пределах tenant
func (s *Service) GetByID(ctx context.Context, tenantID, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d tenant=%d", id, tenantID)

	booking, err := s.getBooking(ctx, tenantID, id, "GetByID")
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetBarberSchedule получает бронирования мастера на день.
// Отменённые бронирования включаются: расписание для администратора,
// а не список занятых интервалов.
func (s *Service) GetBarberSchedule(ctx context.Context, tenantID, barberID int64, date time.Time) (*models.ScheduleResponse, error) {
	s.logger.Info("GetBarberSchedule: tenant=%d, barber=%d, date=%s", tenantID, barberID, date.Format(domain.DateFormat))

	if barberID <= 0 {
		return nil, fmt.Errorf("%w: barberID must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	list, err := s.bookingRepo.GetScheduleForDay(ctx, domain.BarberScheduleFilter{
		TenantID:     tenantID,
		BarberID:     barberID,
		Date:         date,
		IncludeFreed: true,
	})
	if err != nil {
		s.logger.Error("GetBarberSchedule: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetBarberSchedule - repository error: %v", ErrInternal, err)
	}

	return &models.ScheduleResponse{
		BarberID: barberID,
		Date:     date,
		Bookings: models.FromDomainBookingList(list),
	}, nil
}

// Cancel отменяет бронирование.
// Отмена — единственный переход, освобождающий слот. Оплаченный депозит
// помечается к возврату.
func (s *Service) Cancel(ctx context.Context, tenantID, id int64, reason string) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: booking id=%d tenant=%d", id, tenantID)

	if len(reason) > domain.MaxCancellationReasonLen {
		return nil, fmt.Errorf("%w: cancellation reason too long", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, tenantID, id, "Cancel")
	if err != nil {
		return nil, err
	}

	if _, err := s.validator.Apply(ctx, booking.Status, domain.EventCancel); err != nil {
		var transitionErr *domain.TransitionError
		if errors.As(err, &transitionErr) {
			s.logger.Warn("Cancel: booking id=%d in status %s cannot be cancelled", id, booking.Status)
			return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		s.logger.Error("Cancel: validator error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - validator error: %v", ErrInternal, err)
	}

	depositPaid := booking.PaymentStatus == domain.PaymentStatusDepositPaid ||
		booking.PaymentStatus == domain.PaymentStatusFullyPaid

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Cancel(txCtx, id, reason); err != nil {
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		payment, err := s.paymentRepo.GetByBookingID(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: Cancel - get payment: %v", ErrInternal, err)
		}

		// Уплаченные деньги помечаются к возврату
		if depositPaid {
			if err := s.bookingRepo.UpdatePaymentStatus(txCtx, id, domain.PaymentStatusRefunded); err != nil {
				return fmt.Errorf("%w: Cancel - update payment status: %v", ErrInternal, err)
			}
			if err := s.paymentRepo.UpdateStatus(txCtx, payment.ID, domain.PaymentRefunded); err != nil {
				return fmt.Errorf("%w: Cancel - update payment: %v", ErrInternal, err)
			}
			return nil
		}

		// Неоплаченный intent закрывается как failed, чтобы не висеть вечно;
		// успевший финализироваться платёж не трогаем
		if !payment.IsFinal() {
			if err := s.paymentRepo.UpdateStatus(txCtx, payment.ID, domain.PaymentFailed); err != nil {
				return fmt.Errorf("%w: Cancel - update payment: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Cancel: failed for booking id=%d: %v", id, err)
		return nil, err
	}

	s.logger.Info("Cancel: booking id=%d cancelled", id)

	updated, err := s.getBooking(ctx, tenantID, id, "Cancel")
	if err != nil {
		return nil, err
	}

	s.dispatchNotification(ctx, notifier.EventBookingCancelled, updated)

	return models.FromDomainBooking(updated), nil
}

// Complete отмечает визит состоявшимся
func (s *Service) Complete(ctx context.Context, tenantID, id int64) (*models.BookingResponse, error) {
	s.logger.Info("Complete: booking id=%d tenant=%d", id, tenantID)

	updated, err := s.applyStatusEvent(ctx, tenantID, id, domain.EventComplete, "Complete")
	if err != nil {
		return nil, err
	}

	s.dispatchNotification(ctx, notifier.EventBookingCompleted, updated)

	return models.FromDomainBooking(updated), nil
}

// NoShow отмечает неявку клиента и увеличивает его счётчик неявок
func (s *Service) NoShow(ctx context.Context, tenantID, id int64) (*models.BookingResponse, error) {
	s.logger.Info("NoShow: booking id=%d tenant=%d", id, tenantID)

	booking, err := s.getBooking(ctx, tenantID, id, "NoShow")
	if err != nil {
		return nil, err
	}

	newStatus, err := s.validator.Apply(ctx, booking.Status, domain.EventNoShow)
	if err != nil {
		var transitionErr *domain.TransitionError
		if errors.As(err, &transitionErr) {
			s.logger.Warn("NoShow: booking id=%d in status %s", id, booking.Status)
			return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		return nil, fmt.Errorf("%w: NoShow - validator error: %v", ErrInternal, err)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.UpdateStatus(txCtx, id, newStatus); err != nil {
			return fmt.Errorf("%w: NoShow - update status: %v", ErrInternal, err)
		}

		if err := s.customerRepo.IncrementNoShowCount(txCtx, tenantID, booking.CustomerID); err != nil {
			return fmt.Errorf("%w: NoShow - increment counter: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("NoShow: failed for booking id=%d: %v", id, err)
		return nil, err
	}

	s.logger.Info("NoShow: booking id=%d marked, customer=%d counter incremented", id, booking.CustomerID)

	updated, err := s.getBooking(ctx, tenantID, id, "NoShow")
	if err != nil {
		return nil, err
	}

	s.dispatchNotification(ctx, notifier.EventBookingNoShow, updated)

	return models.FromDomainBooking(updated), nil
}

// MarkPaid отмечает полную оплату в салоне.
// Бронирование без депозита подтверждается этим же действием.
func (s *Service) MarkPaid(ctx context.Context, tenantID, id int64) (*models.BookingResponse, error) {
	s.logger.Info("MarkPaid: booking id=%d tenant=%d", id, tenantID)

	booking, err := s.getBooking(ctx, tenantID, id, "MarkPaid")
	if err != nil {
		return nil, err
	}

	if booking.IsTerminal() && booking.Status != domain.StatusCompleted {
		s.logger.Warn("MarkPaid: booking id=%d in terminal status %s", id, booking.Status)
		return nil, ErrNotPayable
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.MarkPaidInShop(txCtx, id); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrNotPayable
			}
			return fmt.Errorf("%w: MarkPaid - repository error: %v", ErrInternal, err)
		}

		payment, err := s.paymentRepo.GetByBookingID(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: MarkPaid - get payment: %v", ErrInternal, err)
		}
		if err := s.paymentRepo.UpdateStatus(txCtx, payment.ID, domain.PaymentSucceeded); err != nil {
			return fmt.Errorf("%w: MarkPaid - update payment: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("MarkPaid: failed for booking id=%d: %v", id, err)
		return nil, err
	}

	wasPending := booking.Status == domain.StatusPending

	updated, err := s.getBooking(ctx, tenantID, id, "MarkPaid")
	if err != nil {
		return nil, err
	}

	if wasPending {
		s.dispatchNotification(ctx, notifier.EventBookingConfirmed, updated)
	}

	s.logger.Info("MarkPaid: booking id=%d fully paid", id)

	return models.FromDomainBooking(updated), nil
}

// applyStatusEvent общий путь для переходов, меняющих только статус
func (s *Service) applyStatusEvent(ctx context.Context, tenantID, id int64, event domain.Event, op string) (*domain.Booking, error) {
	booking, err := s.getBooking(ctx, tenantID, id, op)
	if err != nil {
		return nil, err
	}

	newStatus, err := s.validator.Apply(ctx, booking.Status, event)
	if err != nil {
		var transitionErr *domain.TransitionError
		if errors.As(err, &transitionErr) {
			s.logger.Warn("%s: booking id=%d in status %s, event %s rejected", op, id, booking.Status, event)
			return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		return nil, fmt.Errorf("%w: %s - validator error: %v", ErrInternal, op, err)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		s.logger.Error("%s: failed to update status for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - update status: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: booking id=%d moved to %s", op, id, newStatus)

	return s.getBooking(ctx, tenantID, id, op)
}

func (s *Service) getBooking(ctx context.Context, tenantID, id int64, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found in tenant=%d", op, id, tenantID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// dispatchNotification отправляет уведомление клиенту в фоне.
// Ошибки получения телефона глотаются: уведомление best-effort.
func (s *Service) dispatchNotification(ctx context.Context, event notifier.Event, booking *domain.Booking) {
	customer, err := s.customerRepo.GetByID(ctx, booking.TenantID, booking.CustomerID)
	if err != nil {
		s.logger.Warn("dispatchNotification: failed to get customer id=%d: %v", booking.CustomerID, err)
		return
	}

	go s.notifier.Notify(context.WithoutCancel(ctx), notifier.Notification{
		Event:       event,
		Booking:     booking,
		Phone:       customer.Phone,
		DisplayName: customer.DisplayName,
	})
}
