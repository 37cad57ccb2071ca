package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/payment"
	"github.com/m04kA/SMC-BarberBooking/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-BarberBooking/internal/notifier"
)

// Service обрабатывает исходы платежей от процессора.
// Webhook может прийти повторно и с опозданием, поэтому обработка идемпотентна:
// повтор уже применённого события — no-op.
type Service struct {
	bookingRepo  BookingRepository
	paymentRepo  PaymentRepository
	customerRepo CustomerRepository
	notifier     Notifier
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса платежей
func NewService(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	customerRepo CustomerRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		notifier:     notifier,
		txManager:    txManager,
		logger:       logger,
	}
}

// HandleOutcome применяет результат платежа к платежу и бронированию.
// intent_id глобально уникален, поэтому поиск не требует tenant-контекста.
func (s *Service) HandleOutcome(ctx context.Context, event paymentgateway.WebhookEvent) error {
	s.logger.Info("HandleOutcome: intent=%s event=%s", event.IntentID, event.Event)

	payment, err := s.paymentRepo.GetByIntentID(ctx, event.IntentID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			s.logger.Warn("HandleOutcome: intent=%s not found", event.IntentID)
			return ErrPaymentNotFound
		}
		s.logger.Error("HandleOutcome: failed to get payment intent=%s: %v", event.IntentID, err)
		return fmt.Errorf("%w: HandleOutcome - get payment: %v", ErrInternal, err)
	}

	switch event.Event {
	case paymentgateway.EventPaymentSucceeded:
		return s.handleSucceeded(ctx, payment)
	case paymentgateway.EventPaymentFailed:
		return s.handleFailed(ctx, payment)
	default:
		s.logger.Warn("HandleOutcome: unknown event %q for intent=%s", event.Event, event.IntentID)
		return ErrUnknownEvent
	}
}

func (s *Service) handleSucceeded(ctx context.Context, payment *domain.Payment) error {
	// Повтор уже применённого события
	if payment.Status == domain.PaymentSucceeded {
		s.logger.Info("handleSucceeded: intent=%s already succeeded, skipping", payment.IntentID)
		return nil
	}

	booking, err := s.bookingRepo.GetByIDAnyTenant(ctx, payment.BookingID)
	if err != nil {
		s.logger.Error("handleSucceeded: failed to get booking id=%d: %v", payment.BookingID, err)
		return fmt.Errorf("%w: handleSucceeded - get booking: %v", ErrInternal, err)
	}

	// Успех после истечения или отмены: слот уже освобождён,
	// деньги помечаются к возврату, бронирование не трогаем
	if booking.Status == domain.StatusCancelled {
		s.logger.Warn("handleSucceeded: booking id=%d already cancelled, marking payment for refund", booking.ID)
		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentRefunded); err != nil {
			return fmt.Errorf("%w: handleSucceeded - mark refund: %v", ErrInternal, err)
		}
		return nil
	}

	// Бронирование уже подтверждено другим путём (повтор webhook после частичного сбоя)
	if booking.Status != domain.StatusPending {
		s.logger.Info("handleSucceeded: booking id=%d in status %s, updating payment only", booking.ID, booking.Status)
		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentSucceeded); err != nil {
			return fmt.Errorf("%w: handleSucceeded - update payment: %v", ErrInternal, err)
		}
		return nil
	}

	confirmed := false

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Подтверждение снимает дедлайн: expires_at обнуляется.
		// Guard в Confirm обновляет только pending-строку: если sweeper отменил
		// бронирование после чтения выше, обновления не будет — перечитываем
		// статус внутри транзакции и решаем по нему.
		switch err := s.bookingRepo.Confirm(txCtx, booking.ID); {
		case err == nil:
			confirmed = true

		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			current, rerr := s.bookingRepo.GetByIDAnyTenant(txCtx, booking.ID)
			if rerr != nil {
				return fmt.Errorf("%w: handleSucceeded - reread booking: %v", ErrInternal, rerr)
			}

			if current.Status == domain.StatusCancelled {
				s.logger.Warn("handleSucceeded: booking id=%d cancelled concurrently, marking payment for refund", booking.ID)
				if err := s.paymentRepo.UpdateStatus(txCtx, payment.ID, domain.PaymentRefunded); err != nil {
					return fmt.Errorf("%w: handleSucceeded - mark refund: %v", ErrInternal, err)
				}
				return nil
			}
			// Подтверждено другим путём — фиксируем только платёж

		default:
			return fmt.Errorf("%w: handleSucceeded - confirm booking: %v", ErrInternal, err)
		}

		if err := s.paymentRepo.UpdateStatus(txCtx, payment.ID, domain.PaymentSucceeded); err != nil {
			return fmt.Errorf("%w: handleSucceeded - update payment: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("handleSucceeded: failed for booking id=%d: %v", booking.ID, err)
		return err
	}

	if !confirmed {
		return nil
	}

	s.logger.Info("handleSucceeded: booking id=%d confirmed, intent=%s", booking.ID, payment.IntentID)

	s.dispatchConfirmed(ctx, booking)

	return nil
}

func (s *Service) handleFailed(ctx context.Context, payment *domain.Payment) error {
	// Терминальный платёж не перезаписывается: поздний fail после success игнорируется
	if payment.IsFinal() {
		s.logger.Info("handleFailed: intent=%s already in state %s, skipping", payment.IntentID, payment.Status)
		return nil
	}

	// Бронирование не трогаем: оно остаётся pending и истечёт по expires_at,
	// клиент может успеть оплатить повторно
	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentFailed); err != nil {
		s.logger.Error("handleFailed: failed to update payment intent=%s: %v", payment.IntentID, err)
		return fmt.Errorf("%w: handleFailed - update payment: %v", ErrInternal, err)
	}

	s.logger.Info("handleFailed: intent=%s marked failed", payment.IntentID)

	return nil
}

func (s *Service) dispatchConfirmed(ctx context.Context, booking *domain.Booking) {
	customer, err := s.customerRepo.GetByID(ctx, booking.TenantID, booking.CustomerID)
	if err != nil {
		s.logger.Warn("dispatchConfirmed: failed to get customer id=%d: %v", booking.CustomerID, err)
		return
	}

	go s.notifier.Notify(context.WithoutCancel(ctx), notifier.Notification{
		Event:       notifier.EventBookingConfirmed,
		Booking:     booking,
		Phone:       customer.Phone,
		DisplayName: customer.DisplayName,
	})
}
