package sweeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BarberBooking/internal/notifier"
)

// expiredReason причина отмены, фиксируемая в бронировании
const expiredReason = "депозит не оплачен вовремя"

// Sweeper периодически отменяет бронирования, не дождавшиеся депозита.
// Каждое истёкшее бронирование обрабатывается в собственной транзакции:
// сбой на одном не останавливает остальные.
type Sweeper struct {
	bookingRepo  BookingRepository
	paymentRepo  PaymentRepository
	customerRepo CustomerRepository
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	batchLimit   int
	logger       Logger

	cron *cron.Cron
}

// New создает sweeper истёкших бронирований
func New(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	customerRepo CustomerRepository,
	notifier Notifier,
	txManager TransactionManager,
	batchLimit int,
	logger Logger,
) *Sweeper {
	return &Sweeper{
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		batchLimit:   batchLimit,
		logger:       logger,
	}
}

// Start запускает периодический обход по расписанию cron
func (s *Sweeper) Start(interval time.Duration) error {
	s.cron = cron.New()

	spec := fmt.Sprintf("@every %s", interval)
	if _, err := s.cron.AddFunc(spec, func() {
		s.Sweep(context.Background())
	}); err != nil {
		return fmt.Errorf("sweeper: failed to schedule: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Sweeper started, interval=%s, batch=%d", interval, s.batchLimit)

	return nil
}

// Stop останавливает расписание и дожидается завершения текущего обхода
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("Sweeper stopped")
}

// Sweep отменяет пачку истёкших бронирований. Возвращает число отменённых.
func (s *Sweeper) Sweep(ctx context.Context) int {
	now := s.timeProvider.Now()

	expired, err := s.bookingRepo.FindExpired(ctx, now, s.batchLimit)
	if err != nil {
		s.logger.Error("Sweep: failed to find expired bookings: %v", err)
		return 0
	}

	if len(expired) == 0 {
		return 0
	}

	s.logger.Info("Sweep: found %d expired bookings", len(expired))

	cancelled := 0
	for _, booking := range expired {
		if err := s.expireOne(ctx, booking); err != nil {
			s.logger.Error("Sweep: failed to expire booking id=%d: %v", booking.ID, err)
			continue
		}
		cancelled++
	}

	s.logger.Info("Sweep: cancelled %d of %d expired bookings", cancelled, len(expired))

	return cancelled
}

func (s *Sweeper) expireOne(ctx context.Context, booking *domain.Booking) error {
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.CancelExpired(txCtx, booking.ID, expiredReason); err != nil {
			return err
		}

		payment, err := s.paymentRepo.GetByBookingID(txCtx, booking.ID)
		if err != nil {
			return fmt.Errorf("get payment: %w", err)
		}

		// Неоплаченный intent помечается failed; успевший succeeded не трогаем
		if !payment.IsFinal() {
			if err := s.paymentRepo.UpdateStatus(txCtx, payment.ID, domain.PaymentFailed); err != nil {
				return fmt.Errorf("update payment: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		// Бронирование успели подтвердить между FindExpired и отменой — не ошибка
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Info("expireOne: booking id=%d no longer awaits deposit, skipping", booking.ID)
			return nil
		}
		return err
	}

	s.logger.Info("expireOne: booking id=%d cancelled, deposit deadline %s passed",
		booking.ID, booking.ExpiresAt.Format(time.RFC3339))

	s.dispatchExpired(ctx, booking)

	return nil
}

func (s *Sweeper) dispatchExpired(ctx context.Context, booking *domain.Booking) {
	customer, err := s.customerRepo.GetByID(ctx, booking.TenantID, booking.CustomerID)
	if err != nil {
		s.logger.Warn("dispatchExpired: failed to get customer id=%d: %v", booking.CustomerID, err)
		return
	}

	go s.notifier.Notify(context.WithoutCancel(ctx), notifier.Notification{
		Event:       notifier.EventBookingExpired,
		Booking:     booking,
		Phone:       customer.Phone,
		DisplayName: customer.DisplayName,
	})
}
