package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/payment"
	"github.com/m04kA/SMC-BarberBooking/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-BarberBooking/internal/notifier"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	booking   *domain.Booking
	confirmed []int64

	// одноразовый хук после чтения, имитирует конкурентное изменение строки
	afterRead func()
}

func (f *fakeBookingRepo) GetByIDAnyTenant(_ context.Context, _ int64) (*domain.Booking, error) {
	copied := *f.booking
	if f.afterRead != nil {
		hook := f.afterRead
		f.afterRead = nil
		hook()
	}
	return &copied, nil
}

func (f *fakeBookingRepo) Confirm(_ context.Context, id int64) error {
	// Повторяет guard SQL-репозитория: подтверждается только pending-строка
	if f.booking.Status != domain.StatusPending {
		return bookingRepo.ErrBookingNotFound
	}
	f.confirmed = append(f.confirmed, id)
	f.booking.Status = domain.StatusConfirmed
	f.booking.PaymentStatus = domain.PaymentStatusDepositPaid
	f.booking.ExpiresAt = nil
	return nil
}

type fakePaymentRepo struct {
	payment *domain.Payment
	updates []domain.PaymentState
}

func (f *fakePaymentRepo) GetByIntentID(_ context.Context, intentID string) (*domain.Payment, error) {
	if f.payment == nil || f.payment.IntentID != intentID {
		return nil, paymentRepo.ErrPaymentNotFound
	}
	return f.payment, nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, _ int64, status domain.PaymentState) error {
	f.updates = append(f.updates, status)
	f.payment.Status = status
	return nil
}

type fakeCustomerRepo struct{}

func (fakeCustomerRepo) GetByID(_ context.Context, _, _ int64) (*domain.Customer, error) {
	return &domain.Customer{ID: 7, Phone: "+79001234567", DisplayName: "Иван"}, nil
}

type fakeNotifier struct {
	ch chan notifier.Notification
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{ch: make(chan notifier.Notification, 1)}
}

func (f *fakeNotifier) Notify(_ context.Context, n notifier.Notification) {
	f.ch <- n
}

func (f *fakeNotifier) await(t *testing.T) notifier.Notification {
	t.Helper()
	select {
	case n := <-f.ch:
		return n
	case <-time.After(time.Second):
		t.Fatal("notification was not dispatched")
		return notifier.Notification{}
	}
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func pendingFixture() (*fakeBookingRepo, *fakePaymentRepo, *fakeNotifier, *Service) {
	expires := time.Now().Add(10 * time.Minute)
	bookings := &fakeBookingRepo{
		booking: &domain.Booking{
			ID:            42,
			TenantID:      1,
			CustomerID:    7,
			Status:        domain.StatusPending,
			PaymentStatus: domain.PaymentStatusDepositPending,
			ExpiresAt:     &expires,
		},
	}
	payments := &fakePaymentRepo{
		payment: &domain.Payment{ID: 5, BookingID: 42, IntentID: "pi_42", Status: domain.PaymentPending},
	}
	notify := newFakeNotifier()
	svc := NewService(bookings, payments, fakeCustomerRepo{}, notify, passthroughTx{}, nopLogger{})
	return bookings, payments, notify, svc
}

func succeededEvent() paymentgateway.WebhookEvent {
	return paymentgateway.WebhookEvent{IntentID: "pi_42", Event: paymentgateway.EventPaymentSucceeded}
}

func TestHandleOutcome_SucceededConfirmsBooking(t *testing.T) {
	bookings, payments, notify, svc := pendingFixture()

	require.NoError(t, svc.HandleOutcome(context.Background(), succeededEvent()))

	require.Equal(t, []int64{42}, bookings.confirmed)
	require.Equal(t, domain.StatusConfirmed, bookings.booking.Status)
	require.Nil(t, bookings.booking.ExpiresAt)
	require.Equal(t, domain.PaymentSucceeded, payments.payment.Status)

	n := notify.await(t)
	require.Equal(t, notifier.EventBookingConfirmed, n.Event)
	require.Equal(t, int64(42), n.Booking.ID)
}

func TestHandleOutcome_ReplayedSuccessIsNoOp(t *testing.T) {
	bookings, payments, _, svc := pendingFixture()
	payments.payment.Status = domain.PaymentSucceeded

	require.NoError(t, svc.HandleOutcome(context.Background(), succeededEvent()))

	require.Empty(t, bookings.confirmed)
	require.Empty(t, payments.updates)
}

func TestHandleOutcome_SuccessAfterCancellationRefunds(t *testing.T) {
	bookings, payments, _, svc := pendingFixture()
	bookings.booking.Status = domain.StatusCancelled
	bookings.booking.PaymentStatus = domain.PaymentStatusCancelled
	bookings.booking.ExpiresAt = nil

	require.NoError(t, svc.HandleOutcome(context.Background(), succeededEvent()))

	// Слот уже освобождён: бронирование не трогаем, деньги к возврату
	require.Empty(t, bookings.confirmed)
	require.Equal(t, domain.StatusCancelled, bookings.booking.Status)
	require.Equal(t, domain.PaymentRefunded, payments.payment.Status)
}

// Sweeper отменил бронирование между чтением и подтверждением:
// guard в Confirm не находит pending-строку, отменённое бронирование
// не воскресает, платёж уходит в возврат.
func TestHandleOutcome_CancelledBetweenReadAndConfirmRefunds(t *testing.T) {
	bookings, payments, notify, svc := pendingFixture()
	bookings.afterRead = func() {
		bookings.booking.Status = domain.StatusCancelled
		bookings.booking.PaymentStatus = domain.PaymentStatusCancelled
		bookings.booking.ExpiresAt = nil
	}

	require.NoError(t, svc.HandleOutcome(context.Background(), succeededEvent()))

	require.Empty(t, bookings.confirmed)
	require.Equal(t, domain.StatusCancelled, bookings.booking.Status)
	require.Equal(t, domain.PaymentStatusCancelled, bookings.booking.PaymentStatus)
	require.Equal(t, domain.PaymentRefunded, payments.payment.Status)

	// Подтверждения не было — уведомление не отправляется
	select {
	case <-notify.ch:
		t.Fatal("no notification expected for resurrected booking")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandleOutcome_SuccessOnConfirmedUpdatesPaymentOnly(t *testing.T) {
	bookings, payments, _, svc := pendingFixture()
	bookings.booking.Status = domain.StatusConfirmed
	bookings.booking.ExpiresAt = nil

	require.NoError(t, svc.HandleOutcome(context.Background(), succeededEvent()))

	require.Empty(t, bookings.confirmed)
	require.Equal(t, domain.PaymentSucceeded, payments.payment.Status)
}

func TestHandleOutcome_FailedLeavesBookingPending(t *testing.T) {
	bookings, payments, _, svc := pendingFixture()

	event := paymentgateway.WebhookEvent{IntentID: "pi_42", Event: paymentgateway.EventPaymentFailed}
	require.NoError(t, svc.HandleOutcome(context.Background(), event))

	// Бронирование остаётся pending и истечёт по expires_at
	require.Equal(t, domain.StatusPending, bookings.booking.Status)
	require.NotNil(t, bookings.booking.ExpiresAt)
	require.Equal(t, domain.PaymentFailed, payments.payment.Status)
}

func TestHandleOutcome_LateFailureAfterSuccessIgnored(t *testing.T) {
	_, payments, _, svc := pendingFixture()
	payments.payment.Status = domain.PaymentSucceeded

	event := paymentgateway.WebhookEvent{IntentID: "pi_42", Event: paymentgateway.EventPaymentFailed}
	require.NoError(t, svc.HandleOutcome(context.Background(), event))

	require.Equal(t, domain.PaymentSucceeded, payments.payment.Status)
	require.Empty(t, payments.updates)
}

func TestHandleOutcome_UnknownIntent(t *testing.T) {
	_, _, _, svc := pendingFixture()

	event := paymentgateway.WebhookEvent{IntentID: "pi_unknown", Event: paymentgateway.EventPaymentSucceeded}
	err := svc.HandleOutcome(context.Background(), event)
	require.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestHandleOutcome_UnknownEvent(t *testing.T) {
	_, _, _, svc := pendingFixture()

	event := paymentgateway.WebhookEvent{IntentID: "pi_42", Event: "payment.created"}
	err := svc.HandleOutcome(context.Background(), event)
	require.ErrorIs(t, err, ErrUnknownEvent)
}
