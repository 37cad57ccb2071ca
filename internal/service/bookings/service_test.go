package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BarberBooking/internal/lifecycle"
	"github.com/m04kA/SMC-BarberBooking/internal/notifier"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeBookingRepo повторяет семантику SQL-репозитория в памяти
type fakeBookingRepo struct {
	booking *domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, tenantID, id int64) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id || f.booking.TenantID != tenantID {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) GetScheduleForDay(_ context.Context, _ domain.BarberScheduleFilter) ([]*domain.Booking, error) {
	if f.booking == nil {
		return nil, nil
	}
	return []*domain.Booking{f.booking}, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, _ int64, reason string) error {
	now := time.Now()
	f.booking.Status = domain.StatusCancelled
	f.booking.PaymentStatus = domain.PaymentStatusCancelled
	f.booking.ExpiresAt = nil
	f.booking.CancellationReason = &reason
	f.booking.CancelledAt = &now
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, status domain.BookingStatus) error {
	f.booking.Status = status
	return nil
}

func (f *fakeBookingRepo) UpdatePaymentStatus(_ context.Context, _ int64, status domain.BookingPaymentStatus) error {
	f.booking.PaymentStatus = status
	return nil
}

func (f *fakeBookingRepo) MarkPaidInShop(_ context.Context, _ int64) error {
	// Повторяет guard SQL-репозитория: подтверждается только pending,
	// confirmed и completed сохраняют статус
	switch f.booking.Status {
	case domain.StatusPending:
		f.booking.Status = domain.StatusConfirmed
	case domain.StatusConfirmed, domain.StatusCompleted:
	default:
		return bookingRepo.ErrBookingNotFound
	}
	f.booking.PaymentStatus = domain.PaymentStatusFullyPaid
	f.booking.ExpiresAt = nil
	return nil
}

type fakePaymentRepo struct {
	payment *domain.Payment
}

func (f *fakePaymentRepo) GetByBookingID(_ context.Context, _ int64) (*domain.Payment, error) {
	return f.payment, nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, _ int64, status domain.PaymentState) error {
	f.payment.Status = status
	return nil
}

type fakeCustomerRepo struct {
	noShows int
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, _, _ int64) (*domain.Customer, error) {
	return &domain.Customer{ID: 7, Phone: "+79001234567", DisplayName: "Иван"}, nil
}

func (f *fakeCustomerRepo) IncrementNoShowCount(_ context.Context, _, _ int64) error {
	f.noShows++
	return nil
}

type fakeNotifier struct {
	ch chan notifier.Notification
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

type fixture struct {
	bookings  *fakeBookingRepo
	payments  *fakePaymentRepo
	customers *fakeCustomerRepo
	notify    *fakeNotifier
	svc       *Service
}

func newFixture(status domain.BookingStatus, payStatus domain.BookingPaymentStatus) *fixture {
	bookings := &fakeBookingRepo{
		booking: &domain.Booking{
			ID:            42,
			TenantID:      1,
			CustomerID:    7,
			Status:        status,
			PaymentStatus: payStatus,
		},
	}
	payments := &fakePaymentRepo{
		payment: &domain.Payment{ID: 5, BookingID: 42, Status: domain.PaymentPending},
	}
	customers := &fakeCustomerRepo{}
	notify := &fakeNotifier{ch: make(chan notifier.Notification, 1)}

	svc := NewService(bookings, payments, customers, lifecycle.New(), notify, passthroughTx{}, nopLogger{})

	return &fixture{bookings: bookings, payments: payments, customers: customers, notify: notify, svc: svc}
}

func TestCancel_PendingWithoutDeposit(t *testing.T) {
	fx := newFixture(domain.StatusPending, domain.PaymentStatusDepositPending)

	resp, err := fx.svc.Cancel(context.Background(), 1, 42, "передумал")
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.Equal(t, string(domain.PaymentStatusCancelled), resp.PaymentStatus)

	// Депозит не был уплачен — возврата нет, неоплаченный intent закрывается
	require.Equal(t, domain.PaymentFailed, fx.payments.payment.Status)

	n := fx.notify.await(t)
	require.Equal(t, notifier.EventBookingCancelled, n.Event)
}

// Отмена in-shop бронирования закрывает его платёжную запись
func TestCancel_InShopPendingClosesPayment(t *testing.T) {
	fx := newFixture(domain.StatusPending, domain.PaymentStatusPending)
	fx.payments.payment.Status = domain.PaymentPayInShop

	_, err := fx.svc.Cancel(context.Background(), 1, 42, "")
	require.NoError(t, err)
	require.Equal(t, domain.PaymentFailed, fx.payments.payment.Status)
}

func TestCancel_ConfirmedWithDepositRefunds(t *testing.T) {
	fx := newFixture(domain.StatusConfirmed, domain.PaymentStatusDepositPaid)
	fx.payments.payment.Status = domain.PaymentSucceeded

	resp, err := fx.svc.Cancel(context.Background(), 1, 42, "")
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.Equal(t, string(domain.PaymentStatusRefunded), resp.PaymentStatus)
	require.Equal(t, domain.PaymentRefunded, fx.payments.payment.Status)
}

func TestCancel_TerminalStatusRejected(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCompleted, domain.StatusCancelled, domain.StatusNoShow} {
		fx := newFixture(status, domain.PaymentStatusFullyPaid)

		_, err := fx.svc.Cancel(context.Background(), 1, 42, "")
		require.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)

		// Состояние не изменилось
		require.Equal(t, status, fx.bookings.booking.Status)
	}
}

func TestCancel_ReasonTooLong(t *testing.T) {
	fx := newFixture(domain.StatusPending, domain.PaymentStatusDepositPending)

	long := make([]byte, domain.MaxCancellationReasonLen+1)
	for i := range long {
		long[i] = 'a'
	}

	_, err := fx.svc.Cancel(context.Background(), 1, 42, string(long))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestComplete_Confirmed(t *testing.T) {
	fx := newFixture(domain.StatusConfirmed, domain.PaymentStatusDepositPaid)

	resp, err := fx.svc.Complete(context.Background(), 1, 42)
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusCompleted), resp.Status)

	n := fx.notify.await(t)
	require.Equal(t, notifier.EventBookingCompleted, n.Event)
}

func TestComplete_PendingRejected(t *testing.T) {
	fx := newFixture(domain.StatusPending, domain.PaymentStatusDepositPending)

	_, err := fx.svc.Complete(context.Background(), 1, 42)
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Equal(t, domain.StatusPending, fx.bookings.booking.Status)
}

func TestNoShow_IncrementsCounter(t *testing.T) {
	fx := newFixture(domain.StatusConfirmed, domain.PaymentStatusDepositPaid)

	resp, err := fx.svc.NoShow(context.Background(), 1, 42)
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusNoShow), resp.Status)
	require.Equal(t, 1, fx.customers.noShows)

	n := fx.notify.await(t)
	require.Equal(t, notifier.EventBookingNoShow, n.Event)
}

func TestNoShow_PendingRejected(t *testing.T) {
	fx := newFixture(domain.StatusPending, domain.PaymentStatusDepositPending)

	_, err := fx.svc.NoShow(context.Background(), 1, 42)
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Zero(t, fx.customers.noShows)
}

func TestMarkPaid_PendingInShopConfirms(t *testing.T) {
	fx := newFixture(domain.StatusPending, domain.PaymentStatusPending)
	fx.payments.payment.Status = domain.PaymentPayInShop

	resp, err := fx.svc.MarkPaid(context.Background(), 1, 42)
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusConfirmed), resp.Status)
	require.Equal(t, string(domain.PaymentStatusFullyPaid), resp.PaymentStatus)
	require.Equal(t, domain.PaymentSucceeded, fx.payments.payment.Status)

	// Оплата подтвердила pending-бронирование
	n := fx.notify.await(t)
	require.Equal(t, notifier.EventBookingConfirmed, n.Event)
}

func TestMarkPaid_ConfirmedPaysRemainder(t *testing.T) {
	fx := newFixture(domain.StatusConfirmed, domain.PaymentStatusDepositPaid)

	resp, err := fx.svc.MarkPaid(context.Background(), 1, 42)
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusConfirmed), resp.Status)
	require.Equal(t, string(domain.PaymentStatusFullyPaid), resp.PaymentStatus)
}

// Оплата остатка после состоявшегося визита: статус completed сохраняется
func TestMarkPaid_CompletedKeepsStatus(t *testing.T) {
	fx := newFixture(domain.StatusCompleted, domain.PaymentStatusDepositPaid)

	resp, err := fx.svc.MarkPaid(context.Background(), 1, 42)
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusCompleted), resp.Status)
	require.Equal(t, string(domain.PaymentStatusFullyPaid), resp.PaymentStatus)
	require.Equal(t, domain.PaymentSucceeded, fx.payments.payment.Status)
}

func TestMarkPaid_CancelledRejected(t *testing.T) {
	fx := newFixture(domain.StatusCancelled, domain.PaymentStatusCancelled)

	_, err := fx.svc.MarkPaid(context.Background(), 1, 42)
	require.ErrorIs(t, err, ErrNotPayable)
}

func TestGetByID_CrossTenantHidden(t *testing.T) {
	fx := newFixture(domain.StatusPending, domain.PaymentStatusDepositPending)

	// Чужой tenant не видит бронирование
	_, err := fx.svc.GetByID(context.Background(), 2, 42)
	require.ErrorIs(t, err, ErrBookingNotFound)

	resp, err := fx.svc.GetByID(context.Background(), 1, 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), resp.ID)
}
