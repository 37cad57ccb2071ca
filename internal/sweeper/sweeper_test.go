package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BarberBooking/internal/notifier"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fakeBookingRepo struct {
	expired   []*domain.Booking
	cancelErr map[int64]error
	cancelled []int64
}

func (f *fakeBookingRepo) FindExpired(_ context.Context, _ time.Time, _ int) ([]*domain.Booking, error) {
	return f.expired, nil
}

func (f *fakeBookingRepo) CancelExpired(_ context.Context, id int64, _ string) error {
	if err := f.cancelErr[id]; err != nil {
		return err
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

type fakePaymentRepo struct {
	payments map[int64]*domain.Payment // по booking id
	updates  []domain.PaymentState
}

func (f *fakePaymentRepo) GetByBookingID(_ context.Context, bookingID int64) (*domain.Payment, error) {
	return f.payments[bookingID], nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, _ int64, status domain.PaymentState) error {
	f.updates = append(f.updates, status)
	return nil
}

type fakeCustomerRepo struct{}

func (fakeCustomerRepo) GetByID(_ context.Context, _, _ int64) (*domain.Customer, error) {
	return &domain.Customer{ID: 7, Phone: "+79001234567", DisplayName: "Иван"}, nil
}

type fakeNotifier struct {
	ch chan notifier.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n notifier.Notification) {
	f.ch <- n
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func expiredBooking(id int64) *domain.Booking {
	expires := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:            id,
		TenantID:      1,
		CustomerID:    7,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentStatusDepositPending,
		ExpiresAt:     &expires,
	}
}

func newTestSweeper(bookings *fakeBookingRepo, payments *fakePaymentRepo, notify *fakeNotifier) *Sweeper {
	s := New(bookings, payments, fakeCustomerRepo{}, notify, passthroughTx{}, 100, nopLogger{})
	s.timeProvider = fixedTime{t: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	return s
}

func TestSweep_CancelsExpiredAndFailsPayment(t *testing.T) {
	bookings := &fakeBookingRepo{expired: []*domain.Booking{expiredBooking(1)}}
	payments := &fakePaymentRepo{payments: map[int64]*domain.Payment{
		1: {ID: 10, BookingID: 1, Status: domain.PaymentPending},
	}}
	notify := &fakeNotifier{ch: make(chan notifier.Notification, 1)}
	s := newTestSweeper(bookings, payments, notify)

	require.Equal(t, 1, s.Sweep(context.Background()))
	require.Equal(t, []int64{1}, bookings.cancelled)
	require.Equal(t, []domain.PaymentState{domain.PaymentFailed}, payments.updates)

	select {
	case n := <-notify.ch:
		require.Equal(t, notifier.EventBookingExpired, n.Event)
	case <-time.After(time.Second):
		t.Fatal("expiry notification was not dispatched")
	}
}

func TestSweep_NothingExpired(t *testing.T) {
	bookings := &fakeBookingRepo{}
	payments := &fakePaymentRepo{}
	notify := &fakeNotifier{ch: make(chan notifier.Notification, 1)}
	s := newTestSweeper(bookings, payments, notify)

	require.Zero(t, s.Sweep(context.Background()))
}

// Бронирование успели подтвердить между FindExpired и отменой:
// guard в CancelExpired не находит строку, sweeper пропускает без ошибки.
func TestSweep_ConfirmedMeanwhileSkipped(t *testing.T) {
	bookings := &fakeBookingRepo{
		expired:   []*domain.Booking{expiredBooking(1)},
		cancelErr: map[int64]error{1: bookingRepo.ErrBookingNotFound},
	}
	payments := &fakePaymentRepo{}
	notify := &fakeNotifier{ch: make(chan notifier.Notification, 1)}
	s := newTestSweeper(bookings, payments, notify)

	s.Sweep(context.Background())

	require.Empty(t, bookings.cancelled)
	require.Empty(t, payments.updates)

	select {
	case <-notify.ch:
		t.Fatal("no notification expected for skipped booking")
	case <-time.After(50 * time.Millisecond):
	}
}

// Сбой на одном бронировании не останавливает остальные.
func TestSweep_FailureIsolation(t *testing.T) {
	bookings := &fakeBookingRepo{
		expired: []*domain.Booking{expiredBooking(1), expiredBooking(2)},
		cancelErr: map[int64]error{
			1: errors.New("deadlock detected"),
		},
	}
	payments := &fakePaymentRepo{payments: map[int64]*domain.Payment{
		2: {ID: 20, BookingID: 2, Status: domain.PaymentPending},
	}}
	notify := &fakeNotifier{ch: make(chan notifier.Notification, 2)}
	s := newTestSweeper(bookings, payments, notify)

	require.Equal(t, 1, s.Sweep(context.Background()))
	require.Equal(t, []int64{2}, bookings.cancelled)
}

// Успевший пройти платёж не перезаписывается в failed.
func TestSweep_FinalPaymentUntouched(t *testing.T) {
	bookings := &fakeBookingRepo{expired: []*domain.Booking{expiredBooking(1)}}
	payments := &fakePaymentRepo{payments: map[int64]*domain.Payment{
		1: {ID: 10, BookingID: 1, Status: domain.PaymentSucceeded},
	}}
	notify := &fakeNotifier{ch: make(chan notifier.Notification, 1)}
	s := newTestSweeper(bookings, payments, notify)

	require.Equal(t, 1, s.Sweep(context.Background()))
	require.Empty(t, payments.updates)
}
