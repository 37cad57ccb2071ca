package reschedule_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	staffRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/staff"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fakeBookingRepo struct {
	bookings    map[int64]*domain.Booking
	rescheduled bool
}

func (f *fakeBookingRepo) GetByID(_ context.Context, tenantID, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok || b.TenantID != tenantID {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) LockSchedule(_ context.Context, _, _ int64, _ time.Time) error {
	return nil
}

func (f *fakeBookingRepo) GetScheduleForDay(_ context.Context, filter domain.BarberScheduleFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.TenantID == filter.TenantID && b.BarberID == filter.BarberID &&
			b.BookingDate.Equal(filter.Date) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) Reschedule(_ context.Context, id int64, date time.Time, startTime types.TimeString) error {
	f.rescheduled = true
	f.bookings[id].BookingDate = date
	f.bookings[id].StartTime = startTime
	return nil
}

type fakeStaffRepo struct {
	window *domain.AvailabilityWindow
	breaks []*domain.Break
}

func (f *fakeStaffRepo) GetWindowForWeekday(_ context.Context, _, _ int64, _ time.Weekday) (*domain.AvailabilityWindow, error) {
	if f.window == nil {
		return nil, staffRepo.ErrWindowNotFound
	}
	return f.window, nil
}

func (f *fakeStaffRepo) ListBreaks(_ context.Context, _, _ int64) ([]*domain.Break, error) {
	return f.breaks, nil
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var (
	// Вторник
	testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
)

func testBooking(id int64, start types.TimeString, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		TenantID:        1,
		BarberID:        1,
		BookingDate:     testDate,
		StartTime:       start,
		DurationMinutes: 30,
		Status:          status,
	}
}

func newTestUseCase(bookings *fakeBookingRepo, staff *fakeStaffRepo) *UseCase {
	uc := NewUseCase(bookings, staff, passthroughTx{}, nopLogger{})
	uc.timeProvider = fixedTime{t: testNow}
	return uc
}

func defaultStaff() *fakeStaffRepo {
	return &fakeStaffRepo{
		window: &domain.AvailabilityWindow{
			BarberID:  1,
			Weekday:   testDate.Weekday(),
			StartTime: "10:00",
			EndTime:   "19:00",
		},
	}
}

func TestExecute_MoveWithinDay(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		42: testBooking(42, "10:00", domain.StatusConfirmed),
	}}
	uc := newTestUseCase(bookings, defaultStaff())

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		BookingID: 42,
		Date:      testDate,
		StartTime: "15:00",
	})
	require.NoError(t, err)
	require.True(t, bookings.rescheduled)
	require.Equal(t, types.TimeString("15:00"), resp.StartTime)
}

// Переносимое бронирование не конфликтует само с собой:
// сдвиг на 15 минут внутри собственного интервала допустим.
func TestExecute_SelfExcludedFromConflictCheck(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		42: testBooking(42, "10:00", domain.StatusConfirmed),
	}}
	uc := newTestUseCase(bookings, defaultStaff())

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		BookingID: 42,
		Date:      testDate,
		StartTime: "10:15",
	})
	require.NoError(t, err)
}

func TestExecute_ConflictWithOtherBooking(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		42: testBooking(42, "10:00", domain.StatusConfirmed),
		43: testBooking(43, "12:00", domain.StatusPending),
	}}
	uc := newTestUseCase(bookings, defaultStaff())

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		BookingID: 42,
		Date:      testDate,
		StartTime: "12:15",
	})
	require.ErrorIs(t, err, ErrSlotConflict)
	require.False(t, bookings.rescheduled)
}

func TestExecute_CancelledBookingDoesNotConflict(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		42: testBooking(42, "10:00", domain.StatusConfirmed),
		43: testBooking(43, "12:00", domain.StatusCancelled),
	}}
	uc := newTestUseCase(bookings, defaultStaff())

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		BookingID: 42,
		Date:      testDate,
		StartTime: "12:00",
	})
	require.NoError(t, err)
}

func TestExecute_TerminalBookingRejected(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCompleted, domain.StatusCancelled, domain.StatusNoShow} {
		bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
			42: testBooking(42, "10:00", status),
		}}
		uc := newTestUseCase(bookings, defaultStaff())

		_, err := uc.Execute(context.Background(), &Request{
			TenantID:  1,
			BookingID: 42,
			Date:      testDate,
			StartTime: "15:00",
		})
		require.ErrorIs(t, err, ErrNotReschedulable, "status %s", status)
	}
}

func TestExecute_CrossTenantHidden(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		42: testBooking(42, "10:00", domain.StatusConfirmed),
	}}
	uc := newTestUseCase(bookings, defaultStaff())

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:  2,
		BookingID: 42,
		Date:      testDate,
		StartTime: "15:00",
	})
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_OutsideWindow(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		42: testBooking(42, "10:00", domain.StatusConfirmed),
	}}
	uc := newTestUseCase(bookings, defaultStaff())

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		BookingID: 42,
		Date:      testDate,
		StartTime: "18:45", // 30 минут вылезают за 19:00
	})
	require.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_OverlapsBreak(t *testing.T) {
	staff := defaultStaff()
	staff.breaks = []*domain.Break{{StartTime: "13:00", EndTime: "14:00"}}
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		42: testBooking(42, "10:00", domain.StatusConfirmed),
	}}
	uc := newTestUseCase(bookings, staff)

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		BookingID: 42,
		Date:      testDate,
		StartTime: "13:30",
	})
	require.ErrorIs(t, err, ErrOverlapsBreak)
}

func TestExecute_PastDate(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		42: testBooking(42, "10:00", domain.StatusConfirmed),
	}}
	uc := newTestUseCase(bookings, defaultStaff())

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		BookingID: 42,
		Date:      testNow.AddDate(0, 0, -1),
		StartTime: "15:00",
	})
	require.ErrorIs(t, err, ErrInvalidDate)
}
