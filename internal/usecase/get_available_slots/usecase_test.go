package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	staffRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/staff"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fakeStaffRepo struct {
	barber *domain.Barber
	window *domain.AvailabilityWindow
	breaks []*domain.Break
}

func (f *fakeStaffRepo) GetByID(_ context.Context, _, _ int64) (*domain.Barber, error) {
	if f.barber == nil {
		return nil, staffRepo.ErrBarberNotFound
	}
	return f.barber, nil
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

type fakeCatalogRepo struct {
	service *domain.Service
}

func (f *fakeCatalogRepo) GetByID(_ context.Context, _, _ int64) (*domain.Service, error) {
	return f.service, nil
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) GetScheduleForDay(_ context.Context, _ domain.BarberScheduleFilter) ([]*domain.Booking, error) {
	return f.bookings, nil
}

func booked(start types.TimeString, minutes int, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              1,
		StartTime:       start,
		DurationMinutes: minutes,
		Status:          status,
	}
}

func newTestUseCase(staff *fakeStaffRepo, catalog *fakeCatalogRepo, bookings *fakeBookingRepo, now time.Time) *UseCase {
	uc := NewUseCase(bookings, staff, catalog, nopLogger{})
	uc.timeProvider = fixedTime{t: now}
	return uc
}

var (
	// Вторник
	testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
)

func defaultFakes() (*fakeStaffRepo, *fakeCatalogRepo, *fakeBookingRepo) {
	staff := &fakeStaffRepo{
		barber: &domain.Barber{ID: 1, TenantID: 1, Active: true},
		window: &domain.AvailabilityWindow{
			BarberID:  1,
			Weekday:   testDate.Weekday(),
			StartTime: "10:00",
			EndTime:   "12:00",
		},
	}
	catalog := &fakeCatalogRepo{
		service: &domain.Service{ID: 1, TenantID: 1, DurationMinutes: 30, PriceMinor: 100000, Active: true},
	}
	return staff, catalog, &fakeBookingRepo{}
}

func slotStarts(slots []Slot) []types.TimeString {
	out := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime)
	}
	return out
}

func TestExecute_FullWindow(t *testing.T) {
	staff, catalog, bookings := defaultFakes()
	uc := newTestUseCase(staff, catalog, bookings, testNow)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	// Услуга 30 минут в окне 10:00-12:00: последний старт 11:30
	require.Equal(t, []types.TimeString{
		"10:00", "10:15", "10:30", "10:45",
		"11:00", "11:15", "11:30",
	}, slotStarts(resp.Slots))
}

func TestExecute_BookingBlocksSlots_AdjacencyAllowed(t *testing.T) {
	staff, catalog, bookings := defaultFakes()
	bookings.bookings = []*domain.Booking{booked("10:30", 30, domain.StatusConfirmed)}
	uc := newTestUseCase(staff, catalog, bookings, testNow)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	// Бронирование 10:30-11:00: слот 10:00 (заканчивается ровно в 10:30)
	// и слот 11:00 (начинается ровно в 11:00) остаются доступны
	require.Equal(t, []types.TimeString{
		"10:00", "11:00", "11:15", "11:30",
	}, slotStarts(resp.Slots))
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	staff, catalog, bookings := defaultFakes()
	bookings.bookings = []*domain.Booking{booked("10:30", 30, domain.StatusCancelled)}
	uc := newTestUseCase(staff, catalog, bookings, testNow)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 7)
}

func TestExecute_CompletedAndNoShowStillBlock(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCompleted, domain.StatusNoShow} {
		staff, catalog, bookings := defaultFakes()
		bookings.bookings = []*domain.Booking{booked("10:30", 30, status)}
		uc := newTestUseCase(staff, catalog, bookings, testNow)

		resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BarberID: 1, ServiceID: 1, Date: testDate})
		require.NoError(t, err)
		require.Equal(t, []types.TimeString{"10:00", "11:00", "11:15", "11:30"}, slotStarts(resp.Slots), "status %s", status)
	}
}

func TestExecute_BreakExcluded(t *testing.T) {
	staff, catalog, bookings := defaultFakes()
	staff.breaks = []*domain.Break{{StartTime: "11:00", EndTime: "11:30"}}
	uc := newTestUseCase(staff, catalog, bookings, testNow)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	// Перерыв 11:00-11:30: слоты, пересекающие его, исчезают; примыкающие остаются
	require.Equal(t, []types.TimeString{
		"10:00", "10:15", "10:30", "11:30",
	}, slotStarts(resp.Slots))
}

func TestExecute_DayOffReturnsEmpty(t *testing.T) {
	staff, catalog, bookings := defaultFakes()
	staff.window = nil
	uc := newTestUseCase(staff, catalog, bookings, testNow)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)
	require.Empty(t, resp.Slots)
}

func TestExecute_PastDateReturnsEmpty(t *testing.T) {
	staff, catalog, bookings := defaultFakes()
	uc := newTestUseCase(staff, catalog, bookings, time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)
	require.Empty(t, resp.Slots)
}

func TestExecute_TodayPastSlotsFiltered(t *testing.T) {
	staff, catalog, bookings := defaultFakes()
	// Сейчас 10:50 того же дня: слоты раньше 10:50 не предлагаются
	now := time.Date(2026, 9, 15, 10, 50, 0, 0, time.UTC)
	uc := newTestUseCase(staff, catalog, bookings, now)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)
	require.Equal(t, []types.TimeString{"11:00", "11:15", "11:30"}, slotStarts(resp.Slots))
}

func TestExecute_InactiveBarber(t *testing.T) {
	staff, catalog, bookings := defaultFakes()
	staff.barber.Active = false
	uc := newTestUseCase(staff, catalog, bookings, testNow)

	_, err := uc.Execute(context.Background(), &Request{TenantID: 1, BarberID: 1, ServiceID: 1, Date: testDate})
	require.ErrorIs(t, err, ErrBarberNotFound)
}

func TestExecute_InactiveService(t *testing.T) {
	staff, catalog, bookings := defaultFakes()
	catalog.service.Active = false
	uc := newTestUseCase(staff, catalog, bookings, testNow)

	_, err := uc.Execute(context.Background(), &Request{TenantID: 1, BarberID: 1, ServiceID: 1, Date: testDate})
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ServiceLongerThanWindow(t *testing.T) {
	staff, catalog, bookings := defaultFakes()
	catalog.service.DurationMinutes = 180
	uc := newTestUseCase(staff, catalog, bookings, testNow)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)
	require.Empty(t, resp.Slots)
}
