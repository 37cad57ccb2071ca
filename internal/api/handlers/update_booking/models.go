package update_booking

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	rescheduleBooking "github.com/m04kA/SMC-BarberBooking/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// UpdateBookingRequest HTTP request model
type UpdateBookingRequest struct {
	BookingDate string `json:"bookingDate"` // "2026-09-15"
	StartTime   string `json:"startTime"`   // "10:00"
}

// UpdateBookingResponse HTTP response model
type UpdateBookingResponse struct {
	ID              int64  `json:"id"`
	BarberID        int64  `json:"barberId"`
	BookingDate     string `json:"bookingDate"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
	PaymentStatus   string `json:"paymentStatus"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(tenantID, bookingID int64) (*rescheduleBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		TenantID:  tenantID,
		BookingID: bookingID,
		Date:      bookingDate,
		StartTime: startTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *UpdateBookingResponse {
	return &UpdateBookingResponse{
		ID:              resp.ID,
		BarberID:        resp.BarberID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		PaymentStatus:   resp.PaymentStatus,
	}
}
