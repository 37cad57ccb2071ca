package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-BarberBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CustomerID  int64  `json:"customerId"`
	BarberID    int64  `json:"barberId"`
	ServiceID   int64  `json:"serviceId"`
	BookingDate string `json:"bookingDate"` // "2026-09-15"
	StartTime   string `json:"startTime"`   // "10:00"

	PaymentMethod string `json:"paymentMethod"` // online | in_shop
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64  `json:"id"`
	CustomerID      int64  `json:"customerId"`
	BarberID        int64  `json:"barberId"`
	ServiceID       int64  `json:"serviceId"`
	BookingDate     string `json:"bookingDate"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
	PaymentStatus   string `json:"paymentStatus"`

	ServiceName      string `json:"serviceName"`
	PriceMinor       int64  `json:"priceMinor"`
	DepositMinor     int64  `json:"depositMinor"`
	OutstandingMinor int64  `json:"outstandingMinor"`

	ExpiresAt   *string `json:"expiresAt,omitempty"`
	CheckoutURL string  `json:"checkoutUrl,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(tenantID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		TenantID:   tenantID,
		CustomerID: r.CustomerID,
		BarberID:   r.BarberID,
		ServiceID:  r.ServiceID,
		Date:       bookingDate,
		StartTime:  startTime,

		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	out := &BookingResponse{
		ID:               resp.ID,
		CustomerID:       resp.CustomerID,
		BarberID:         resp.BarberID,
		ServiceID:        resp.ServiceID,
		BookingDate:      resp.BookingDate.Format(domain.DateFormat),
		StartTime:        resp.StartTime.String(),
		DurationMinutes:  resp.DurationMinutes,
		Status:           resp.Status,
		PaymentStatus:    resp.PaymentStatus,
		ServiceName:      resp.ServiceName,
		PriceMinor:       resp.PriceMinor,
		DepositMinor:     resp.DepositMinor,
		OutstandingMinor: resp.OutstandingMinor,
		CheckoutURL:      resp.CheckoutURL,
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.ExpiresAt != nil {
		expires := resp.ExpiresAt.Format(time.RFC3339)
		out.ExpiresAt = &expires
	}

	return out
}
