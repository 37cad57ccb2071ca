package get_barber_schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings"
	"github.com/m04kA/SMC-BarberBooking/internal/tenant"
)

const (
	msgInvalidBarberID = "некорректный идентификатор мастера"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgTenantRequired  = "салон не определён"
)

// ScheduleResponse HTTP response model
type ScheduleResponse struct {
	BarberID int64                   `json:"barberId"`
	Date     string                  `json:"date"`
	Bookings []*handlers.BookingView `json:"bookings"`
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/barber/{id}/schedule?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/barber/{id}/schedule - No tenant in context")
		handlers.RespondBadRequest(w, msgTenantRequired)
		return
	}

	barberID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || barberID <= 0 {
		h.logger.Warn("GET /bookings/barber/{id}/schedule - Invalid barber id: %v", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /bookings/barber/{id}/schedule - Invalid date: %v", r.URL.Query().Get("date"))
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GetBarberSchedule(r.Context(), t.ID, barberID, date)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings/barber/{id}/schedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBarberID)
		default:
			h.logger.Error("GET /bookings/barber/{id}/schedule - Failed: barber_id=%d, error=%v", barberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	views := make([]*handlers.BookingView, len(result.Bookings))
	for i, b := range result.Bookings {
		views[i] = handlers.ToBookingView(b)
	}

	handlers.RespondJSON(w, http.StatusOK, ScheduleResponse{
		BarberID: result.BarberID,
		Date:     result.Date.Format(domain.DateFormat),
		Bookings: views,
	})
}
