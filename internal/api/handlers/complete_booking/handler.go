package complete_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings"
	"github.com/m04kA/SMC-BarberBooking/internal/tenant"
)

const (
	msgInvalidBookingID = "некорректный идентификатор бронирования"
	msgTenantRequired   = "салон не определён"
	msgBookingNotFound  = "бронирование не найдено"
	msgCannotComplete   = "бронирование нельзя отметить выполненным"
)

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

// Handle PUT /api/v1/bookings/{id}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/complete - No tenant in context")
		handlers.RespondBadRequest(w, msgTenantRequired)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("PUT /bookings/{id}/complete - Invalid booking id: %v", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.service.Complete(r.Context(), t.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id}/complete - Not found: booking_id=%d, tenant=%d", id, t.ID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PUT /bookings/{id}/complete - Invalid transition: booking_id=%d", id)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgCannotComplete)

		default:
			h.logger.Error("PUT /bookings/{id}/complete - Failed: booking_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/complete - Booking completed: booking_id=%d, tenant=%d", id, t.ID)
	handlers.RespondJSON(w, http.StatusOK, handlers.ToBookingView(result))
}
