package cancel_booking

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings"
	"github.com/m04kA/SMC-BarberBooking/internal/tenant"
)

const (
	msgInvalidBookingID   = "некорректный идентификатор бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgTenantRequired     = "салон не определён"
	msgBookingNotFound    = "бронирование не найдено"
	msgCannotCancel       = "бронирование уже нельзя отменить"
	msgAccessDenied       = "отменить можно только своё бронирование"
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

// Handle PATCH /api/v1/bookings/{id}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - No tenant in context")
		handlers.RespondBadRequest(w, msgTenantRequired)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking id: %v", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Тело опционально: отмена без причины допустима
	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Клиент отменяет только свои бронирования, персонал — любые в своём салоне
	userID, _ := middleware.GetUserID(r.Context())
	role, _ := middleware.GetUserRole(r.Context())
	if role == middleware.RoleCustomer {
		existing, err := h.service.GetByID(r.Context(), t.ID, id)
		if err != nil {
			if errors.Is(err, bookings.ErrBookingNotFound) {
				h.logger.Warn("PATCH /bookings/{id}/cancel - Not found: booking_id=%d, tenant=%d", id, t.ID)
				handlers.RespondNotFound(w, msgBookingNotFound)
				return
			}
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed: booking_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
			return
		}
		if existing.CustomerID != userID {
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d, user_id=%d", id, userID)
			handlers.RespondForbidden(w, msgAccessDenied)
			return
		}
	}

	result, err := h.service.Cancel(r.Context(), t.ID, id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Not found: booking_id=%d, tenant=%d", id, t.ID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid transition: booking_id=%d", id)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgCannotCancel)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid input: booking_id=%d, error=%v", id, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed: booking_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled: booking_id=%d, tenant=%d", id, t.ID)
	handlers.RespondJSON(w, http.StatusOK, handlers.ToBookingView(result))
}
