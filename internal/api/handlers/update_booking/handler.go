package update_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/tenant"
	rescheduleBooking "github.com/m04kA/SMC-BarberBooking/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID    = "некорректный идентификатор бронирования"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgTenantRequired      = "салон не определён"
	msgBookingNotFound     = "бронирование не найдено"
	msgNotReschedulable    = "бронирование уже нельзя перенести"
	msgSlotConflict        = "выбранный временной слот уже занят"
	msgInvalidBookingDate  = "некорректная дата бронирования"
	msgOutsideWorkingHours = "выбранное время вне рабочих часов мастера"
	msgOverlapsBreak       = "выбранное время попадает на перерыв мастера"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id} - No tenant in context")
		handlers.RespondBadRequest(w, msgTenantRequired)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("PUT /bookings/{id} - Invalid booking id: %v", mux.Vars(r)["id"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(t.ID, id)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id} - Not found: booking_id=%d, tenant=%d", id, t.ID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, rescheduleBooking.ErrNotReschedulable):
			h.logger.Warn("PUT /bookings/{id} - Not reschedulable: booking_id=%d", id)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgNotReschedulable)

		case errors.Is(err, rescheduleBooking.ErrSlotConflict):
			h.logger.Warn("PUT /bookings/{id} - Slot conflict: booking_id=%d", id)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, rescheduleBooking.ErrInvalidDate):
			h.logger.Warn("PUT /bookings/{id} - Invalid date: booking_id=%d", id)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, rescheduleBooking.ErrOutsideWorkingHours):
			h.logger.Warn("PUT /bookings/{id} - Outside working hours: booking_id=%d", id)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, rescheduleBooking.ErrOverlapsBreak):
			h.logger.Warn("PUT /bookings/{id} - Overlaps break: booking_id=%d", id)
			handlers.RespondBadRequest(w, msgOverlapsBreak)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id} - Invalid input: booking_id=%d, error=%v", id, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /bookings/{id} - Failed: booking_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id} - Booking rescheduled: booking_id=%d, tenant=%d", id, t.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
