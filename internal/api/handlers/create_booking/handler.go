package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/tenant"
	createBooking "github.com/m04kA/SMC-BarberBooking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgTenantRequired      = "салон не определён"
	msgSlotConflict        = "выбранный временной слот уже занят"
	msgBarberNotFound      = "мастер не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgServiceInactive     = "услуга недоступна для записи"
	msgCustomerNotFound    = "клиент не найден"
	msgCustomerBlocked     = "запись недоступна, обратитесь в салон"
	msgInvalidBookingDate  = "некорректная дата бронирования"
	msgOutsideWorkingHours = "выбранное время вне рабочих часов мастера"
	msgOverlapsBreak       = "выбранное время попадает на перерыв мастера"
	msgAmountTooSmall      = "сумма депозита слишком мала для онлайн-оплаты"
	msgPaymentUnavailable  = "платёжный сервис временно недоступен, попробуйте позже"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - No tenant in context")
		handlers.RespondBadRequest(w, msgTenantRequired)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(t.ID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: tenant=%d, barber=%d", t.ID, req.BarberID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, createBooking.ErrCustomerBlocked):
			h.logger.Warn("POST /bookings - Customer blocked: tenant=%d, customer=%d", t.ID, req.CustomerID)
			handlers.RespondError(w, http.StatusForbidden, msgCustomerBlocked)

		case errors.Is(err, createBooking.ErrBarberNotFound):
			h.logger.Warn("POST /bookings - Barber not found: tenant=%d, barber=%d", t.ID, req.BarberID)
			handlers.RespondNotFound(w, msgBarberNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: tenant=%d, service=%d", t.ID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrServiceInactive):
			h.logger.Warn("POST /bookings - Service inactive: tenant=%d, service=%d", t.ID, req.ServiceID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgServiceInactive)

		case errors.Is(err, createBooking.ErrCustomerNotFound):
			h.logger.Warn("POST /bookings - Customer not found: tenant=%d, customer=%d", t.ID, req.CustomerID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: tenant=%d", t.ID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: tenant=%d, barber=%d", t.ID, req.BarberID)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, createBooking.ErrOverlapsBreak):
			h.logger.Warn("POST /bookings - Overlaps break: tenant=%d, barber=%d", t.ID, req.BarberID)
			handlers.RespondBadRequest(w, msgOverlapsBreak)

		case errors.Is(err, createBooking.ErrAmountTooSmall):
			h.logger.Warn("POST /bookings - Deposit too small: tenant=%d, service=%d", t.ID, req.ServiceID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgAmountTooSmall)

		case errors.Is(err, createBooking.ErrPaymentGateway):
			h.logger.Error("POST /bookings - Payment gateway error: tenant=%d, error=%v", t.ID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgPaymentUnavailable)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: tenant=%d, error=%v", t.ID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: tenant=%d, error=%v", t.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, tenant=%d, barber=%d",
		result.ID, t.ID, req.BarberID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
