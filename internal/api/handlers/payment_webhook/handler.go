package payment_webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-BarberBooking/internal/service/payments"
)

// maxBodySize предельный размер тела webhook
const maxBodySize = 64 * 1024

const (
	msgInvalidBody      = "некорректное тело запроса"
	msgInvalidSignature = "неверная подпись запроса"
	msgUnknownIntent    = "платёж не найден"
)

type Handler struct {
	service  PaymentService
	verifier SignatureVerifier
	logger   Logger
}

func NewHandler(service PaymentService, verifier SignatureVerifier, logger Logger) *Handler {
	return &Handler{
		service:  service,
		verifier: verifier,
		logger:   logger,
	}
}

// Handle POST /api/v1/payments/webhook
// Запрос приходит от платёжного процессора, tenant-контекста нет.
// Подпись проверяется по сырому телу до парсинга JSON.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		h.logger.Warn("POST /payments/webhook - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if err := h.verifier.Verify(body, r.Header.Get(paymentgateway.SignatureHeader)); err != nil {
		h.logger.Warn("POST /payments/webhook - Invalid signature from %s", r.RemoteAddr)
		handlers.RespondError(w, http.StatusUnauthorized, msgInvalidSignature)
		return
	}

	var event paymentgateway.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Warn("POST /payments/webhook - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if event.IntentID == "" || event.Event == "" {
		h.logger.Warn("POST /payments/webhook - Missing intent_id or event")
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if err := h.service.HandleOutcome(r.Context(), event); err != nil {
		switch {
		case errors.Is(err, payments.ErrPaymentNotFound):
			h.logger.Warn("POST /payments/webhook - Unknown intent: %s", event.IntentID)
			handlers.RespondNotFound(w, msgUnknownIntent)

		case errors.Is(err, payments.ErrUnknownEvent):
			h.logger.Warn("POST /payments/webhook - Unknown event type: %s", event.Event)
			handlers.RespondBadRequest(w, msgInvalidBody)

		default:
			h.logger.Error("POST /payments/webhook - Failed: intent=%s, error=%v", event.IntentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/webhook - Processed: intent=%s, event=%s", event.IntentID, event.Event)
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
