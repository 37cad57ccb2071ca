package payment_webhook

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/integrations/paymentgateway"
)

type PaymentService interface {
	HandleOutcome(ctx context.Context, event paymentgateway.WebhookEvent) error
}

type SignatureVerifier interface {
	Verify(body []byte, signature string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
