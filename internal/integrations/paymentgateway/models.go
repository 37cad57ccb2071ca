package paymentgateway

// CreateIntentRequest запрос на создание платёжного намерения у процессора
type CreateIntentRequest struct {
	AmountMinor    int64  `json:"amount_minor"`
	Currency       string `json:"currency"`
	Description    string `json:"description"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Intent платёжное намерение, созданное процессором
type Intent struct {
	ID          string `json:"id"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url"`
}

// WebhookEvent событие от процессора о результате платежа
type WebhookEvent struct {
	IntentID string `json:"intent_id"`
	Event    string `json:"event"` // payment.succeeded | payment.failed
}

// Типы событий webhook
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
)

// ErrorResponse модель ошибки от процессора
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
