package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client клиент платёжного процессора.
// Намерение создаётся ДО захвата блокировки расписания: сетевой вызов
// не должен удерживать advisory lock.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платёжного процессора
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CreateIntent создает платёжное намерение на депозит.
// Idempotency key генерируется на каждый вызов: повтор запроса после
// сетевой ошибки — это новое намерение, старое истечёт на стороне процессора.
func (c *Client) CreateIntent(ctx context.Context, amountMinor int64, currency, description string) (*Intent, error) {
	reqBody := CreateIntentRequest{
		AmountMinor:    amountMinor,
		Currency:       currency,
		Description:    description,
		IdempotencyKey: uuid.NewString(),
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/v1/intents", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", reqBody.IdempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: amount_minor=%d", ErrAmountRejected, amountMinor)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if intent.ID == "" {
		return nil, fmt.Errorf("%w: empty intent id", ErrInvalidResponse)
	}

	c.log.Info("Created payment intent id=%s amount_minor=%d", intent.ID, amountMinor)

	return &intent, nil
}
