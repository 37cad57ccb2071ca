package paymentgateway

import "errors"

var (
	// ErrAmountRejected возвращается, когда процессор отклонил сумму депозита
	ErrAmountRejected = errors.New("paymentgateway client: amount rejected by processor")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentgateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от процессора
	ErrInvalidResponse = errors.New("paymentgateway client: invalid response")

	// ErrInvalidSignature возвращается при несовпадении подписи webhook
	ErrInvalidSignature = errors.New("paymentgateway: invalid webhook signature")
)
