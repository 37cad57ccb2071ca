package payments

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда intent не найден
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrUnknownEvent возвращается при неизвестном типе события webhook
	ErrUnknownEvent = errors.New("unknown webhook event")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
