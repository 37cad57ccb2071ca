package tenant

import "errors"

var (
	// ErrTenantRequired возвращается, когда запрос не содержит идентификатор tenant
	ErrTenantRequired = errors.New("tenant: tenant identifier is required")

	// ErrTenantNotFound возвращается, когда slug не соответствует ни одному tenant
	ErrTenantNotFound = errors.New("tenant: tenant not found")
)
