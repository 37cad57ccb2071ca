package domain

import "time"

// Customer represents a tenant-scoped customer reference
type Customer struct {
	ID          int64
	TenantID    int64
	DisplayName string
	Phone       string
	NoShowCount int  // Счётчик неявок, растёт при переводе бронирования в no_show
	Blacklisted bool // Заблокированный клиент не может создавать бронирования
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
