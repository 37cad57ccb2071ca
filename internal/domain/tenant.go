package domain

import "time"

// Tenant represents an isolated business (barbershop) in the system.
// All scheduling data is partitioned by tenant; no data is shared across tenants.
type Tenant struct {
	ID        int64
	Slug      string // Уникальный идентификатор в поддомене/заголовке/query-параметре
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
