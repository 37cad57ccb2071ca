package domain

import "time"

// Service represents a bookable service in a tenant's catalog.
// Services are soft-deleted via the Active flag so historical bookings
// keep resolving their service reference.
type Service struct {
	ID              int64
	TenantID        int64
	Name            string
	DurationMinutes int
	PriceMinor      int64 // Цена в минорных единицах валюты (копейки/центы)
	DepositPercent  int   // 0–100
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
