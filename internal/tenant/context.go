package tenant

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// ctxKey приватный тип ключа, чтобы значение нельзя было перезаписать извне пакета
type ctxKey struct{}

// WithTenant кладёт tenant в контекст запроса.
// Tenant живёт ровно столько, сколько живёт контекст запроса, поэтому
// не может «протечь» между запросами при переиспользовании горутин.
func WithTenant(ctx context.Context, t *domain.Tenant) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext возвращает tenant текущего запроса
func FromContext(ctx context.Context) (*domain.Tenant, bool) {
	t, ok := ctx.Value(ctxKey{}).(*domain.Tenant)
	return t, ok && t != nil
}
