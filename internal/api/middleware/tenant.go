package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/tenant"
	tenantRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/tenant"
)

const (
	msgTenantRequired = "салон не определён: укажите поддомен, заголовок X-Business-Slug или параметр business"
	msgTenantNotFound = "салон не найден"
)

// TenantRepository интерфейс репозитория tenant
type TenantRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Tenant резолвит tenant запроса и кладёт его в контекст.
// Пути из skipPrefixes (webhook, health, metrics) пропускаются без tenant:
// они либо не несут tenant-контекста, либо обслуживают инфраструктуру.
func Tenant(resolver *tenant.Resolver, repo TenantRepository, logger Logger, skipPrefixes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			slug := resolver.ResolveSlug(r)
			if slug == "" {
				logger.Warn("Tenant middleware: no slug in request %s %s (host=%s)", r.Method, r.URL.Path, r.Host)
				handlers.RespondBadRequest(w, msgTenantRequired)
				return
			}

			t, err := repo.GetBySlug(r.Context(), slug)
			if err != nil {
				if errors.Is(err, tenantRepo.ErrTenantNotFound) {
					logger.Warn("Tenant middleware: unknown slug %q", slug)
					handlers.RespondNotFound(w, msgTenantNotFound)
					return
				}
				logger.Error("Tenant middleware: failed to resolve slug %q: %v", slug, err)
				handlers.RespondInternalError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(tenant.WithTenant(r.Context(), t)))
		})
	}
}
