package tenant_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/tenant"
)

func newResolver() *tenant.Resolver {
	return tenant.NewResolver([]string{"www", "api", "localhost"})
}

func TestResolver_Subdomain(t *testing.T) {
	r := newResolver()

	cases := []struct {
		host string
		want string
	}{
		{"barbershop-x.example.com", "barbershop-x"},
		{"barbershop-x.example.com:8080", "barbershop-x"},
		{"BarberShop-X.Example.Com", "barbershop-x"},
		{"example.com", ""},       // нет поддомена
		{"www.example.com", ""},   // игнорируемый поддомен
		{"api.example.com", ""},   // игнорируемый поддомен
		{"localhost", ""},         // не домен с зоной
		{"localhost:8080", ""},    //
		{"127.0.0.1", ""},         // IP без поддоменов
		{"127.0.0.1:8080", ""},    //
		{"192.168.1.10:443", ""},  //
	}

	for _, tc := range cases {
		t.Run(tc.host, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/bookings", nil)
			req.Host = tc.host

			require.Equal(t, tc.want, r.ResolveSlug(req))
		})
	}
}

func TestResolver_HeaderFallback(t *testing.T) {
	r := newResolver()

	req := httptest.NewRequest("GET", "/api/v1/bookings", nil)
	req.Host = "example.com"
	req.Header.Set(tenant.HeaderSlug, "Barbershop-Y")

	require.Equal(t, "barbershop-y", r.ResolveSlug(req))
}

func TestResolver_QueryFallback(t *testing.T) {
	r := newResolver()

	req := httptest.NewRequest("GET", "/api/v1/bookings?business=barbershop-z", nil)
	req.Host = "example.com"

	require.Equal(t, "barbershop-z", r.ResolveSlug(req))
}

// Первая непустая стратегия выигрывает: поддомен важнее заголовка, заголовок важнее query.
func TestResolver_Precedence(t *testing.T) {
	r := newResolver()

	req := httptest.NewRequest("GET", "/api/v1/bookings?business=from-query", nil)
	req.Host = "from-host.example.com"
	req.Header.Set(tenant.HeaderSlug, "from-header")

	require.Equal(t, "from-host", r.ResolveSlug(req))

	req.Host = "example.com"
	require.Equal(t, "from-header", r.ResolveSlug(req))

	req.Header.Del(tenant.HeaderSlug)
	require.Equal(t, "from-query", r.ResolveSlug(req))
}

func TestResolver_NothingResolves(t *testing.T) {
	r := newResolver()

	req := httptest.NewRequest("GET", "/api/v1/bookings", nil)
	req.Host = "example.com"

	require.Equal(t, "", r.ResolveSlug(req))
}
