package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
)

func authedRequest(userID, role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}
	return req
}

func TestAuth_UserPlacedInContext(t *testing.T) {
	var gotID int64
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = middleware.GetUserID(r.Context())
		gotRole, _ = middleware.GetUserRole(r.Context())
	})

	rec := httptest.NewRecorder()
	middleware.Auth(next).ServeHTTP(rec, authedRequest("42", "staff"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(42), gotID)
	require.Equal(t, middleware.RoleStaff, gotRole)
}

func TestAuth_MissingUserID(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not be reached")
	})

	rec := httptest.NewRecorder()
	middleware.Auth(next).ServeHTTP(rec, authedRequest("", ""))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MalformedUserID(t *testing.T) {
	for _, raw := range []string{"abc", "-1", "0"} {
		rec := httptest.NewRecorder()
		middleware.Auth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
			ServeHTTP(rec, authedRequest(raw, ""))
		require.Equal(t, http.StatusUnauthorized, rec.Code, "user id %q", raw)
	}
}

// Пустая роль трактуется как customer
func TestAuth_DefaultRoleIsCustomer(t *testing.T) {
	var gotRole string
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotRole, _ = middleware.GetUserRole(r.Context())
	})

	rec := httptest.NewRecorder()
	middleware.Auth(next).ServeHTTP(rec, authedRequest("7", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, middleware.RoleCustomer, gotRole)
}

func TestAuth_UnknownRoleRejected(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.Auth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(rec, authedRequest("7", "superuser"))

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireStaff(t *testing.T) {
	cases := []struct {
		role       string
		wantStatus int
	}{
		{"staff", http.StatusOK},
		{"admin", http.StatusOK},
		{"customer", http.StatusForbidden},
		{"", http.StatusForbidden},
	}

	for _, tc := range cases {
		called := false
		guarded := middleware.RequireStaff(func(http.ResponseWriter, *http.Request) {
			called = true
		})

		rec := httptest.NewRecorder()
		middleware.Auth(http.HandlerFunc(guarded)).ServeHTTP(rec, authedRequest("7", tc.role))

		require.Equal(t, tc.wantStatus, rec.Code, "role %q", tc.role)
		require.Equal(t, tc.wantStatus == http.StatusOK, called, "role %q", tc.role)
	}
}
