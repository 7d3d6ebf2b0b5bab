package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"craftconnect-be/internal/identity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestExtractAccessToken(t *testing.T) {
	t.Run("FromCookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/orders", nil)
		r.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
		r.Header.Set("Authorization", "Bearer header-token")

		assert.Equal(t, "cookie-token", ExtractAccessToken(r))
	})

	t.Run("FromHeader", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/orders", nil)
		r.Header.Set("Authorization", "Bearer header-token")

		assert.Equal(t, "header-token", ExtractAccessToken(r))
	})

	t.Run("Missing", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/orders", nil)
		assert.Equal(t, "", ExtractAccessToken(r))
	})
}

func TestAuthMiddleware(t *testing.T) {
	mw := NewAuthMiddleware(testSecret)

	capture := func(got *identity.Identity, ok *bool) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, found := identity.FromContext(r.Context())
			*got = id
			*ok = found
		})
	}

	t.Run("ValidToken", func(t *testing.T) {
		var id identity.Identity
		var ok bool

		token := signToken(t, jwt.MapClaims{
			"user_id": "buyer-1",
			"role":    "buyer",
			"exp":     time.Now().Add(time.Hour).Unix(),
		}, testSecret)

		r := httptest.NewRequest(http.MethodGet, "/orders", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		mw(capture(&id, &ok)).ServeHTTP(httptest.NewRecorder(), r)

		assert.True(t, ok)
		assert.Equal(t, "buyer-1", id.UserID)
		assert.Equal(t, identity.RoleBuyer, id.Role)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		var id identity.Identity
		var ok bool

		token := signToken(t, jwt.MapClaims{"user_id": "buyer-1", "role": "buyer"}, "other-secret")

		r := httptest.NewRequest(http.MethodGet, "/orders", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		mw(capture(&id, &ok)).ServeHTTP(httptest.NewRecorder(), r)

		assert.False(t, ok)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		var id identity.Identity
		var ok bool

		token := signToken(t, jwt.MapClaims{"user_id": "buyer-1", "role": "superuser"}, testSecret)

		r := httptest.NewRequest(http.MethodGet, "/orders", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		mw(capture(&id, &ok)).ServeHTTP(httptest.NewRecorder(), r)

		assert.False(t, ok)
	})

	t.Run("NoToken", func(t *testing.T) {
		var id identity.Identity
		var ok bool

		r := httptest.NewRequest(http.MethodGet, "/orders", nil)
		mw(capture(&id, &ok)).ServeHTTP(httptest.NewRecorder(), r)

		assert.False(t, ok)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RateLimitMiddleware(next)

	// burstWrite requests pass, then the bucket is empty
	var last int
	for i := 0; i < burstWrite+1; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/orders", nil)
		r.RemoteAddr = "10.0.0.9:1234"
		h.ServeHTTP(rec, r)
		last = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)

	// a different client is unaffected
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/orders", nil)
	r.RemoteAddr = "10.0.0.10:1234"
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}
