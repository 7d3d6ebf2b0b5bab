package middleware

import (
	"net/http"
	"strings"

	"craftconnect-be/internal/identity"

	"github.com/golang-jwt/jwt/v5"
)

// ExtractAccessToken prefers the access_token cookie and falls back to
// the Authorization header.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// NewAuthMiddleware verifies the caller's JWT and stores the resulting
// identity in the request context. Requests without a valid token pass
// through anonymous; handlers decide whether identity is required.
func NewAuthMiddleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			userID, _ := claims["user_id"].(string)
			role, _ := claims["role"].(string)
			if userID == "" || !identity.ValidRole(role) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := identity.WithIdentity(r.Context(), identity.Identity{
				UserID: userID,
				Role:   identity.Role(role),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
