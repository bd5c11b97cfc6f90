package handler

import (
	"context"
	"net/http"

	"github.com/shopmart/storefront/internal/models"
	"github.com/shopmart/storefront/internal/service"
)

type contextKey string

const (
	authPayloadKey contextKey = "auth_payload"
)

// authCookieName is cookie holding the auth token
const authCookieName = "auth_token"

// AuthMiddleware gets the token from the cookie and passes its payload to the context
func AuthMiddleware(ts service.TokenService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(authCookieName)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			payload, err := ts.VerifyToken(cookie.Value)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authPayloadKey, payload)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly rejects requests whose auth payload is not an admin
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok || payload.Role != models.RoleAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getAuthPayload extracts authorization token payload from context
func getAuthPayload(ctx context.Context, key contextKey) (*models.TokenPayload, bool) {
	payload, ok := ctx.Value(key).(*models.TokenPayload)
	if !ok || payload == nil {
		return nil, false
	}
	return payload, true
}
