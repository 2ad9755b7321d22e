package middleware

import (
	"context"
	"net/http"

	"github.com/ccoutinho/letterfy/internal/handlers/render"
	"github.com/ccoutinho/letterfy/internal/handlers/userctx"
	"github.com/ccoutinho/letterfy/internal/models"
)

type authService interface {
	Auth(ctx context.Context, r *http.Request) (models.User, error)
}

func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := as.Auth(r.Context(), r)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware puts the user into context when the request carries a
// valid token but never rejects. For routes whose response differs for owners.
func OptionalAuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := as.Auth(r.Context(), r)
			if err == nil {
				r = r.WithContext(userctx.New(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}
