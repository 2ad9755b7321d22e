package middleware

import (
	"context"
	"net/http"

	"github.com/ccoutinho/letterfy/internal/handlers/render"
	"github.com/ccoutinho/letterfy/internal/spotify"
)

type catalogTokens interface {
	Token(ctx context.Context) (spotify.Credential, error)
}

// CatalogTokenMiddleware makes sure a catalog credential is available before
// the request reaches a catalog-backed handler. When acquisition fails the
// route answers 503 instead of timing out deeper in the call chain.
func CatalogTokenMiddleware(tokens catalogTokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := tokens.Token(r.Context()); err != nil {
				render.ServiceError(w, "Music catalog temporarily unavailable", http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
