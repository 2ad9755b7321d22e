package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/ccoutinho/letterfy/internal/handlers"
	"github.com/ccoutinho/letterfy/internal/repository/postgres"
	"github.com/ccoutinho/letterfy/internal/service/auth"
	"github.com/ccoutinho/letterfy/internal/service/auth/tokenmanager"
	"github.com/ccoutinho/letterfy/internal/service/list"
	"github.com/ccoutinho/letterfy/internal/service/review"
	"github.com/ccoutinho/letterfy/internal/service/user"
	"github.com/ccoutinho/letterfy/internal/spotify"
	"github.com/ccoutinho/letterfy/internal/testutil"
)

type Services struct {
	AuthService   *auth.AuthService
	ReviewService *review.ReviewService
	UserService   *user.UserService
	ListService   *list.ListService
	Catalog       *spotify.Client
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.WithTx with it
// Catalog calls are served by a fake Spotify shaped upstream, see fakecatalog.go
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	upstream := StartFakeCatalog(t)

	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		tokens, err := spotify.NewTokenSource(spotify.TokenConfig{
			ClientID:     "test-client",
			ClientSecret: "test-secret",
			AuthURL:      upstream.AuthURL,
		}, nil)
		require.NoError(t, err, "token source should be created without errors")
		defer tokens.Close()

		catalog := spotify.NewClient(upstream.APIURL, tokens, nil)

		// Initialize services
		tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"}, storage.Refresh())
		require.NoError(t, err, "token manager should be created without errors")

		as, err := auth.NewService(auth.Config{}, tokenManager, storage.User())
		require.NoError(t, err, "auth service starting error")

		rs := review.NewService(catalog, storage.Review())
		us := user.NewService(auth.DefaultHasher, catalog, storage)
		ls := list.NewService(catalog, storage.List())

		// Complete all together as router
		router := handlers.NewRouter(as, tokens, catalog, rs, us, ls, nil)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService:   as,
			ReviewService: rs,
			UserService:   us,
			ListService:   ls,
			Catalog:       catalog,
		})
	})
}
