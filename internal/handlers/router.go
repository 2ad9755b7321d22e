package handlers

import (
	"context"
	"net/http"

	"github.com/ccoutinho/letterfy/internal/handlers/middleware"
	"github.com/ccoutinho/letterfy/internal/logger"
	"github.com/ccoutinho/letterfy/internal/models"
	"github.com/ccoutinho/letterfy/internal/spotify"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type routerAuthService interface {
	authService

	// Get request and return user if it authenticated or error
	Auth(ctx context.Context, r *http.Request) (models.User, error)
}

type catalogTokens interface {
	Token(ctx context.Context) (spotify.Credential, error)
}

func NewRouter(
	authService routerAuthService,
	tokens catalogTokens,
	catalog catalogService,
	reviews reviewService,
	users userService,
	lists listService,
	l logger.Logger,
) http.Handler {
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	withAuth := middleware.AuthMiddleware(authService)
	withOptionalAuth := middleware.OptionalAuthMiddleware(authService)
	withCatalogToken := middleware.CatalogTokenMiddleware(tokens)

	authHandler := NewAuth(authService)
	explorerHandler := NewExplorer(catalog)
	reviewHandler := NewReview(reviews)
	userHandler := NewUser(users, reviews)
	listHandler := NewList(lists, users)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", authHandler.register)
	mux.HandleFunc("POST /api/auth/login", authHandler.login)
	mux.HandleFunc("POST /api/auth/refresh", authHandler.refresh)

	mux.Handle("GET /api/explorer/search", withCatalogToken(http.HandlerFunc(explorerHandler.search)))
	mux.Handle("GET /api/explorer/new-releases", withCatalogToken(http.HandlerFunc(explorerHandler.newReleases)))

	mux.HandleFunc("GET /api/reviews", reviewHandler.latest)
	mux.HandleFunc("GET /api/reviews/{kind}/{id}", reviewHandler.forItem)
	mux.Handle("POST /api/reviews/{kind}/{id}", withAuth(http.HandlerFunc(reviewHandler.submit)))

	mux.HandleFunc("GET /api/home", userHandler.home)
	mux.HandleFunc("GET /api/users/{username}", userHandler.profile)
	mux.HandleFunc("GET /api/users/{username}/favorites", userHandler.listFavorites)
	mux.HandleFunc("GET /api/users/{username}/reviews", userHandler.listReviews)
	mux.Handle("PATCH /api/user/profile", withAuth(http.HandlerFunc(userHandler.updateProfile)))
	mux.Handle("POST /api/user/favorites", withAuth(http.HandlerFunc(userHandler.addFavorite)))
	mux.Handle("DELETE /api/user/favorites/{kind}/{id}", withAuth(http.HandlerFunc(userHandler.removeFavorite)))
	mux.Handle("POST /api/users/{username}/follow", withAuth(http.HandlerFunc(userHandler.follow)))
	mux.Handle("DELETE /api/users/{username}/follow", withAuth(http.HandlerFunc(userHandler.unfollow)))

	mux.Handle("POST /api/lists", withAuth(http.HandlerFunc(listHandler.create)))
	mux.Handle("GET /api/lists/{id}", withOptionalAuth(http.HandlerFunc(listHandler.get)))
	mux.Handle("POST /api/lists/{id}/items", withAuth(http.HandlerFunc(listHandler.addItem)))
	mux.Handle("GET /api/users/{username}/lists", withOptionalAuth(http.HandlerFunc(listHandler.listsByUser)))

	return chain(mux,
		middleware.LoggerMiddleware(l),
	)
}
