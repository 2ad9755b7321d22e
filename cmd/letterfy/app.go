package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ccoutinho/letterfy/internal/db"
	"github.com/ccoutinho/letterfy/internal/handlers"
	"github.com/ccoutinho/letterfy/internal/logger"
	"github.com/ccoutinho/letterfy/internal/repository/postgres"
	"github.com/ccoutinho/letterfy/internal/service/auth"
	"github.com/ccoutinho/letterfy/internal/service/auth/tokenmanager"
	"github.com/ccoutinho/letterfy/internal/service/list"
	"github.com/ccoutinho/letterfy/internal/service/maintenance"
	"github.com/ccoutinho/letterfy/internal/service/review"
	"github.com/ccoutinho/letterfy/internal/service/user"
	"github.com/ccoutinho/letterfy/internal/spotify"
)

const tokenCleanInterval = time.Hour

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger  logger.Logger
	tokens  *spotify.TokenSource
	cleaner *maintenance.Cleaner
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Catalog token source and client
	tokens, err := spotify.NewTokenSource(spotify.TokenConfig{
		ClientID:     c.SpotifyClientID,
		ClientSecret: c.SpotifyClientSecret,
		AuthURL:      c.SpotifyAuthURL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("error while creating catalog token source. Err: %w", err)
	}
	catalog := spotify.NewClient(c.SpotifyAPIURL, tokens, logger)

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: c.SecretKey}, storage.Refresh())
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	authService, err := auth.NewService(auth.Config{}, tokenManager, storage.User())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	reviewService := review.NewService(catalog, storage.Review())
	userService := user.NewService(auth.DefaultHasher, catalog, storage)
	listService := list.NewService(catalog, storage.List())

	mux := handlers.NewRouter(
		authService,
		tokens,
		catalog,
		reviewService,
		userService,
		listService,
		logger,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,

		logger:  logger,
		tokens:  tokens,
		cleaner: maintenance.NewCleaner(tokenCleanInterval, logger, storage.Refresh()),
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	cleanerStopped := s.cleaner.Run(srvCtx)

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed
	<-cleanerStopped
	s.tokens.Close()

	return err
}
