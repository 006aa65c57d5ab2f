package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-chi/chi/v5"

	"github.com/Shimsuyeon/focus-fairy/internal/auth"
	"github.com/Shimsuyeon/focus-fairy/internal/command"
	"github.com/Shimsuyeon/focus-fairy/internal/config"
	"github.com/Shimsuyeon/focus-fairy/internal/httpapi"
	"github.com/Shimsuyeon/focus-fairy/internal/logging"
	"github.com/Shimsuyeon/focus-fairy/internal/period"
	"github.com/Shimsuyeon/focus-fairy/internal/server"
	"github.com/Shimsuyeon/focus-fairy/internal/session"
	"github.com/Shimsuyeon/focus-fairy/internal/workspace"
)

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("config error: %w", err))
	}

	logger := logging.NewLogger("focus-fairy")

	repo, cleanup, err := newRepository(ctx, cfg)
	if err != nil {
		panic(fmt.Errorf("repository init error: %w", err))
	}
	defer cleanup()

	loc := time.FixedZone(fmt.Sprintf("UTC%+d", cfg.TZOffsetHrs), cfg.TZOffsetHrs*3600)
	sessions, err := session.NewService(repo, session.NewSystemClock(), session.NewUUIDGenerator(), loc)
	if err != nil {
		panic(fmt.Errorf("session service init error: %w", err))
	}

	workspaceClient, err := newWorkspaceClient(cfg, logger)
	if err != nil {
		panic(fmt.Errorf("workspace client error: %w", err))
	}

	var dir workspace.Directory
	var poster command.Poster
	if workspaceClient != nil {
		dir = workspaceClient
		poster = workspaceClient
	}

	dispatcher := command.NewDispatcher(sessions, dir, poster, period.NewNavigator(cfg.HistoryWeeks), logger)
	handler := httpapi.NewHandler(dispatcher, logger)

	verifier, err := auth.NewVerifier(auth.Config{
		Mode:     cfg.Auth.Mode,
		JWKSURL:  cfg.Auth.JWKSURL,
		Audience: cfg.Auth.Audience,
		Issuer:   cfg.Auth.Issuer,
	})
	if err != nil {
		panic(fmt.Errorf("auth verifier error: %w", err))
	}

	router := server.NewRouter("focus-fairy", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(verifier))
			handler.RegisterRoutes(r)
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if err := server.Run(ctx, srv, logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}

func newRepository(ctx context.Context, cfg config.Config) (session.Repository, func(), error) {
	switch cfg.DataStore {
	case config.DataStoreFirestore:
		if cfg.Firestore.EmulatorHost != "" {
			if err := os.Setenv("FIRESTORE_EMULATOR_HOST", cfg.Firestore.EmulatorHost); err != nil {
				return nil, nil, fmt.Errorf("set FIRESTORE_EMULATOR_HOST: %w", err)
			}
		}

		client, err := firestore.NewClient(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("firestore client: %w", err)
		}

		repo := session.NewFirestoreRepository(client)
		cleanup := func() {
			_ = client.Close()
		}
		return repo, cleanup, nil
	default:
		repo := session.NewMemoryRepository()
		return repo, func() {}, nil
	}
}

// newWorkspaceClient returns nil when no bot tokens are configured; the dispatcher
// then falls back to raw user ids and in-response announcements.
func newWorkspaceClient(cfg config.Config, logger *slog.Logger) (*workspace.Client, error) {
	if cfg.Workspace.BotTokens == "" {
		return nil, nil
	}
	tokens, err := workspace.ParseTokens(cfg.Workspace.BotTokens)
	if err != nil {
		return nil, fmt.Errorf("parse bot tokens: %w", err)
	}
	return workspace.NewClient(cfg.Workspace.APIURL, tokens, logger), nil
}
