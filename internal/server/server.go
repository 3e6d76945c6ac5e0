// Package server assembles the HTTP API from the domain modules.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/georgemunganga/cloture-backend/internal/config"
	"github.com/georgemunganga/cloture-backend/internal/middleware"
	"github.com/georgemunganga/cloture-backend/internal/modules/auth"
	"github.com/georgemunganga/cloture-backend/internal/modules/closing"
	"github.com/georgemunganga/cloture-backend/internal/modules/report"
	"github.com/georgemunganga/cloture-backend/internal/modules/user"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// Stores are the repositories behind the API.
type Stores struct {
	Users        user.Repository
	Transactions closing.Repository
}

// MemoryStores keeps everything in process memory.
func MemoryStores() Stores {
	return Stores{Users: user.NewMemoryRepository(), Transactions: closing.NewMemoryRepository()}
}

// PostgresStores uses db for every repository.
func PostgresStores(db *sqlx.DB) Stores {
	return Stores{Users: user.NewPostgresRepository(db), Transactions: closing.NewPostgresRepository(db)}
}

// New wires services and routes, and creates the bootstrap administrator when
// one is configured.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger, stores Stores) (http.Handler, error) {
	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	// ── Identity ────────────────────────────────────────────
	userService := user.NewService(stores.Users, cfg.BcryptCost)
	if cfg.AdminPseudo != "" {
		created, err := userService.EnsureAdmin(ctx, cfg.AdminPseudo, cfg.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			log.Info().Str("pseudo", cfg.AdminPseudo).Msg("administrator account created")
		}
	}

	authService := auth.NewService(stores.Users, cfg.JWTSecret, cfg.TokenTTL)
	guard := auth.NewMiddleware(authService)
	auth.NewHandler(authService).RegisterRoutes(router, guard)
	user.NewHandler(userService).RegisterRoutes(router, guard)

	// ── Closings & reports ──────────────────────────────────
	closingService := closing.NewService(stores.Transactions, log)
	closing.NewHandler(closingService).RegisterRoutes(router, guard)
	report.NewHandler(report.NewService(closingService)).RegisterRoutes(router, guard)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	return router, nil
}
