package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/tsvrsm/backoffice/internal/api/handlers"
	"github.com/tsvrsm/backoffice/internal/api/middleware"
	"github.com/tsvrsm/backoffice/internal/auth"
	"github.com/tsvrsm/backoffice/internal/config"
	"github.com/tsvrsm/backoffice/internal/identity"
	"github.com/tsvrsm/backoffice/internal/queue"
	"github.com/tsvrsm/backoffice/internal/revocation"
	"github.com/tsvrsm/backoffice/internal/session"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Auth/authz core wiring
	codec := auth.NewCodec(rt.cfg.Auth.JWTSecret)
	store := identity.NewPGStore(rt.db)
	ledger := revocation.NewRedisLedger(rt.redis, rt.cfg.Auth.RevocationTimeout)
	queueClient := queue.NewClient(rt.cfg.Redis)

	sessions := session.NewManager(
		store, codec, ledger,
		rt.cfg.Auth.AccessTokenTTL, rt.cfg.Auth.RefreshTokenTTL,
		session.WithEvents(queueClient),
	)
	evaluator := auth.NewEvaluator(store, codec, ledger)
	authmw := auth.NewMiddleware(evaluator)

	authH := handlers.NewAuthHandler(sessions)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", authH.Login)
		r.Post("/refresh", authH.Refresh)
		r.Post("/logout", authH.Logout)

		r.Group(func(r chi.Router) {
			r.Use(authmw.Authenticate)
			r.Get("/me", authH.Me)
		})
	})

	return r
}
