package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"perfeval/internal/domain/audit"
	"perfeval/internal/domain/auth"
	"perfeval/internal/domain/core"
	"perfeval/internal/domain/evaluation"
	"perfeval/internal/domain/notifications"
	"perfeval/internal/platform/config"
	"perfeval/internal/platform/metrics"
	audithandler "perfeval/internal/transport/http/handlers/audit"
	authhandler "perfeval/internal/transport/http/handlers/auth"
	corehandler "perfeval/internal/transport/http/handlers/core"
	evaluationhandler "perfeval/internal/transport/http/handlers/evaluation"
	notificationshandler "perfeval/internal/transport/http/handlers/notifications"
	"perfeval/internal/transport/http/middleware"
)

// NewRouter wires every service onto pool. A nil collector disables /metrics.
func NewRouter(cfg config.Config, pool *pgxpool.Pool, collector *metrics.Collector) http.Handler {
	perms := auth.StaticPermissions{}
	auditService := audit.New(pool)
	notificationService := notifications.New(notifications.NewStore(pool), cfg.NotificationWindowDays)
	coreService := core.NewService(core.NewStore(pool), notificationService)
	authService := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.JWTTTL)
	evaluationService := evaluation.New(evaluation.NewStore(pool), evaluation.Options{
		MaxRawScore: cfg.MaxRawScore,
		Denominator: cfg.ScoreDenominator,
		Location:    cfg.Location(),
	})

	evaluationHandler := evaluationhandler.NewHandler(evaluationService, perms)
	evaluationHandler.Notifier = notificationService
	evaluationHandler.Audit = auditService
	evaluationHandler.Idempotency = middleware.NewIdempotencyStore(pool)
	if collector != nil {
		evaluationHandler.Metrics = collector
	}

	authHandler := authhandler.NewHandler(authService, coreService)
	coreHandler := corehandler.NewHandler(coreService, perms, auditService)
	notificationsHandler := notificationshandler.NewHandler(notificationService, perms, auditService)
	auditHandler := audithandler.NewHandler(auditService, perms)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logger)
	if collector != nil {
		router.Use(middleware.Metrics(collector))
	}
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if pool == nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if collector != nil {
		router.Handle("/metrics", collector.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			authHandler.RegisterRoutes(r)
			evaluationHandler.RegisterRoutes(r)
			coreHandler.RegisterRoutes(r)
			notificationsHandler.RegisterRoutes(r)
			auditHandler.RegisterRoutes(r)
		})
	})

	return router
}
