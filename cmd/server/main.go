package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/FiguringToCode/backend-workasana/internal/events"
	"github.com/FiguringToCode/backend-workasana/internal/featureflags"
	"github.com/FiguringToCode/backend-workasana/internal/handler"
	"github.com/FiguringToCode/backend-workasana/internal/infrastructure/logger"
	"github.com/FiguringToCode/backend-workasana/internal/infrastructure/redis"
	"github.com/FiguringToCode/backend-workasana/internal/observability/metrics"
	"github.com/FiguringToCode/backend-workasana/internal/observability/tracing"
	"github.com/FiguringToCode/backend-workasana/internal/repository"
	"github.com/FiguringToCode/backend-workasana/internal/security"
	"github.com/FiguringToCode/backend-workasana/internal/security/audit"
	"github.com/FiguringToCode/backend-workasana/internal/security/auth"
	"github.com/FiguringToCode/backend-workasana/internal/security/middleware"
	"github.com/FiguringToCode/backend-workasana/internal/security/ratelimit"
	"github.com/FiguringToCode/backend-workasana/internal/service"
	"github.com/FiguringToCode/backend-workasana/internal/worker"
	"github.com/FiguringToCode/backend-workasana/pkg/cache"
	"github.com/FiguringToCode/backend-workasana/pkg/config"
	"github.com/FiguringToCode/backend-workasana/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting workasana server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing (no-op unless an OTLP endpoint is configured)
	shutdownTracing, err := tracing.Init(ctx, log, "workasana", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Connect to Postgres and apply migrations
	pool, err := database.NewConnectionPool(ctx, &database.Config{
		Host:     cfg.DatabaseHost,
		Port:     cfg.DatabasePort,
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	}, log)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(pool.GetDB()); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Pick the cache backend: Redis when configured, in-process otherwise
	var cacheStore cache.Store
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		cacheStore = redis.NewCache(redisClient, log)
		log.Info("task cache backed by redis")
	} else {
		cacheStore = cache.NewMemory()
		log.Info("task cache backed by process memory")
	}

	// 6. Initialize repositories
	db := pool.GetDB()
	userRepo := repository.NewPostgresUserRepository(db, log)
	taskRepo := repository.NewPostgresTaskRepository(db, log)
	teamRepo := repository.NewPostgresTeamRepository(db, log)
	projectRepo := repository.NewPostgresProjectRepository(db, log)
	tagRepo := repository.NewPostgresTagRepository(db, log)

	// 7. Initialize services
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "workasana", cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokenManager, cfg.AdminSecret, log)
	hub := events.NewHub()
	taskService := service.NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, cacheStore, hub, cfg.TaskCacheTTL, log)

	// 8. Initialize security components
	limiter := ratelimit.NewLimiter(100, time.Minute)
	auditLogger := audit.NewLogger(log)
	authz := security.NewAuthorizationService(featureflags.Enabled(featureflags.EnforceRoles), log)
	// Admin-only routes when role enforcement is switched on; with the
	// default policy any valid token is accepted everywhere.
	authz.Restrict("POST /user", auth.RoleAdmin)

	// 9. Initialize handlers
	adminLoginHandler := handler.NewAdminLoginHandler(authService, log)
	authHandler := handler.NewAuthHandler(authService, log)
	taskHandler := handler.NewTaskHandler(taskService, log)
	projectHandler := handler.NewProjectHandler(projectRepo, log)
	teamHandler := handler.NewTeamHandler(teamRepo, log)
	userHandler := handler.NewUserHandler(authService, userRepo, log)
	tagHandler := handler.NewTagHandler(tagRepo, log)
	eventsHandler := handler.NewEventsHandler(hub, tokenManager, log, cfg.CORSAllowedOrigins)
	healthHandler := handler.NewHealthHandler(pool, redisClient, log)

	// 10. Setup HTTP routes
	mux := http.NewServeMux()
	mux.Handle("POST /admin/login", adminLoginHandler)
	mux.HandleFunc("POST /user/signup", authHandler.Signup)
	mux.HandleFunc("POST /user/login", authHandler.Login)
	mux.HandleFunc("POST /tasks", taskHandler.Create)
	mux.HandleFunc("GET /tasks", taskHandler.List)
	mux.HandleFunc("POST /tasks/status/{taskId}", taskHandler.UpdateStatus)
	mux.HandleFunc("POST /project", projectHandler.Create)
	mux.HandleFunc("GET /projects", projectHandler.List)
	mux.HandleFunc("POST /teams", teamHandler.Create)
	mux.HandleFunc("GET /teams", teamHandler.List)
	mux.HandleFunc("POST /user", userHandler.Create)
	mux.HandleFunc("GET /user/{userId}", userHandler.GetByID)
	mux.HandleFunc("POST /tag", tagHandler.Create)
	mux.HandleFunc("GET /tags", tagHandler.List)
	mux.Handle("GET /ws/events", eventsHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)

	// Chain middleware: request ID -> metrics -> CORS -> access gate ->
	// rate limit -> role guard -> audit -> content-type validation
	rootHandler := withRequestID(
		metrics.HTTPMetricsMiddleware(
			withCORS(cfg.CORSAllowedOrigins,
				middleware.AccessGate(tokenManager, log)(
					middleware.RateLimit(limiter, log)(
						middleware.RoleGuard(authz, auditLogger)(
							middleware.Audit(auditLogger)(
								middleware.ValidateJSONContentType(log)(mux),
							),
						),
					),
				),
			),
		),
		log,
	)

	// 11. Start stats worker in background
	statsWorker := worker.NewStatsWorker(taskRepo, log, time.Duration(cfg.StatsIntervalSeconds)*time.Second)
	go statsWorker.Start(ctx)

	// 12. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      otelhttp.NewHandler(rootHandler, "workasana"),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Duration("token_ttl", cfg.TokenTTL),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // Stop stats worker
	limiter.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

// withCORS sets cross-origin headers and answers OPTIONS preflights before
// the request reaches the access gate.
func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(allowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(allowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
