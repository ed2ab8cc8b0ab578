package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"leagueapi/internal/caching"
	"leagueapi/internal/handlers"
	"leagueapi/internal/jobs/background"
	"leagueapi/internal/middleware"
	"leagueapi/internal/migrate"
	"leagueapi/internal/render"
	"leagueapi/internal/repositories"
	"leagueapi/internal/services"
	"leagueapi/pkg/database"
)

const version = "1.0.0"

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal("DATABASE_URL environment variable is required")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET environment variable is required")
	}

	if err := migrate.Up(ctx, databaseURL); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	pool, err := database.NewPool(ctx, databaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Redis configuration
	redisAddr := env("REDIS_ADDR", "localhost:6379")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			redisDB = db
		}
	}
	cache := caching.NewRedisTokenCache(redisAddr, redisPassword, redisDB)

	// MinIO configuration
	crestSvc, err := services.NewCrestService(
		env("MINIO_ENDPOINT", "localhost:9000"),
		env("MINIO_ACCESS_KEY", "minioadmin"),
		env("MINIO_SECRET_KEY", "minioadmin"),
		env("MINIO_BUCKET", "league-crests"),
		os.Getenv("MINIO_USE_SSL") == "true",
	)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.Error(err))
	}
	if err := crestSvc.EnsureBucket(ctx); err != nil {
		logger.Warn("crest bucket check failed", zap.Error(err))
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	appRepo := repositories.NewApplicationRepo(pool)
	tokenRepo := repositories.NewTokenRepo(pool)
	grantRepo := repositories.NewGrantRepo(pool)
	teamRepo := repositories.NewTeamRepo(pool)
	matchRepo := repositories.NewMatchRepo(pool)
	goalRepo := repositories.NewGoalRepo(pool)
	cardRepo := repositories.NewCardRepo(pool)
	assistRepo := repositories.NewAssistRepo(pool)

	// Services
	verifier := services.NewCredentialVerifier(userRepo)
	userSvc := services.NewUserService(userRepo, tokenRepo)
	authority := services.NewTokenAuthority(
		tokenRepo, grantRepo, appRepo, verifier, cache, logger,
		jwtSecret, envDuration("TOKEN_TTL", 2*time.Hour),
	)

	// Serializer registry
	render.RegisterAll()

	// Handlers
	userHandlers := handlers.NewUserHandlers(userSvc)
	teamHandlers := handlers.NewTeamHandlers(teamRepo, crestSvc)
	matchHandlers := handlers.NewMatchHandlers(matchRepo)
	goalHandlers := handlers.NewGoalHandlers(goalRepo)
	cardHandlers := handlers.NewCardHandlers(cardRepo)
	assistHandlers := handlers.NewAssistHandlers(assistRepo)
	appHandlers := handlers.NewApplicationHandlers(appRepo)
	oauthHandlers := handlers.NewOAuthHandlers(authority)
	healthHandlers := handlers.NewHealthHandlers(pool, cache)

	// Background cleanup of stale tokens and grants
	cleaner, err := background.NewCleaner(tokenRepo, grantRepo, logger, envDuration("CLEANUP_INTERVAL", time.Hour))
	if err != nil {
		logger.Fatal("failed to create cleanup scheduler", zap.Error(err))
	}
	cleaner.Start()
	defer func() { _ = cleaner.Stop() }()

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// Token lifecycle
	e.POST("/oauth/token", oauthHandlers.Token)
	e.POST("/oauth/revoke", oauthHandlers.Revoke)
	e.POST("/oauth/introspect", oauthHandlers.Introspect)
	e.POST("/oauth/authorize", oauthHandlers.Authorize, middleware.BearerAuth(authority))

	v1 := e.Group("/api/v1")

	// Registration stays open; everything else requires a bearer token.
	v1.POST("/users", userHandlers.CreateUser)

	auth := middleware.BearerAuth(authority)
	read := middleware.RequireScope("read")
	write := middleware.RequireScope("write")
	admin := middleware.RequireScope("admin")

	v1.GET("/users", userHandlers.ListUsers, auth, read)
	v1.GET("/users/:id", userHandlers.GetUser, auth, read)
	v1.PUT("/users/:id", userHandlers.UpdateUser, auth, write)
	v1.DELETE("/users/:id", userHandlers.DeleteUser, auth, write)

	v1.GET("/teams", teamHandlers.ListTeams, auth, read)
	v1.POST("/teams", teamHandlers.CreateTeam, auth, write)
	v1.GET("/teams/:id", teamHandlers.GetTeam, auth, read)
	v1.PUT("/teams/:id", teamHandlers.UpdateTeam, auth, write)
	v1.DELETE("/teams/:id", teamHandlers.DeleteTeam, auth, write)
	v1.PUT("/teams/:id/crest", teamHandlers.UploadCrest, auth, write)
	v1.GET("/teams/:id/crest", teamHandlers.GetCrest, auth, read)

	v1.GET("/matches", matchHandlers.ListMatches, auth, read)
	v1.POST("/matches", matchHandlers.CreateMatch, auth, write)
	v1.GET("/matches/:id", matchHandlers.GetMatch, auth, read)
	v1.PUT("/matches/:id", matchHandlers.UpdateMatch, auth, write)
	v1.DELETE("/matches/:id", matchHandlers.DeleteMatch, auth, write)

	v1.GET("/goals", goalHandlers.ListGoals, auth, read)
	v1.POST("/goals", goalHandlers.CreateGoal, auth, write)
	v1.GET("/goals/:id", goalHandlers.GetGoal, auth, read)
	v1.PUT("/goals/:id", goalHandlers.UpdateGoal, auth, write)
	v1.DELETE("/goals/:id", goalHandlers.DeleteGoal, auth, write)

	v1.GET("/cards", cardHandlers.ListCards, auth, read)
	v1.POST("/cards", cardHandlers.CreateCard, auth, write)
	v1.GET("/cards/:id", cardHandlers.GetCard, auth, read)
	v1.PUT("/cards/:id", cardHandlers.UpdateCard, auth, write)
	v1.DELETE("/cards/:id", cardHandlers.DeleteCard, auth, write)

	v1.GET("/assists", assistHandlers.ListAssists, auth, read)
	v1.POST("/assists", assistHandlers.CreateAssist, auth, write)
	v1.GET("/assists/:id", assistHandlers.GetAssist, auth, read)
	v1.PUT("/assists/:id", assistHandlers.UpdateAssist, auth, write)
	v1.DELETE("/assists/:id", assistHandlers.DeleteAssist, auth, write)

	// Client application management requires the admin scope, create included.
	v1.GET("/oauth_applications", appHandlers.ListApplications, auth, admin)
	v1.POST("/oauth_applications", appHandlers.CreateApplication, auth, admin)
	v1.GET("/oauth_applications/:id", appHandlers.GetApplication, auth, admin)
	v1.PUT("/oauth_applications/:id", appHandlers.UpdateApplication, auth, admin)
	v1.DELETE("/oauth_applications/:id", appHandlers.DeleteApplication, auth, admin)

	port := env("PORT", "8080")
	logger.Info("league api starting", zap.String("version", version), zap.String("port", port))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", zap.Error(err))
		}
	}()

	if err := e.Start(":" + port); err != nil {
		logger.Info("server stopped", zap.Error(err))
	}
}
