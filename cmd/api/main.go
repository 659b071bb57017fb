package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kunalsaini/authline-backend/api/controllers"
	"github.com/kunalsaini/authline-backend/api/routes"
	"github.com/kunalsaini/authline-backend/internal/auth"
	"github.com/kunalsaini/authline-backend/internal/otp"
	"github.com/kunalsaini/authline-backend/internal/users"
	"github.com/kunalsaini/authline-backend/pkg/config"
	"github.com/kunalsaini/authline-backend/pkg/db"
	"github.com/kunalsaini/authline-backend/pkg/logger"
	"github.com/kunalsaini/authline-backend/pkg/metrics"
	"github.com/kunalsaini/authline-backend/pkg/migrate"
	"github.com/kunalsaini/authline-backend/pkg/redis"
	"github.com/kunalsaini/authline-backend/pkg/storage/imagehost"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	pingers := []controllers.Pinger{dbClient}

	// Without a Redis endpoint challenges live in process memory only.
	var challenges otp.Store = otp.NewMemoryStore()
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		challenges = otp.NewRedisStore(redisClient)
		pingers = append(pingers, redisClient)
	}
	defer func() {
		if err := challenges.Close(); err != nil {
			logg.Error(context.Background(), "error closing otp store", err)
		}
	}()

	imageClient := imagehost.NewClient(cfg.ImageHost, logg)
	if !imageClient.Enabled() {
		logg.Warn(context.Background(), "image host api key not set, signups proceed without live images")
	}

	userRepo := users.NewRepository(dbClient.DB())

	userService, err := users.NewService(userRepo, imageClient, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(userRepo, userService, challenges, cfg.JWT, cfg.OTP, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	if err := users.EnsureAdmin(context.Background(), userRepo, cfg.Admin, cfg.Password, logg); err != nil {
		logg.Error(context.Background(), "failed to seed admin account", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			AuthService: authService,
			UserService: userService,
			Images:      imageClient,
			Metrics:     httpMetrics,
			Registry:    registry,
			Pingers:     pingers,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
