package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/zabilal/sims-api/internal/api"
	"github.com/zabilal/sims-api/internal/infrastructure/config"
	mongodb "github.com/zabilal/sims-api/internal/infrastructure/db/mongo"
	redisdb "github.com/zabilal/sims-api/internal/infrastructure/db/redis"
	"github.com/zabilal/sims-api/internal/infrastructure/email"
	"github.com/zabilal/sims-api/pkg/logger"
)

// @title           SIMS API
// @version         1.0
// @description     Multi-tenant school information system backend.
//
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	for _, ensure := range []func(context.Context) error{
		mongodb.NewUserRepository(db).EnsureIndexes,
		mongodb.NewTokenRepository(db).EnsureIndexes,
		mongodb.NewSchoolRepository(db).EnsureIndexes,
		mongodb.NewStudentRepository(db).EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Mailer ---
	sender := email.NewBrevoSender(cfg.Email.APIURL, cfg.Email.APIKey, cfg.Email.FromName, cfg.Email.FromEmail)
	mailer := email.NewMailer(cfg.Email.Workers, sender, cfg.Email.ResetURL, log)
	mailer.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, api.AuthSettings{
		JWTSecret:  cfg.JWT.Secret,
		AccessTTL:  time.Duration(cfg.JWT.AccessExpirationMinutes) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshExpirationDays) * 24 * time.Hour,
		ResetTTL:   time.Duration(cfg.JWT.ResetPasswordExpirationMinutes) * time.Minute,
	}, mailer, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
