package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/yaduvivaah/agent-portal-api/internal/auth"
	"github.com/yaduvivaah/agent-portal-api/internal/config"
	"github.com/yaduvivaah/agent-portal-api/internal/handler"
	"github.com/yaduvivaah/agent-portal-api/internal/mailer"
	"github.com/yaduvivaah/agent-portal-api/internal/pincode"
	"github.com/yaduvivaah/agent-portal-api/internal/repository"
	"github.com/yaduvivaah/agent-portal-api/internal/server"
	"github.com/yaduvivaah/agent-portal-api/internal/session"
	"github.com/yaduvivaah/agent-portal-api/internal/storage"
	"github.com/yaduvivaah/agent-portal-api/internal/usecase"
	"github.com/yaduvivaah/agent-portal-api/internal/validation"
	"github.com/yaduvivaah/agent-portal-api/internal/verification"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load(&logger)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := mongoClient.Ping(ctx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping mongodb")
	}

	db := mongoClient.Database(cfg.Mongo.Database)
	agentRepo := repository.NewAgentMongoRepository(ctx, &logger, db)

	uploader, err := storage.NewS3Uploader(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure document storage")
	}

	validate, err := validation.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build validator")
	}

	gateway := verification.NewClient(cfg.Verification)
	pincodes := pincode.NewClient(cfg.Pincode.BaseURL)
	mail := mailer.New(cfg.SMTP)
	sessions := session.NewManager()
	tokens := auth.NewTokenIssuer(cfg.Session)

	unsubscribe := sessions.Subscribe(func(e session.Event) {
		logger.Info().
			Str("event", string(e.Type)).
			Str("identity", e.IdentityToken).
			Msg("identity changed")
	})
	defer unsubscribe()

	authUsecase := usecase.NewAuthUsecase(
		agentRepo, gateway, uploader, mail, sessions, tokens,
		cfg.Verification.CountryCode, &logger,
	)
	profileUsecase := usecase.NewProfileUsecase(agentRepo, uploader, pincodes, sessions, &logger)
	dashboardUsecase := usecase.NewDashboardUsecase(profileUsecase)

	srv := server.New(&logger, cfg.HTTP, server.Dependencies{
		Auth:     handler.NewAuthHandler(authUsecase, validate, &logger),
		Agents:   handler.NewAgentHandler(profileUsecase, dashboardUsecase, pincodes, validate, &logger),
		Tokens:   tokens,
		Sessions: sessions,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
