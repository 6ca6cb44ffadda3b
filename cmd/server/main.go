package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"cloudgather/internal/actions"
	"cloudgather/internal/config"
	"cloudgather/internal/db"
	"cloudgather/internal/email"
	"cloudgather/internal/identity"
	"cloudgather/internal/jobs"
	"cloudgather/internal/logging"
	"cloudgather/internal/metrics"
	"cloudgather/internal/queries"
	"cloudgather/internal/server"
)

const (
	shutdownTimeout        = 10 * time.Second
	sessionCleanupInterval = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat, cfg.IsDev())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}
	logrus.Info("Migrations completed successfully")

	if cfg.SeedDevData && !cfg.IsProduction() {
		seed, err := config.LoadSeedConfig(cfg.SeedFile)
		if err != nil {
			logrus.WithError(err).WithField("file", cfg.SeedFile).Warn("Skipping seed data")
		} else if err := database.SeedFromConfig(ctx, seed); err != nil {
			logrus.Fatalf("Failed to seed database: %v", err)
		} else {
			logrus.WithField("portals", seed.PortalCount()).Info("Seed data applied")
		}
	}

	provider, err := newProvider(ctx, cfg, database)
	if err != nil {
		logrus.Fatalf("Failed to initialize identity provider: %v", err)
	}

	metrics.Init(database)

	if cfg.AuthProvider == config.AuthProviderLocal {
		go jobs.NewSessionCleaner(database, sessionCleanupInterval).Start(ctx)
	}

	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, server.Deps{
		DB:       database,
		Provider: provider,
		Queries:  queries.New(database),
		Actions:  actions.New(provider, cfg.ResetPasswordURL()),
	}); err != nil {
		logrus.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			logrus.WithError(err).Error("Server error")
			stop()
		}
	}()

	<-ctx.Done()

	logrus.Info("Shutting down server...")
	if err := srv.Shutdown(shutdownTimeout); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}
	logrus.Info("Server exited")
}

// newProvider builds the configured identity provider.
func newProvider(ctx context.Context, cfg *config.Config, database *db.DB) (identity.Provider, error) {
	if cfg.AuthProvider == config.AuthProviderHosted {
		logrus.WithField("url", cfg.AuthURL).Info("Using hosted identity provider")
		return identity.NewHosted(ctx, identity.HostedConfig{
			URL:     cfg.AuthURL,
			AnonKey: cfg.AuthAnonKey,
			JWKSURL: cfg.AuthJWKSURL,
			Issuer:  cfg.AuthIssuer,
		})
	}

	secret := cfg.ResetTokenSecret
	if secret == "" {
		// Only reachable outside production; Validate refuses it there.
		secret = cfg.SessionSecret
	}
	logrus.Info("Using local identity provider")
	return identity.NewLocal(database, email.NewNotifier(cfg), identity.LocalConfig{
		SessionTTL:  cfg.SessionTTL,
		ResetSecret: []byte(secret),
		ResetTTL:    cfg.ResetTokenTTL,
		ResetURL:    cfg.ResetPasswordURL(),
	})
}
