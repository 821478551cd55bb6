package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grabbi-storefront/apiclient"
	"grabbi-storefront/config"
	"grabbi-storefront/database"
	"grabbi-storefront/firebase"
	"grabbi-storefront/logging"
	"grabbi-storefront/metrics"
	"grabbi-storefront/routes"
	"grabbi-storefront/session"
	"grabbi-storefront/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context())
		},
	}
}

func serveRun(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, logger, err := commonRun()
	if err != nil {
		return err
	}

	if err := config.ValidateEnv(); err != nil {
		return fmt.Errorf("environment validation failed: %w", err)
	}

	sessions, closeSessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	var journal *database.Journal
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Connect(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		journal = database.NewJournal(db)
	}

	var storage firebase.StorageClient
	if cfg.StorageBucket != "" {
		fs, err := firebase.New(ctx, cfg.StorageBucket, cfg.GoogleCredentials, logger)
		if err != nil {
			logger.WithError(err).Warn("Firebase storage unavailable, licence uploads disabled")
		} else {
			storage = fs
		}
	}

	gin.SetMode(config.GetEnv("GIN_MODE", gin.ReleaseMode))
	utils.UseJSONFieldNames()

	r := gin.New()
	r.Use(logging.RequestLogger(logger), metrics.Middleware(), gin.Recovery())

	// Limit multipart form memory to 10MB
	r.MaxMultipartMemory = 10 << 20

	origins := cfg.Origins()
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
		logger.Warn("No CORS origins configured, defaulting to http://localhost:3000")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	routes.SetupRoutes(r, routes.Deps{
		API:           apiclient.New(apiclient.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout}),
		Sessions:      sessions,
		Journal:       journal,
		Storage:       storage,
		Logger:        logger,
		SessionTTL:    cfg.SessionTTL,
		RedirectDelay: cfg.GiftRedirectDelay,
		AuthRateLimit: cfg.AuthRateLimit,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Port, "backend": cfg.APIBaseURL}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}
	logger.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.WithError(err).Error("Error closing database connection")
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Server exited gracefully")
	return nil
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case "", "memory":
		return session.NewMemoryStore(), func() {}, nil
	case "redis":
		store, err := session.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, func() { store.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
}
