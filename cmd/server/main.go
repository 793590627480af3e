package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/tendant/simple-drive/pkg/simpledrive/api"
	"github.com/tendant/simple-drive/pkg/simpledrive/config"
)

// EnvConfig maps process environment variables onto server configuration.
type EnvConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseURL string `env:"DATABASE_URL" env-default:""`

	StorageType string `env:"STORAGE_TYPE" env-default:"memory"`
	FSBaseDir   string `env:"FS_BASE_DIR" env-default:"./data/blobs"`

	S3Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	S3Bucket          string `env:"AWS_S3_BUCKET" env-default:""`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	S3Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	S3UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`

	FileURLBase string `env:"FILE_URL_BASE" env-default:"/storage"`
	JWTSecret   string `env:"JWT_SECRET" env-default:"dev-secret"`
}

func (e EnvConfig) options() []config.Option {
	return []config.Option{
		func(c *config.ServerConfig) error {
			c.Port = e.Port
			c.Environment = e.Environment
			c.StorageType = e.StorageType
			c.FSBaseDir = e.FSBaseDir
			c.FileURLBase = e.FileURLBase
			c.JWTSecret = e.JWTSecret
			c.S3 = config.S3Config{
				Region:          e.S3Region,
				Bucket:          e.S3Bucket,
				AccessKeyID:     e.S3AccessKeyID,
				SecretAccessKey: e.S3SecretAccessKey,
				Endpoint:        e.S3Endpoint,
				UsePathStyle:    e.S3UsePathStyle,
			}
			if e.DatabaseURL != "" {
				c.DatabaseType = "postgres"
				c.DatabaseURL = e.DatabaseURL
			}
			return nil
		},
	}
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var env EnvConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		logger.Error("Failed to read environment", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(env.options()...)
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	svc, err := cfg.BuildService(logger)
	if err != nil {
		logger.Error("Failed to build service", "error", err)
		os.Exit(1)
	}

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JWTSecret), nil)
	filesHandler := api.NewFilesHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(tokenAuth))
		r.Use(api.CurrentUserFromToken)
		r.Mount("/api/v1", filesHandler.Routes())
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment,
			"database", cfg.DatabaseType, "storage", cfg.StorageType)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exiting")
}
