package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/synopticmd/api/internal/config"
	"github.com/synopticmd/api/internal/domain/account"
	"github.com/synopticmd/api/internal/domain/insight"
	"github.com/synopticmd/api/internal/domain/patient"
	"github.com/synopticmd/api/internal/platform/docstore"
	"github.com/synopticmd/api/internal/platform/genai"
	"github.com/synopticmd/api/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "synoptic-server",
		Short: "Synoptic MD clinical record API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the document store schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := docstore.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := docstore.NewPGStore(pool).Init(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("document store schema is up to date")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Reset the database and load the demo doctor and patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := docstore.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			store := docstore.NewPGStore(pool)
			if err := store.Init(ctx); err != nil {
				return err
			}
			return seed(ctx, store, cfg.SeedFile)
		},
	}
}

// seed wipes both collections, creates the demo doctor and loads the patient
// fixtures, stamping each with the doctor's id.
func seed(ctx context.Context, store docstore.Store, seedFile string) error {
	users := account.NewStoreRepo(store)
	if err := users.Truncate(ctx); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}

	accountSvc := account.NewService(users)
	doctorID, err := accountSvc.Register(ctx, "Test Doctor", "doctor@test.com", "password123")
	if err != nil {
		return fmt.Errorf("create demo doctor: %w", err)
	}

	raw, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var fixture struct {
		Patients []patient.Patient `json:"patients"`
	}
	if err := json.Unmarshal(raw, &fixture); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	patientSvc := patient.NewService(patient.NewStoreRepo(store))
	if err := patientSvc.Seed(ctx, doctorID, fixture.Patients); err != nil {
		return fmt.Errorf("load patients: %w", err)
	}

	fmt.Printf("seeded %d patients for doctor %s\n", len(fixture.Patients), doctorID)
	return nil
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := docstore.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	store := docstore.NewPGStore(pool)

	// Text model
	model := genai.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey)
	logger.Info().Str("model", cfg.GeminiModel).Msg("text model configured")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	api := e.Group("/api")

	// Account domain
	accountSvc := account.NewService(account.NewStoreRepo(store))
	account.NewHandler(accountSvc).RegisterRoutes(api)

	// Patient domain
	patientSvc := patient.NewService(patient.NewStoreRepo(store))
	gateway := insight.NewGateway(model, logger)
	patient.NewHandler(patientSvc, gateway).RegisterRoutes(api)

	// Insight domain
	insight.NewHandler(gateway, patientSvc).RegisterRoutes(api)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
