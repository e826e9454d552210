package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nc-news/internal/config"
	"nc-news/internal/engine"
	"nc-news/internal/instrument"
	"nc-news/internal/metadata"
	"nc-news/internal/store"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:          "nc-news",
	Short:        "News API over topics, articles, comments and users",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: app.yaml in . or ../..)")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// boot loads config and opens the logger and store shared by every command.
func boot(ctx context.Context) (*config.Config, *zap.Logger, *store.Store, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := instrument.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := store.New(ctx, cfg.Database)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connected",
		zap.String("env", cfg.Env),
		zap.String("host", cfg.Database.Host),
		zap.String("name", cfg.Database.Name),
		zap.Int("pool_size", cfg.Database.PoolSize),
	)
	return cfg, logger, db, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Config, logger and database
	cfg, logger, db, err := boot(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	defer func() { _ = logger.Sync() }()

	// 2. Bootstrap news tables
	if err := db.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap tables: %w", err)
	}
	logger.Info("tables ready")

	// 3. Load endpoint catalog
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	logger.Info("endpoint catalog loaded", zap.Int("endpoints", len(catalog.Keys())))

	// 4. Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          engine.ErrorHandler(logger),
		DisableStartupMessage: true,
	})
	app.Use(instrument.Middleware(logger))
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))

	// 5. Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 6. API routes
	handler := engine.NewHandler(db.Pool, catalog, logger)
	if err := engine.RegisterRoutes(app, handler); err != nil {
		return err
	}

	// 7. Start server
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("starting server", zap.String("addr", addr))
	return app.Listen(addr)
}

func loadCatalog(cfg *config.Config) (*metadata.Catalog, error) {
	if cfg.EndpointsFile != "" {
		catalog, err := metadata.LoadFile(cfg.EndpointsFile)
		if err != nil {
			return nil, fmt.Errorf("load endpoints file: %w", err)
		}
		return catalog, nil
	}
	catalog, err := metadata.Default()
	if err != nil {
		return nil, fmt.Errorf("load endpoint catalog: %w", err)
	}
	return catalog, nil
}
