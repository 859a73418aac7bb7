// cmd/server/commands/serve.go
package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/foodmarket/marketplace/internal/config"
	"github.com/foodmarket/marketplace/internal/database"
	"github.com/foodmarket/marketplace/internal/events"
	"github.com/foodmarket/marketplace/internal/i18n"
	"github.com/foodmarket/marketplace/internal/logger"
	"github.com/foodmarket/marketplace/internal/repository"
	"github.com/foodmarket/marketplace/internal/router"
	"github.com/foodmarket/marketplace/internal/services"
	"github.com/foodmarket/marketplace/internal/utils"
)

const shutdownTimeout = 30 * time.Second

var (
	// Serve flags
	port    string
	migrate bool
)

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Run the customer HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(router.ServiceCustomer, func(cfg *config.Config) string { return cfg.Server.CustomerPort }, router.NewCustomer)
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Run the admin HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(router.ServiceAdmin, func(cfg *config.Config) string { return cfg.Server.AdminPort }, router.NewAdmin)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{customerCmd, adminCmd} {
		cmd.Flags().StringVar(&port, "port", "", "Listen port (overrides the configured port)")
		cmd.Flags().BoolVar(&migrate, "migrate", true, "Apply pending migrations before serving")
		rootCmd.AddCommand(cmd)
	}
}

// bootstrap loads configuration and opens the database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Setup(cfg.Logging)

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func serve(service string, configuredPort func(*config.Config) string, build func(*router.Deps) (*router.Engine, error)) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer database.Close(db)

	if migrate {
		if err := database.RunMigrations(db); err != nil {
			return err
		}
	}

	if err := i18n.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize i18n: %w", err)
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	publisher, err := events.NewPublisher(cfg.Kafka)
	if err != nil {
		return err
	}
	defer publisher.Close()

	storage, err := services.NewStorageService(cfg)
	if err != nil {
		return err
	}

	engine, err := build(&router.Deps{
		Config:    cfg,
		Store:     repository.NewStore(db),
		Publisher: publisher,
		Storage:   storage,
		Ping:      pinger(db),
	})
	if err != nil {
		return err
	}
	defer engine.Close()

	listen := port
	if listen == "" {
		listen = configuredPort(cfg)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, listen),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{"service": service, "addr": srv.Addr}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start %s server: %w", service, err)
	case <-quit:
	}
	logrus.WithField("service", service).Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logrus.WithField("service", service).Info("Server exited")
	return nil
}

func pinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
