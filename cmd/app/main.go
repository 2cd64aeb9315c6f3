package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/config"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/db"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/email"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/logger"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/server"
)

// @title EV Charge API
// @version 1.0
// @description API for EV charging station directory, booking and wallet.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("evcharge starting")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Postgres: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Migrations: %v", err)
	}
	logger.Info("Schema up to date")

	emailService := email.New(
		cfg.EmailFrom, cfg.EmailFromName,
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass,
		cfg.RedisAddr,
	)
	defer emailService.Close()

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go emailService.Start(workerCtx)

	srv := server.New(database, cfg, emailService)

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Listening on :%s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Infof("Got signal %v, shutting down", sig)
	case err := <-serveErr:
		logger.Errorf("Server failed: %v", err)
	}

	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown: %v", err)
	}
	logger.Info("Stopped")
}
