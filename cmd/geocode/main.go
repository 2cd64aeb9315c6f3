package main

import (
	"context"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/config"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/db"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/geocode"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/logger"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/station"
)

func main() {
	logger.Init()
	logger.Info("Backfilling station coordinates")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	repo := station.NewRepository(database)

	summary, err := geocode.Backfill(context.Background(), repo)
	if err != nil {
		logger.Fatalf("Backfill failed: %v", err)
	}

	logger.Infof("Updated coordinates for %d of %d stations", summary.Updated, summary.TotalProcessed)
	if len(summary.UnknownCities) > 0 {
		logger.Infof("No coordinates known for %d cities: %v", len(summary.UnknownCities), summary.UnknownCities)
	}
}
