package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Nazarious-ucu/weather-details/internal/app"
	"github.com/Nazarious-ucu/weather-details/internal/config"
	"github.com/Nazarious-ucu/weather-details/internal/services/metrics"
	"github.com/Nazarious-ucu/weather-details/pkg/logger"
)

const serviceName = "weather_details"

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	l, err := logger.NewLogger(cfg.LogsPath, serviceName, cfg.LogLevel)
	if err != nil {
		log.Panicf("failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(*cfg, l, metrics.NewMetrics(serviceName))
	if err := application.Start(ctx); err != nil {
		l.Error().Err(err).Msg("application failed to run")
		stop()
		os.Exit(1)
	}
}
