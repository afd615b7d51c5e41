package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeene/pihome/pkg/api"
	"github.com/dkeene/pihome/pkg/camera"
	"github.com/dkeene/pihome/pkg/config"
	"github.com/dkeene/pihome/pkg/db"
	"github.com/dkeene/pihome/pkg/gpio"
	"github.com/dkeene/pihome/pkg/notify"
	"github.com/dkeene/pihome/pkg/remote"
	"github.com/dkeene/pihome/pkg/remote/schema"
)

func main() {
	// Configure logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	configPath := flag.String("config", "", "Path to settings file (default: built-in defaults)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load settings
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load settings")
	}

	log.Info().
		Str("listen", cfg.Listen).
		Str("gpio", cfg.GPIO).
		Dur("poll_interval", cfg.PollInterval).
		Msg("Settings loaded")

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}

	log.Info().Str("path", database.Path()).Msg("Database opened")

	// Run migrations
	if err := database.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Pick the hardware backend; fall back to the memory driver when the
	// Raspberry Pi gpio device is unavailable
	backend := cfg.GPIO
	var driver gpio.Driver
	if backend == "rpi" {
		rpi, err := gpio.NewRPi()
		if err != nil {
			log.Warn().Err(err).Msg("GPIO hardware unavailable, using memory driver")
			backend = "memory"
			driver = gpio.NewMemory()
		} else {
			driver = rpi
		}
	} else {
		driver = gpio.NewMemory()
	}

	// Alert delivery
	var notifier notify.Notifier
	if cfg.SMTP.Server != "" {
		notifier = notify.NewMailer(cfg.SMTP.Server, cfg.SMTP.From)
		log.Info().Str("server", cfg.SMTP.Server).Msg("Alert mail enabled")
	} else {
		notifier = notify.LogNotifier{}
		log.Info().Msg("No SMTP server configured, alerts will only be logged")
	}

	// Snapshot capture
	var cam camera.Camera
	if cfg.Camera.Dir != "" {
		webcam, err := camera.NewWebcam(cfg.Camera.Dir, cfg.Camera.Command)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to set up camera")
		}
		cam = webcam
		log.Info().Str("dir", cfg.Camera.Dir).Msg("Camera enabled")
	} else {
		cam = camera.Null{}
	}

	registry := remote.NewRegistry(driver, notifier, cam)

	store := database.Remotes()

	// Control cycle
	go registry.Run(ctx, cfg.PollInterval, store)

	validator := schema.NewValidator()
	router := api.NewRouter(registry, store, validator, backend)

	// Handle shutdown gracefully. This is the only teardown path:
	// router.Run never returns without an error and log.Fatal skips
	// deferred calls anyway.
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		cancel()
		registry.Close()
		if err := driver.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close gpio driver")
		}
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
		os.Exit(0)
	}()

	// Start server
	log.Info().Str("address", cfg.Listen).Msg("Starting API server")

	if err := router.Run(cfg.Listen); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
