package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/buckets-finance/buckets/internal/config"
	v1 "github.com/buckets-finance/buckets/internal/controllers/v1"
	"github.com/buckets-finance/buckets/internal/ledger"
	"github.com/buckets-finance/buckets/internal/models"
	"github.com/buckets-finance/buckets/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	path, ok := os.LookupEnv("BUCKETS_CONFIG")
	if !ok {
		path = "config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration")
	}

	setupLogging(cfg.Log)

	// Create the directory of the SQLite database
	if !models.IsPostgres(cfg.Database.DSN) {
		dir := filepath.Dir(strings.SplitN(cfg.Database.DSN, "?", 2)[0])
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			log.Fatal().Err(err).Msg("Data directory")
		}
	}

	db, err := models.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Database")
	}

	location, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration")
	}

	l := ledger.New(db, ledger.Settings{
		RoundDecimals:  cfg.Defaults.RoundDecimals,
		FirstDayOfWeek: cfg.Defaults.FirstDayOfWeek,
		Location:       location,
	})

	r, teardown, err := router.Config(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Router")
	}
	defer teardown()

	router.AttachRoutes(r.Group("/"), v1.New(l, cfg.DefaultUnit(), cfg.Defaults.TopCategories), db, cfg.Server.EnablePprof)

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shut down")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info().Msg("Server exited")
}

// setupLogging configures the global zerolog logger.
//
// The format is human readable for "human", JSON otherwise. An unknown
// level falls back to info, or debug when gin runs in debug mode.
func setupLogging(cfg config.Log) {
	output := io.Writer(os.Stdout)
	if cfg.Format == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
		if gin.IsDebugging() {
			level = zerolog.DebugLevel
		}
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(output).With().Timestamp().Logger()
}
