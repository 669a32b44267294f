// Command requestbot boots the request-ledger process: configuration,
// logging, the SQLite-backed store, scheduled backups, and the optional
// metrics endpoint. The chat-platform integration is a separate concern
// that consumes the service layer; this entrypoint owns everything that
// must exist before the first event arrives.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-request-ledger/internal/backup"
	"github.com/tbourn/go-request-ledger/internal/config"
	"github.com/tbourn/go-request-ledger/internal/repo"
	"github.com/tbourn/go-request-ledger/internal/services"
	"github.com/tbourn/go-request-ledger/internal/sysutil"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	sysutil.SetLogLevel(cfg.LogLevel)

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate schema")
	}

	stats := &services.StatsService{DB: db}
	if s, err := stats.Global(context.Background()); err == nil {
		log.Info().
			Int64("pending", s.EnglishPending+s.NonEnglishPending).
			Int64("fulfilled", s.EnglishFulfilled+s.NonEnglishFulfilled).
			Msg("ledger loaded")
	}

	loc, err := time.LoadLocation(cfg.Backup.TZ)
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.Backup.TZ).Msg("load backup timezone")
	}
	exporter := &backup.Exporter{DB: db, Dir: cfg.Backup.Dir, Location: loc}

	scheduler := cron.New()
	if cfg.Backup.Schedule != "" {
		_, err := scheduler.AddFunc(cfg.Backup.Schedule, func() {
			if _, err := exporter.Export(context.Background()); err != nil {
				log.Error().Err(err).Msg("scheduled backup failed")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Backup.Schedule).Msg("register backup job")
		}
		scheduler.Start()
		log.Info().Str("schedule", cfg.Backup.Schedule).Msg("backup job scheduled")
	}

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Error().Err(err).Msg("metrics endpoint stopped")
			}
		}()
		log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics endpoint up")
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	scheduler.Stop()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
