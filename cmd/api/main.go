// @title Vet Booking API
// @version 1.0
// @description Reserva de horas para la clínica veterinaria.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"vet-booking/internal/adapters/notify/lognotify"
	"vet-booking/internal/adapters/notify/twilio"
	pg "vet-booking/internal/adapters/storage/postgres"
	"vet-booking/internal/config"
	"vet-booking/internal/jobs"
	"vet-booking/internal/platform/logger"
	"vet-booking/internal/platform/otelx"
	"vet-booking/internal/ports/notify"
	"vet-booking/internal/router"
)

func main() {
	// .env es opcional (dev); en producción todo viene del entorno.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).Error("invalid config", map[string]any{"err": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otelx.Setup(ctx, otelx.FromConfig(cfg))
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	var db *sql.DB
	if cfg.DatabaseDSN != "" {
		db, err = pg.Open(cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err = pg.Migrate(mctx, db)
		cancel()
		if err != nil {
			return err
		}
		log.Info("using postgres store", nil)
	} else {
		log.Warn("DB_DSN not set, using in-memory store", nil)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pctx).Err(); err != nil {
			// el limiter es fail-open; Redis caído no impide arrancar
			log.Warn("redis ping failed", map[string]any{"err": err})
		}
		cancel()
	}

	app, err := router.Build(router.Options{
		Config: cfg,
		Logger: log,
		DB:     db,
		Redis:  rdb,
	})
	if err != nil {
		return err
	}

	if cfg.RemindersEnabled {
		var notifier notify.Notifier = lognotify.New(log)
		if cfg.TwilioConfigured() {
			tw, err := twilio.New(twilio.Config{
				AccountSID: cfg.TwilioAccountSID,
				AuthToken:  cfg.TwilioAuthToken,
				FromNumber: cfg.TwilioFromNumber,
			})
			if err != nil {
				return err
			}
			notifier = tw
		}

		scheduler := jobs.NewScheduler(app.Location)
		if _, err := jobs.NewReminders(app.Appointments, notifier, log).Schedule(scheduler, cfg.ReminderCron); err != nil {
			return err
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		log.Info("reminders scheduled", map[string]any{"cron": cfg.ReminderCron})
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(app.Handler, cfg.AppName),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
