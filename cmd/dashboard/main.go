package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/telebot.v3"

	"teacher_hours_dashboard/internal/app"
	"teacher_hours_dashboard/internal/domain/notify"
	"teacher_hours_dashboard/internal/domain/report"
	"teacher_hours_dashboard/internal/infra/config"
	idb "teacher_hours_dashboard/internal/infra/database"
	"teacher_hours_dashboard/internal/infra/httpserver"
	"teacher_hours_dashboard/internal/infra/logger"
	"teacher_hours_dashboard/internal/infra/scheduler"
	"teacher_hours_dashboard/internal/infra/sheets"
	"teacher_hours_dashboard/internal/infra/telegram"
)

func main() {
	fmt.Println("Teacher Hours Dashboard starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Spreadsheet: %s", cfg.LogLevel, cfg.Environment, cfg.SpreadsheetID)

	ctx := context.Background()

	// Google Sheets source
	creds := []byte(cfg.GoogleCredentialsJSON)
	if len(creds) == 0 {
		creds, err = os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			log.Fatalf("FATAL: Could not read Google credentials file: %v", err)
		}
	}
	source, err := sheets.NewClient(ctx, creds, cfg.SpreadsheetID, cfg.WorksheetName, log)
	if err != nil {
		log.Fatalf("FATAL: Could not create Google Sheets client: %v", err)
	}
	log.Info("Google Sheets source initialized.")

	// Validation engine
	tolerance := decimal.NewFromInt(int64(cfg.ToleranceMinutes)).Div(decimal.NewFromInt(60))
	validator := app.NewValidator(tolerance)
	log.Infof("Validator initialized with tolerance of %d minute(s).", cfg.ToleranceMinutes)

	// Optional run-history storage
	var runRepo report.RunRepository
	if cfg.HistoryEnabled() {
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to database: %v", err)
		}
		defer db.Close()

		pgRepo := idb.NewPostgresRunRepository(db)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			log.Fatalf("FATAL: Could not prepare database schema: %v", err)
		}
		runRepo = pgRepo
		log.Info("Run history repository initialized.")
	} else {
		log.Info("DATABASE_URL not set, run history disabled.")
	}

	// Optional Telegram notifier
	var notifier notify.Notifier
	if cfg.NotificationsEnabled() {
		// Send-only bot: no poller, no handlers.
		bot, err := telebot.NewBot(telebot.Settings{Token: cfg.TelegramToken})
		if err != nil {
			log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
		}
		notifier = telegram.NewTelebotNotifier(bot, cfg.AdminTelegramID)
		log.Info("Telegram notifier initialized.")
	} else {
		log.Info("Telegram credentials not set, notifications disabled.")
	}

	svc := app.NewDashboardService(source, validator, runRepo, notifier, log)

	// Initial pass so the API has a report before the first cron tick. A
	// failure here is not fatal: the scheduler will retry.
	initCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	if _, err := svc.Refresh(initCtx); err != nil {
		log.WithError(err).Warn("initial refresh failed, will retry on schedule")
	}
	cancel()

	refreshScheduler := scheduler.NewRefreshScheduler(svc, log, cfg.CronSpecRefresh)
	if err := refreshScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start refresh scheduler: %v", err)
	}

	server := httpserver.New(svc, log, cfg.HTTPAddr, cfg.Environment)
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
	}()

	log.Info("Application setup complete.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	refreshScheduler.Stop()

	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
	log.Info("Application shut down gracefully.")
}
