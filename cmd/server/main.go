package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mamadbah2/cattlehealth/internal/config"
	"github.com/mamadbah2/cattlehealth/internal/metrics"
	"github.com/mamadbah2/cattlehealth/internal/repository/mongodb"
	"github.com/mamadbah2/cattlehealth/internal/repository/sheets"
	"github.com/mamadbah2/cattlehealth/internal/scheduler"
	"github.com/mamadbah2/cattlehealth/internal/server/handlers"
	"github.com/mamadbah2/cattlehealth/internal/server/router"
	commandsvc "github.com/mamadbah2/cattlehealth/internal/service/commands"
	herdsvc "github.com/mamadbah2/cattlehealth/internal/service/herd"
	notifysvc "github.com/mamadbah2/cattlehealth/internal/service/notify"
	recordsvc "github.com/mamadbah2/cattlehealth/internal/service/records"
	"github.com/mamadbah2/cattlehealth/pkg/auth"
	"github.com/mamadbah2/cattlehealth/pkg/clients/appscript"
	whatsappclient "github.com/mamadbah2/cattlehealth/pkg/clients/whatsapp"
	"github.com/mamadbah2/cattlehealth/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	reader, err := newTabReader(context.Background(), cfg, m, baseLogger.Named("repo.sheets"))
	if err != nil {
		baseLogger.Fatal("failed to init sheets reader", zap.Error(err))
	}

	gateway := appscript.NewClient(cfg.AppScript, m, baseLogger.Named("client.appscript"))
	recordSvc := recordsvc.NewService(reader, gateway, m, baseLogger.Named("svc.records"))
	herdSvc := herdsvc.NewService(recordSvc, baseLogger.Named("svc.herd"))
	commandDispatcher := commandsvc.NewService(gateway, herdSvc, baseLogger.Named("svc.commands"))
	tokens := auth.NewTokenService(cfg.Auth)

	var (
		handlerOpts []handlers.Option
		reportRepo  mongodb.ReportRepository
		messenger   notifysvc.Messenger
	)

	if cfg.MongoDB.URI != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		reportRepo = mongoRepo
		handlerOpts = append(handlerOpts, handlers.WithReports(mongoRepo))
	} else {
		baseLogger.Warn("mongodb uri missing, daily reports will not be stored")
	}

	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		whatsMessenger := notifysvc.NewWhatsAppMessenger(cfg.WhatsApp, whatsClient, baseLogger.Named("svc.notify"))
		messenger = whatsMessenger
		handlerOpts = append(handlerOpts, handlers.WithMessenger(whatsMessenger))
	} else {
		baseLogger.Warn("whatsapp credentials missing, digest notifications disabled")
	}

	h := handlers.New(herdSvc, commandDispatcher, tokens, baseLogger.Named("handlers"), handlerOpts...)
	engine := router.New(h, router.Options{
		Tokens:         tokens,
		Metrics:        m,
		Gatherer:       registry,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		AuthLimiter:    rate.NewLimiter(rate.Limit(cfg.Auth.RateLimit), cfg.Auth.RateBurst),
		Logger:         baseLogger.Named("router"),
	})

	sched, err := scheduler.NewScheduler(cfg.Reporting, herdSvc, reportRepo, messenger, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("sheets_read_mode", cfg.Sheets.ReadMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newTabReader(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log *zap.Logger) (sheets.TabReader, error) {
	if cfg.Sheets.ReadMode == config.ReadModeAPI {
		return sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, m, log)
	}
	return sheets.NewCSVExportFetcher(cfg.Sheets, m, log), nil
}
