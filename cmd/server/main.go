package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fretenota/internal/config"
	"fretenota/internal/domain"
	"fretenota/internal/email/noop"
	"fretenota/internal/email/ses"
	"fretenota/internal/handler"
	"fretenota/internal/pdftext"
	"fretenota/internal/port"
	"fretenota/internal/refdata"
	"fretenota/internal/repository/postgres"
	"fretenota/internal/router"
	"fretenota/internal/service"
	"fretenota/internal/sheets"
	s3storage "fretenota/internal/storage/s3"
)

// @title FreteNota API
// @version 1.0
// @description Backend for managing freight nota fiscal PDFs with spreadsheet mirroring.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	transporterRepo := postgres.NewTransporterRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	// Storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Carrier reference data, loaded once at startup.
	transporters, err := transporterRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load transporters: %w", err)
	}
	lookup := refdata.NewTransporterLookup(transporters)
	log.Printf("loaded %d transporters into lookup", lookup.Len())

	// Spreadsheet mirror. A missing configuration disables sync rather
	// than failing startup.
	var syncer port.RowSyncer
	sheetsClient, err := sheets.NewGoogleClient(ctx, &cfg.Sheets)
	switch {
	case err == nil:
		syncer = sheetsClient
		log.Printf("sheets mirror enabled (sheet=%s)", cfg.Sheets.SheetName)
	case errors.Is(err, domain.ErrSheetsNotConfigured):
		log.Printf("sheets mirror disabled: not configured")
	default:
		return fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	// Email
	var sender port.EmailSender
	if cfg.Email.Provider == "ses" {
		sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	} else {
		sender = noop.NewNoopSender()
	}

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	userSvc := service.NewUserService(userRepo)
	fileSvc := service.NewFileService(fileRepo, s3Client, &cfg.S3)
	invoiceSvc := service.NewInvoiceService(
		invoiceRepo, fileSvc, pdftext.NewReader(), lookup, syncer, cfg.Sync.Concurrency)
	statsSvc := service.NewStatsService(statsRepo)
	reportSvc := service.NewReportService(invoiceRepo, statsRepo, sender)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	fileH := handler.NewFileHandler(fileSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	reportH := handler.NewReportHandler(reportSvc)
	userH := handler.NewUserHandler(userSvc)
	healthH := handler.NewHealthHandler(db, syncer != nil)

	r := router.Setup(cfg.CORS.AllowedOrigins, authSvc,
		authH, invoiceH, fileH, statsH, reportH, userH, healthH)

	// Background sync worker, only when the mirror is configured.
	workerDone := make(chan struct{})
	if syncer != nil {
		worker := service.NewSheetSyncWorker(invoiceRepo, invoiceSvc, service.SheetSyncConfig{
			PollInterval: time.Duration(cfg.Sync.PollIntervalSecs) * time.Second,
			Concurrency:  cfg.Sync.Concurrency,
		})
		go func() {
			defer close(workerDone)
			worker.Start(ctx)
		}()
	} else {
		close(workerDone)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	<-workerDone
	log.Printf("shutdown complete")
	return nil
}
