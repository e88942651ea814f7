package service

import (
	"context"
	"log"
	"sync"
	"time"

	"fretenota/internal/port"
)

// SheetSyncConfig holds settings for the spreadsheet sync worker.
type SheetSyncConfig struct {
	PollInterval time.Duration
	Concurrency  int
}

// SheetSyncWorker polls for invoices awaiting mirror sync and pushes them
// to the spreadsheet in the background.
type SheetSyncWorker struct {
	invoiceRepo port.InvoiceRepository
	invoiceSvc  InvoiceService
	cfg         SheetSyncConfig
	wg          sync.WaitGroup
}

// NewSheetSyncWorker creates a new SheetSyncWorker.
func NewSheetSyncWorker(invoiceRepo port.InvoiceRepository, invoiceSvc InvoiceService, cfg SheetSyncConfig) *SheetSyncWorker {
	return &SheetSyncWorker{
		invoiceRepo: invoiceRepo,
		invoiceSvc:  invoiceSvc,
		cfg:         cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight syncs have finished.
func (w *SheetSyncWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("sheetSyncWorker: started (poll=%s, concurrency=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("sheetSyncWorker: shutting down, waiting for in-flight syncs...")
			w.wg.Wait()
			log.Printf("sheetSyncWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			invoices, err := w.invoiceRepo.ClaimPendingSync(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("sheetSyncWorker: ClaimPendingSync error: %v", err)
				continue
			}

			for i := range invoices {
				inv := invoices[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Fresh context independent of the poll context so
					// in-flight syncs complete even during shutdown.
					syncCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
					defer cancel()

					log.Printf("sheetSyncWorker: dispatching invoice %s", inv.ID)
					w.invoiceSvc.SyncInvoice(syncCtx, &inv)
				}()
			}
		}
	}
}
