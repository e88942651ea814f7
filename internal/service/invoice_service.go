package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fretenota/internal/domain"
	"fretenota/internal/extractor"
	"fretenota/internal/port"
	"fretenota/internal/refdata"
	"fretenota/internal/sheets"
	"fretenota/internal/validator"
	"fretenota/internal/validator/notafiscal"
)

// UpdateInvoiceInput is the DTO for partial invoice edits. Nil fields are
// left untouched.
type UpdateInvoiceInput struct {
	NumeroNF         *string `json:"numero_nf"`
	CNPJEmitente     *string `json:"cnpj_emitente"`
	NomeEmitente     *string `json:"nome_emitente"`
	CNPJDestinatario *string `json:"cnpj_destinatario"`
	NomeDestinatario *string `json:"nome_destinatario"`
	DataEmissao      *string `json:"data_emissao"`
	ValorTotal       *string `json:"valor_total"`
	ChaveAcesso      *string `json:"chave_acesso"`
	Status           *string `json:"status"`
	Transportadora   *string `json:"transportadora"`
	Placa            *string `json:"placa"`
}

// InvoiceService defines the nota fiscal management contract.
type InvoiceService interface {
	CreateFromUpload(ctx context.Context, input FileUploadInput) (*domain.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, filters *domain.InvoiceFilters, offset, limit int) ([]domain.Invoice, int, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInvoiceInput) (*domain.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Validate runs the nota fiscal field rules against one invoice.
	Validate(ctx context.Context, id uuid.UUID) (*validator.Report, error)

	// SyncNow pushes one invoice to the spreadsheet mirror synchronously.
	SyncNow(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	// SyncInvoice pushes one already-claimed invoice and records the
	// outcome. It is called by the background worker.
	SyncInvoice(ctx context.Context, inv *domain.Invoice)
	// ResyncAll pushes every invoice to the mirror concurrently.
	ResyncAll(ctx context.Context) (int, error)
}

type invoiceService struct {
	invoiceRepo port.InvoiceRepository
	fileSvc     FileService
	pdfReader   port.TextExtractor
	lookup      *refdata.TransporterLookup
	syncer      port.RowSyncer
	checker     *validator.Engine
	concurrency int
}

// NewInvoiceService creates a new InvoiceService implementation. syncer may
// be nil when the spreadsheet mirror is not configured.
func NewInvoiceService(
	invoiceRepo port.InvoiceRepository,
	fileSvc FileService,
	pdfReader port.TextExtractor,
	lookup *refdata.TransporterLookup,
	syncer port.RowSyncer,
	concurrency int,
) InvoiceService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		fileSvc:     fileSvc,
		pdfReader:   pdfReader,
		lookup:      lookup,
		syncer:      syncer,
		checker:     validator.NewEngine(notafiscal.DefaultRegistry()),
		concurrency: concurrency,
	}
}

func (s *invoiceService) CreateFromUpload(ctx context.Context, input FileUploadInput) (*domain.Invoice, error) {
	meta, err := s.fileSvc.Upload(ctx, input)
	if err != nil {
		return nil, err
	}

	data, _, err := s.fileSvc.Download(ctx, meta.ID)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.CreateFromUpload: %w", err)
	}

	text, err := s.pdfReader.ExtractText(data)
	if err != nil {
		log.Printf("invoiceService.CreateFromUpload: text extraction failed for file %s: %v", meta.ID, err)
		text = ""
	}

	// An empty text layer is not fatal: the record is created with every
	// extracted field nil and can be completed by hand.
	rec, err := extractor.Extract(text)
	if err != nil && !errors.Is(err, domain.ErrEmptyDocumentText) {
		return nil, fmt.Errorf("invoiceService.CreateFromUpload: %w", err)
	}

	inv := &domain.Invoice{
		ID:               uuid.New(),
		FileID:           &meta.ID,
		NumeroNF:         rec.NumeroNF,
		CNPJEmitente:     rec.CNPJEmitente,
		NomeEmitente:     rec.NomeEmitente,
		CNPJDestinatario: rec.CNPJDestinatario,
		NomeDestinatario: rec.NomeDestinatario,
		DataEmissao:      rec.DataEmissao,
		ValorTotal:       rec.ValorTotal,
		ChaveAcesso:      rec.ChaveAcesso,
		Status:           domain.InvoiceStatusPendente,
		SyncStatus:       domain.SyncStatusPending,
		CreatedBy:        input.UploadedBy,
	}
	s.applyValorCentavos(inv)
	s.resolveTransporter(inv)

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("invoiceService.CreateFromUpload: %w", err)
	}

	log.Printf("invoiceService.CreateFromUpload: invoice %s created from file %s", inv.ID, meta.ID)
	return inv, nil
}

// applyValorCentavos derives the integer cents column from the textual
// valor_total field.
func (s *invoiceService) applyValorCentavos(inv *domain.Invoice) {
	inv.ValorCentavos = nil
	if inv.ValorTotal == nil {
		return
	}
	cents, err := extractor.ParseValorCentavos(*inv.ValorTotal)
	if err != nil {
		log.Printf("invoiceService: unparseable valor_total %q on invoice %s: %v", *inv.ValorTotal, inv.ID, err)
		return
	}
	inv.ValorCentavos = &cents
}

// resolveTransporter matches the invoice against the carrier reference
// data, first by issuer CNPJ, then fuzzily by issuer name.
func (s *invoiceService) resolveTransporter(inv *domain.Invoice) {
	if s.lookup == nil || inv.Transportadora != nil {
		return
	}
	var t *domain.Transporter
	if inv.CNPJEmitente != nil {
		t = s.lookup.ResolveByCNPJ(*inv.CNPJEmitente)
	}
	if t == nil && inv.NomeEmitente != nil {
		t = s.lookup.Resolve(*inv.NomeEmitente)
	}
	if t == nil {
		return
	}
	inv.Transportadora = &t.Name
	if inv.Placa == nil && t.DefaultPlaca != "" {
		placa := t.DefaultPlaca
		inv.Placa = &placa
	}
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *invoiceService) List(ctx context.Context, filters *domain.InvoiceFilters, offset, limit int) ([]domain.Invoice, int, error) {
	return s.invoiceRepo.List(ctx, filters, offset, limit)
}

func (s *invoiceService) Update(ctx context.Context, id uuid.UUID, input UpdateInvoiceInput) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		status := domain.InvoiceStatus(*input.Status)
		if !domain.ValidInvoiceStatuses[status] {
			return nil, domain.ErrInvalidStatus
		}
		inv.Status = status
	}
	if input.NumeroNF != nil {
		inv.NumeroNF = input.NumeroNF
	}
	if input.CNPJEmitente != nil {
		inv.CNPJEmitente = input.CNPJEmitente
	}
	if input.NomeEmitente != nil {
		inv.NomeEmitente = input.NomeEmitente
	}
	if input.CNPJDestinatario != nil {
		inv.CNPJDestinatario = input.CNPJDestinatario
	}
	if input.NomeDestinatario != nil {
		inv.NomeDestinatario = input.NomeDestinatario
	}
	if input.DataEmissao != nil {
		inv.DataEmissao = input.DataEmissao
	}
	if input.ValorTotal != nil {
		inv.ValorTotal = input.ValorTotal
		s.applyValorCentavos(inv)
	}
	if input.ChaveAcesso != nil {
		inv.ChaveAcesso = input.ChaveAcesso
	}
	if input.Transportadora != nil {
		inv.Transportadora = input.Transportadora
	}
	if input.Placa != nil {
		inv.Placa = input.Placa
	}

	// Any edit makes the mirror stale.
	inv.SyncStatus = domain.SyncStatusPending
	inv.SyncError = nil

	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	if inv.FileID != nil {
		if err := s.fileSvc.Delete(ctx, *inv.FileID); err != nil {
			log.Printf("invoiceService.Delete: failed to delete file %s for invoice %s: %v", *inv.FileID, id, err)
		}
	}
	return nil
}

func (s *invoiceService) Validate(ctx context.Context, id uuid.UUID) (*validator.Report, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.checker.Validate(inv), nil
}

func (s *invoiceService) SyncNow(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.pushToSheet(ctx, inv); err != nil {
		if markErr := s.invoiceRepo.MarkSyncFailed(ctx, inv.ID, err.Error()); markErr != nil {
			log.Printf("invoiceService.SyncNow: failed to record sync failure for %s: %v", inv.ID, markErr)
		}
		return nil, err
	}

	if err := s.invoiceRepo.MarkSynced(ctx, inv.ID); err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetByID(ctx, id)
}

// SyncInvoice pushes one invoice and records success or failure on the
// record. Errors are terminal for this attempt; a later edit or resync
// makes the invoice pending again.
func (s *invoiceService) SyncInvoice(ctx context.Context, inv *domain.Invoice) {
	if err := s.pushToSheet(ctx, inv); err != nil {
		log.Printf("invoiceService.SyncInvoice: sync failed for %s: %v", inv.ID, err)
		if markErr := s.invoiceRepo.MarkSyncFailed(ctx, inv.ID, err.Error()); markErr != nil {
			log.Printf("invoiceService.SyncInvoice: failed to record sync failure for %s: %v", inv.ID, markErr)
		}
		return
	}
	if err := s.invoiceRepo.MarkSynced(ctx, inv.ID); err != nil {
		log.Printf("invoiceService.SyncInvoice: failed to mark %s synced: %v", inv.ID, err)
	}
}

func (s *invoiceService) ResyncAll(ctx context.Context) (int, error) {
	if s.syncer == nil {
		return 0, domain.ErrSheetsNotConfigured
	}

	invoices, _, err := s.invoiceRepo.List(ctx, nil, 0, 10000)
	if err != nil {
		return 0, fmt.Errorf("invoiceService.ResyncAll: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range invoices {
		inv := invoices[i]
		g.Go(func() error {
			if err := s.pushToSheet(gctx, &inv); err != nil {
				log.Printf("invoiceService.ResyncAll: sync failed for %s: %v", inv.ID, err)
				if markErr := s.invoiceRepo.MarkSyncFailed(gctx, inv.ID, err.Error()); markErr != nil {
					log.Printf("invoiceService.ResyncAll: failed to record sync failure for %s: %v", inv.ID, markErr)
				}
				return nil
			}
			return s.invoiceRepo.MarkSynced(gctx, inv.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return len(invoices), err
	}
	return len(invoices), nil
}

// pushToSheet mirrors one invoice: first sync appends, later syncs update
// in place.
func (s *invoiceService) pushToSheet(ctx context.Context, inv *domain.Invoice) error {
	if s.syncer == nil {
		return domain.ErrSheetsNotConfigured
	}
	row := buildRow(inv)
	if inv.SyncedAt == nil {
		return s.syncer.Append(ctx, row)
	}
	err := s.syncer.Update(ctx, row)
	if errors.Is(err, domain.ErrSheetRowNotFound) {
		// The mirror row vanished (manual spreadsheet edits); re-append.
		return s.syncer.Append(ctx, row)
	}
	return err
}

// buildRow flattens an invoice into the spreadsheet row shape. Key order
// here defines the column order used when the sheet has no header row.
func buildRow(inv *domain.Invoice) *sheets.Row {
	row := sheets.NewRow().
		Set("registro_id", inv.ID.String()).
		Set("numero_nf", strVal(inv.NumeroNF)).
		Set("cnpj_emitente", strVal(inv.CNPJEmitente)).
		Set("nome_emitente", strVal(inv.NomeEmitente)).
		Set("cnpj_destinatario", strVal(inv.CNPJDestinatario)).
		Set("nome_destinatario", strVal(inv.NomeDestinatario)).
		Set("data_emissao", strVal(inv.DataEmissao)).
		Set("valor_total", strVal(inv.ValorTotal)).
		Set("chave_acesso", strVal(inv.ChaveAcesso)).
		Set("status", string(inv.Status)).
		Set("transportadora", strVal(inv.Transportadora)).
		Set("placa", strVal(inv.Placa))
	if inv.SyncedAt != nil {
		row.Set("sincronizado_em", inv.SyncedAt.UTC().Format(time.RFC3339))
	}
	return row
}

func strVal(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
