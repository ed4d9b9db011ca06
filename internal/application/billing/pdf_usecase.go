package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/commerce-invoicing/internal/domain"
	"github.com/jhoicas/commerce-invoicing/internal/domain/document"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
	"github.com/jhoicas/commerce-invoicing/internal/domain/repository"
)

// PDFUseCase genera el PDF de una factura. La descripción del documento se calcula
// una sola vez y queda guardada en la factura; las regeneraciones la reutilizan
// sin volver a leer la configuración de la empresa.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	configRepo  repository.InvoiceConfigRepository
	builder     *DocumentBuilder
	renderer    DocumentRenderer
	logos       LogoFetcher
	log         zerolog.Logger

	inflight singleflight.Group
}

var _ InvoiceGenerator = (*PDFUseCase)(nil)

// generateTimeout acota la ejecución compartida, que no hereda la cancelación.
const generateTimeout = 2 * time.Minute

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
// logos puede ser nil: en ese caso la factura se genera sin logo.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	configRepo repository.InvoiceConfigRepository,
	builder *DocumentBuilder,
	renderer DocumentRenderer,
	logos LogoFetcher,
	log zerolog.Logger,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		configRepo:  configRepo,
		builder:     builder,
		renderer:    renderer,
		logos:       logos,
		log:         log,
	}
}

// GenerateInvoiceDocument devuelve los bytes del PDF de la factura invoiceID.
//
// Retorna:
//   - (pdfBytes, nil)      si todo sale bien.
//   - domain.ErrNotFound   si la factura no existe.
//   - error de render/persistencia tal cual (envuelto).
//
// Llamadas concurrentes para la misma factura comparten una única ejecución. La
// ejecución compartida no depende de la cancelación de ningún llamador; cada uno
// deja de esperar cuando se cancela su propio ctx.
func (uc *PDFUseCase) GenerateInvoiceDocument(
	ctx context.Context,
	order *entity.Order,
	items []entity.LineItem,
	invoiceID string,
) ([]byte, error) {
	ch := uc.inflight.DoChan(invoiceID, func() (interface{}, error) {
		genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), generateTimeout)
		defer cancel()
		return uc.generate(genCtx, order, items, invoiceID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shared := res.Val.([]byte)
		out := make([]byte, len(shared))
		copy(out, shared)
		return out, nil
	}
}

func (uc *PDFUseCase) generate(ctx context.Context, order *entity.Order, items []entity.LineItem, invoiceID string) ([]byte, error) {
	// ── 1. Cargar factura ─────────────────────────────────────────────────────
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
	}
	log := uc.log.With().Str("invoice_id", inv.ID).Int64("display_id", inv.DisplayID).Logger()

	// ── 2. Reutilizar la descripción guardada (salvo factura STALE) ──────────
	var doc *document.Document
	if inv.HasPDFContent() && !inv.IsStale() {
		doc, err = document.Unmarshal(inv.PDFContent)
		if err != nil {
			return nil, fmt.Errorf("pdf: descripción guardada inválida: %w", err)
		}
		log.Debug().Msg("pdf: reutilizando descripción guardada")
	} else {
		// ── 3. Calcular y persistir antes de dibujar ─────────────────────────
		doc, err = uc.computeAndStore(ctx, log, order, items, inv)
		if err != nil {
			return nil, err
		}
	}

	// ── 4. Render ─────────────────────────────────────────────────────────────
	pdfBytes, err := uc.renderer.Render(ctx, doc)
	if err != nil {
		log.Error().Err(err).Msg("pdf: render fallido")
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return pdfBytes, nil
}

// computeAndStore construye la descripción, la guarda en la factura y devuelve la
// versión deserializada, la misma que leerán las regeneraciones posteriores.
func (uc *PDFUseCase) computeAndStore(
	ctx context.Context,
	log zerolog.Logger,
	order *entity.Order,
	items []entity.LineItem,
	inv *entity.Invoice,
) (*document.Document, error) {
	if order == nil {
		return nil, fmt.Errorf("%w: orden requerida para la factura %s", domain.ErrInvalidInput, inv.ID)
	}

	cfg, err := uc.configRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener configuración: %w", err)
	}
	if cfg == nil {
		log.Warn().Msg("pdf: sin configuración de factura, se usan datos vacíos")
		cfg = &entity.InvoiceConfig{}
	}

	doc, err := uc.builder.Build(DocumentInput{
		Order:   order,
		Items:   items,
		Invoice: inv,
		Config:  *cfg,
		Logo:    uc.fetchLogo(ctx, log, cfg.CompanyLogo),
	})
	if err != nil {
		return nil, fmt.Errorf("pdf: construir documento: %w", err)
	}

	raw, err := doc.Marshal()
	if err != nil {
		return nil, err
	}
	if err := uc.invoiceRepo.UpdatePDFContent(ctx, inv.ID, raw); err != nil {
		return nil, fmt.Errorf("pdf: guardar descripción: %w", err)
	}
	log.Info().Msg("pdf: descripción calculada y guardada")

	return document.Unmarshal(raw)
}

// fetchLogo descarga el logo; cualquier fallo deja la factura sin logo.
func (uc *PDFUseCase) fetchLogo(ctx context.Context, log zerolog.Logger, url string) *Logo {
	if url == "" || uc.logos == nil {
		return nil
	}
	logo, err := uc.logos.Fetch(ctx, url)
	if err != nil {
		log.Warn().Err(err).Str("logo_url", url).Msg("pdf: logo no disponible, se genera sin logo")
		return nil
	}
	return logo
}
