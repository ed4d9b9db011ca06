package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/commerce-invoicing/internal/domain"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
	"github.com/jhoicas/commerce-invoicing/internal/domain/repository"
)

// GeneratedInvoice resultado de generar la factura de una orden.
type GeneratedInvoice struct {
	Order    *entity.Order
	Invoice  *entity.Invoice
	Content  []byte
	Filename string
}

// Attachment convierte el PDF en un adjunto de notificación.
func (g *GeneratedInvoice) Attachment() entity.Attachment {
	return entity.Attachment{
		Content:     g.Content,
		Filename:    g.Filename,
		ContentType: "application/pdf",
		Disposition: "attachment",
	}
}

// InvoiceWorkflow orquesta el ciclo de vida de las facturas de una orden:
// factura ACTIVE, invalidación (STALE) y generación del PDF.
type InvoiceWorkflow struct {
	orders    repository.OrderRepository
	giftCards repository.GiftCardRepository
	invoices  repository.InvoiceRepository
	generator InvoiceGenerator
	log       zerolog.Logger
	now       func() time.Time
}

// NewInvoiceWorkflow construye el workflow.
func NewInvoiceWorkflow(
	orders repository.OrderRepository,
	giftCards repository.GiftCardRepository,
	invoices repository.InvoiceRepository,
	generator InvoiceGenerator,
	log zerolog.Logger,
) *InvoiceWorkflow {
	return &InvoiceWorkflow{
		orders:    orders,
		giftCards: giftCards,
		invoices:  invoices,
		generator: generator,
		log:       log,
		now:       time.Now,
	}
}

// GetOrCreateActiveInvoice devuelve la factura ACTIVE de la orden; si no hay, crea una
// con el siguiente display_id y sin descripción guardada.
func (w *InvoiceWorkflow) GetOrCreateActiveInvoice(ctx context.Context, orderID string) (*entity.Invoice, error) {
	inv, err := w.invoices.GetActiveByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("invoice: obtener activa: %w", err)
	}
	if inv != nil {
		return inv, nil
	}

	displayID, err := w.invoices.NextDisplayID(ctx)
	if err != nil {
		return nil, fmt.Errorf("invoice: siguiente display_id: %w", err)
	}
	now := w.now()
	inv = &entity.Invoice{
		ID:        uuid.New().String(),
		DisplayID: displayID,
		OrderID:   orderID,
		Status:    entity.InvoiceStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := w.invoices.Create(ctx, inv); err != nil {
		// Otra llamada creó la factura ACTIVE entre la lectura y la inserción.
		if errors.Is(err, domain.ErrConflict) {
			existing, gErr := w.invoices.GetActiveByOrderID(ctx, orderID)
			if gErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("invoice: crear: %w", err)
	}
	w.log.Info().Str("order_id", orderID).Int64("display_id", displayID).Msg("invoice: factura creada")
	return inv, nil
}

// MarkInvoicesStale marca como STALE todas las facturas de la orden. Sólo cambia el
// estado: la descripción guardada se conserva.
func (w *InvoiceWorkflow) MarkInvoicesStale(ctx context.Context, orderID string) ([]*entity.Invoice, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: order_id requerido", domain.ErrInvalidInput)
	}
	updated, err := w.invoices.UpdateStatusByOrderID(ctx, orderID, entity.InvoiceStatusStale)
	if err != nil {
		return nil, fmt.Errorf("invoice: marcar stale: %w", err)
	}
	w.log.Info().Str("order_id", orderID).Int("invoices", len(updated)).Msg("invoice: facturas marcadas como stale")
	return updated, nil
}

// LoadOrder obtiene el grafo de la orden y sus tarjetas regalo.
//
// Retorna domain.ErrNotFound si la orden no existe.
func (w *InvoiceWorkflow) LoadOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	var (
		order     *entity.Order
		giftCards []entity.GiftCard
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		o, err := w.orders.GetByID(gctx, orderID)
		if err != nil {
			return fmt.Errorf("invoice: obtener orden: %w", err)
		}
		order = o
		return nil
	})
	g.Go(func() error {
		gcs, err := w.giftCards.ListByReferenceID(gctx, orderID)
		if err != nil {
			return fmt.Errorf("invoice: obtener tarjetas regalo: %w", err)
		}
		giftCards = gcs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, orderID)
	}
	if order.HasGiftCardItems() {
		order.GiftCards = giftCards
	}
	return order, nil
}

// GenerateForOrder genera (o regenera desde la descripción guardada) el PDF de la
// factura ACTIVE de la orden.
func (w *InvoiceWorkflow) GenerateForOrder(ctx context.Context, orderID string) (*GeneratedInvoice, error) {
	// ── 1. Orden + tarjetas regalo ────────────────────────────────────────────
	order, err := w.LoadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// ── 2. Nombre de país legible en las direcciones ──────────────────────────
	snapshot := *order
	snapshot.BillingAddress = withCountryName(order.BillingAddress)
	snapshot.ShippingAddress = withCountryName(order.ShippingAddress)

	// ── 3. Factura ACTIVE ─────────────────────────────────────────────────────
	inv, err := w.GetOrCreateActiveInvoice(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	// ── 4. PDF ────────────────────────────────────────────────────────────────
	content, err := w.generator.GenerateInvoiceDocument(ctx, &snapshot, snapshot.Items, inv.ID)
	if err != nil {
		return nil, err
	}
	return &GeneratedInvoice{
		Order:    order,
		Invoice:  inv,
		Content:  content,
		Filename: "invoice-" + strconv.FormatInt(order.DisplayID, 10) + ".pdf",
	}, nil
}

func withCountryName(a *entity.Address) *entity.Address {
	if a == nil {
		return nil
	}
	out := *a
	out.CountryCode = CountryName(a.CountryCode)
	return &out
}
