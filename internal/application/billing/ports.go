package billing

import (
	"context"

	"github.com/jhoicas/commerce-invoicing/internal/domain/document"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
)

// DocumentRenderer dibuja una descripción de documento y devuelve los bytes del PDF.
// Debe ser determinista: la misma descripción produce los mismos bytes.
type DocumentRenderer interface {
	Render(ctx context.Context, doc *document.Document) ([]byte, error)
}

// LogoFetcher descarga el logo de la empresa y lo normaliza a un formato embebible.
type LogoFetcher interface {
	Fetch(ctx context.Context, url string) (*Logo, error)
}

// Notifier despacha notificaciones (email) con adjuntos opcionales.
type Notifier interface {
	Send(ctx context.Context, notifications []entity.Notification) error
}

// InvoiceGenerator genera el PDF de una factura a partir del snapshot de la orden.
type InvoiceGenerator interface {
	GenerateInvoiceDocument(ctx context.Context, order *entity.Order, items []entity.LineItem, invoiceID string) ([]byte, error)
}
