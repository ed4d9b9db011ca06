package repository

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetActiveByOrderID devuelve la factura ACTIVE de la orden o (nil, nil).
	GetActiveByOrderID(ctx context.Context, orderID string) (*entity.Invoice, error)
	// NextDisplayID devuelve el siguiente número visible de factura.
	NextDisplayID(ctx context.Context) (int64, error)
	UpdatePDFContent(ctx context.Context, id string, content json.RawMessage) error
	// UpdateStatusByOrderID cambia el estado de todas las facturas de la orden y devuelve las afectadas.
	UpdateStatusByOrderID(ctx context.Context, orderID, status string) ([]*entity.Invoice, error)
}
