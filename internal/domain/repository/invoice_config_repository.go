package repository

import (
	"context"

	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
)

// InvoiceConfigRepository define el puerto de persistencia para la configuración de facturas.
type InvoiceConfigRepository interface {
	// Get devuelve la primera fila o (nil, nil) si aún no hay configuración.
	Get(ctx context.Context) (*entity.InvoiceConfig, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, cfg *entity.InvoiceConfig) error
	Update(ctx context.Context, cfg *entity.InvoiceConfig) error
}
