package repository

import (
	"context"

	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
)

// OrderRepository lectura del grafo de la orden (ítems, direcciones, pagos).
type OrderRepository interface {
	// GetByID devuelve (nil, nil) si la orden no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	UpdateCustomer(ctx context.Context, orderID, customerID string) (*entity.Order, error)
}

// GiftCardRepository consultas de tarjetas regalo.
type GiftCardRepository interface {
	ListByReferenceID(ctx context.Context, orderID string) ([]entity.GiftCard, error)
	ListByLineItemID(ctx context.Context, lineItemID string) ([]entity.GiftCard, error)
}
