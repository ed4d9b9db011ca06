package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/commerce-invoicing/internal/application/dto"
	"github.com/jhoicas/commerce-invoicing/internal/domain"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
	"github.com/jhoicas/commerce-invoicing/internal/domain/repository"
)

// OrderUseCase operaciones de administración sobre órdenes y consultas de tarjetas regalo.
type OrderUseCase struct {
	orders    repository.OrderRepository
	giftCards repository.GiftCardRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orders repository.OrderRepository, giftCards repository.GiftCardRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders, giftCards: giftCards}
}

// Transfer asigna la orden a otro cliente.
//
// Retorna domain.ErrInvalidInput si falta customer_id y domain.ErrNotFound si la orden no existe.
func (uc *OrderUseCase) Transfer(ctx context.Context, orderID string, in dto.TransferOrderRequest) (*dto.OrderResponse, error) {
	if in.CustomerID == "" {
		return nil, fmt.Errorf("%w: customer_id es obligatorio", domain.ErrInvalidInput)
	}
	existing, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order: obtener: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, orderID)
	}
	updated, err := uc.orders.UpdateCustomer(ctx, orderID, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("order: transferir: %w", err)
	}
	return &dto.OrderResponse{
		ID:           updated.ID,
		DisplayID:    updated.DisplayID,
		Email:        updated.Email,
		CustomerID:   updated.CustomerID,
		CurrencyCode: updated.CurrencyCode,
		Total:        updated.Total.StringFixed(2),
		CreatedAt:    updated.CreatedAt,
	}, nil
}

// GiftCardByOrder devuelve la primera tarjeta regalo emitida por la orden.
func (uc *OrderUseCase) GiftCardByOrder(ctx context.Context, orderID string) (*dto.GiftCardResponse, error) {
	cards, err := uc.giftCards.ListByReferenceID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("gift-card: listar por orden: %w", err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: sin tarjeta regalo para la orden %s", domain.ErrNotFound, orderID)
	}
	return toGiftCardResponse(cards[0]), nil
}

// GiftCardByLineItem devuelve la primera tarjeta regalo emitida por el ítem.
func (uc *OrderUseCase) GiftCardByLineItem(ctx context.Context, lineItemID string) (*dto.GiftCardResponse, error) {
	cards, err := uc.giftCards.ListByLineItemID(ctx, lineItemID)
	if err != nil {
		return nil, fmt.Errorf("gift-card: listar por ítem: %w", err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: sin tarjeta regalo para el ítem %s", domain.ErrNotFound, lineItemID)
	}
	return toGiftCardResponse(cards[0]), nil
}

func toGiftCardResponse(gc entity.GiftCard) *dto.GiftCardResponse {
	return &dto.GiftCardResponse{
		ID:           gc.ID,
		Code:         gc.Code,
		Status:       gc.Status,
		Value:        gc.Value.StringFixed(2),
		CurrencyCode: gc.CurrencyCode,
		ExpiresAt:    gc.ExpiresAt,
		ReferenceID:  gc.ReferenceID,
		LineItemID:   gc.LineItemID,
		Note:         gc.Note,
		CreatedAt:    gc.CreatedAt,
	}
}
