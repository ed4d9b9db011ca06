package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/commerce-invoicing/internal/application/dto"
)

type giftCardService interface {
	GiftCardByOrder(ctx context.Context, orderID string) (*dto.GiftCardResponse, error)
	GiftCardByLineItem(ctx context.Context, lineItemID string) (*dto.GiftCardResponse, error)
}

// GiftCardHandler consultas públicas de tarjetas regalo (tienda).
type GiftCardHandler struct {
	svc giftCardService
}

// NewGiftCardHandler construye el handler.
func NewGiftCardHandler(svc giftCardService) *GiftCardHandler {
	return &GiftCardHandler{svc: svc}
}

// ByOrder GET /store/gift-cards/order/:id
func (h *GiftCardHandler) ByOrder(c *fiber.Ctx) error {
	gc, err := h.svc.GiftCardByOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.GiftCardEnvelope{GiftCard: *gc})
}

// ByLineItem GET /store/gift-cards/order/items/item/:id
func (h *GiftCardHandler) ByLineItem(c *fiber.Ctx) error {
	gc, err := h.svc.GiftCardByLineItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.GiftCardEnvelope{GiftCard: *gc})
}
