package http

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jhoicas/commerce-invoicing/internal/application/dto"
)

type orderService interface {
	Transfer(ctx context.Context, orderID string, in dto.TransferOrderRequest) (*dto.OrderResponse, error)
}

type confirmationResender interface {
	ResendConfirmation(ctx context.Context, orderID string) error
}

// orderPlacedPublisher lo implementa *queue.Client.
type orderPlacedPublisher interface {
	EnqueueOrderPlaced(ctx context.Context, orderID string) (*asynq.TaskInfo, error)
}

// OrderHandler acciones de administración sobre órdenes.
type OrderHandler struct {
	orders    orderService
	resender  confirmationResender
	publisher orderPlacedPublisher
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewOrderHandler construye el handler. publisher puede ser nil (sin cola configurada).
func NewOrderHandler(
	orders orderService,
	resender confirmationResender,
	publisher orderPlacedPublisher,
	validate *validator.Validate,
	log zerolog.Logger,
) *OrderHandler {
	return &OrderHandler{orders: orders, resender: resender, publisher: publisher, validate: validate, log: log}
}

// ResendConfirmation godoc
// @Summary      Reenviar la confirmación del pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.ResendConfirmationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /admin/orders/{id}/resend-confirmation [post]
func (h *OrderHandler) ResendConfirmation(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.resender.ResendConfirmation(c.UserContext(), orderID); err != nil {
		h.log.Error().Err(err).Str("order_id", orderID).Msg("reenvío de confirmación fallido")
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "INVALID_DATA",
			Message: "Failed to resend order id: " + orderID,
		})
	}
	return c.JSON(dto.ResendConfirmationResponse{OrderID: orderID, Success: true})
}

// Transfer godoc
// @Summary      Transferir la orden a otro cliente
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "ID de la orden"
// @Param        body  body      dto.TransferOrderRequest  true  "customer_id"
// @Success      200   {object}  dto.OrderEnvelope
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /admin/orders/{id}/transfer [post]
func (h *OrderHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	if err := h.validate.Struct(in); err != nil {
		return validationError(c, err)
	}
	order, err := h.orders.Transfer(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OrderEnvelope{Order: *order})
}

// EmitOrderPlaced publica el evento order.placed para que el worker facture y notifique.
// POST /admin/orders/:id/events/order-placed
func (h *OrderHandler) EmitOrderPlaced(c *fiber.Ctx) error {
	if h.publisher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "QUEUE_UNAVAILABLE", Message: "cola de eventos no configurada"})
	}
	info, err := h.publisher.EnqueueOrderPlaced(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"task_id": info.ID, "queue": info.Queue})
}
