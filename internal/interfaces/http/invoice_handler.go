package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/commerce-invoicing/internal/application/billing"
	"github.com/jhoicas/commerce-invoicing/internal/application/dto"
	"github.com/jhoicas/commerce-invoicing/internal/domain"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
)

// invoiceService contrato que necesita el handler; lo implementa *billing.InvoiceWorkflow.
type invoiceService interface {
	GenerateForOrder(ctx context.Context, orderID string) (*billing.GeneratedInvoice, error)
	MarkInvoicesStale(ctx context.Context, orderID string) ([]*entity.Invoice, error)
}

// InvoiceHandler maneja la descarga e invalidación de facturas (admin).
type InvoiceHandler struct {
	svc invoiceService
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(svc invoiceService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

// Download godoc
// @Summary      Descargar la factura PDF de una orden
// @Description  Genera (o regenera desde la descripción guardada) el PDF de la factura activa.
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /admin/orders/{id}/invoice [get]
func (h *InvoiceHandler) Download(c *fiber.Ctx) error {
	orderID := c.Params("id")
	generated, err := h.svc.GenerateForOrder(c.UserContext(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATA", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+generated.Filename+`"`)
	return c.Status(fiber.StatusOK).Send(generated.Content)
}

// MarkStale godoc
// @Summary      Invalidar las facturas de una orden
// @Description  La próxima descarga crea una nueva factura ACTIVE.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.StaleInvoicesResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /admin/orders/{id}/invoices/stale [post]
func (h *InvoiceHandler) MarkStale(c *fiber.Ctx) error {
	invoices, err := h.svc.MarkInvoicesStale(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.StaleInvoicesResponse{Invoices: make([]dto.InvoiceResponse, 0, len(invoices))}
	for _, inv := range invoices {
		out.Invoices = append(out.Invoices, dto.InvoiceResponse{
			ID:        inv.ID,
			DisplayID: inv.DisplayID,
			OrderID:   inv.OrderID,
			Status:    inv.Status,
			CreatedAt: inv.CreatedAt,
		})
	}
	return c.JSON(out)
}
