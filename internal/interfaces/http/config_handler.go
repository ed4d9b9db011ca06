package http

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/commerce-invoicing/internal/application/dto"
)

type invoiceConfigService interface {
	Get(ctx context.Context) (*dto.InvoiceConfigResponse, error)
	Update(ctx context.Context, in dto.UpdateInvoiceConfigRequest) (*dto.InvoiceConfigResponse, error)
}

// InvoiceConfigHandler expone la configuración de facturas (admin).
type InvoiceConfigHandler struct {
	svc      invoiceConfigService
	validate *validator.Validate
}

// NewInvoiceConfigHandler construye el handler.
func NewInvoiceConfigHandler(svc invoiceConfigService, validate *validator.Validate) *InvoiceConfigHandler {
	return &InvoiceConfigHandler{svc: svc, validate: validate}
}

// Get GET /admin/invoice-config
func (h *InvoiceConfigHandler) Get(c *fiber.Ctx) error {
	cfg, err := h.svc.Get(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.InvoiceConfigEnvelope{InvoiceConfig: *cfg})
}

// Update actualiza sólo los campos presentes en el cuerpo.
// POST /admin/invoice-config
func (h *InvoiceConfigHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return validationError(c, err)
	}
	cfg, err := h.svc.Update(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.InvoiceConfigEnvelope{InvoiceConfig: *cfg})
}
