package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
)

// OrderEvents reacciona a los eventos de pedido: genera la factura y envía la confirmación.
type OrderEvents struct {
	workflow *InvoiceWorkflow
	confirm  *ConfirmationUseCase
	log      zerolog.Logger
}

// NewOrderEvents construye el manejador de eventos de pedido.
func NewOrderEvents(workflow *InvoiceWorkflow, confirm *ConfirmationUseCase, log zerolog.Logger) *OrderEvents {
	return &OrderEvents{workflow: workflow, confirm: confirm, log: log}
}

// HandleOrderPlaced genera el PDF y envía la confirmación. Un fallo en la generación
// no impide el email (se envía sin adjunto); ambos errores se registran por separado
// y se devuelven unidos.
func (h *OrderEvents) HandleOrderPlaced(ctx context.Context, orderID string) error {
	log := h.log.With().Str("order_id", orderID).Logger()

	var (
		order      *entity.Order
		attachment *entity.Attachment
	)
	generated, genErr := h.workflow.GenerateForOrder(ctx, orderID)
	if genErr != nil {
		log.Error().Err(genErr).Msg("order.placed: generación de factura fallida")
	} else {
		order = generated.Order
		a := generated.Attachment()
		attachment = &a
	}

	if order == nil {
		o, err := h.workflow.LoadOrder(ctx, orderID)
		if err != nil {
			log.Error().Err(err).Msg("order.placed: orden no disponible, no se envía confirmación")
			return errors.Join(genErr, err)
		}
		order = o
	}

	sendErr := h.confirm.SendOrderConfirmation(ctx, order, attachment)
	if sendErr != nil {
		log.Error().Err(sendErr).Msg("order.placed: envío de confirmación fallido")
	}
	return errors.Join(genErr, sendErr)
}

// ResendConfirmation regenera la factura (desde la descripción guardada si existe) y
// reenvía la confirmación con el PDF adjunto. Cualquier fallo aborta el reenvío.
func (h *OrderEvents) ResendConfirmation(ctx context.Context, orderID string) error {
	generated, err := h.workflow.GenerateForOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("resend: generar factura: %w", err)
	}
	a := generated.Attachment()
	if err := h.confirm.SendOrderConfirmation(ctx, generated.Order, &a); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}
