package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
)

// TemplateOrderPlaced plantilla de email de confirmación de pedido.
const TemplateOrderPlaced = "order-placed"

// ConfirmationUseCase envía el email de confirmación de pedido al cliente y una
// copia a la tienda.
type ConfirmationUseCase struct {
	notifier      Notifier
	fmt           *Formatter
	storeCopyTo   string
	storefrontURL string
	log           zerolog.Logger
}

// NewConfirmationUseCase construye el caso de uso. storeCopyTo vacío desactiva la copia.
func NewConfirmationUseCase(notifier Notifier, f *Formatter, storeCopyTo, storefrontURL string, log zerolog.Logger) *ConfirmationUseCase {
	return &ConfirmationUseCase{
		notifier:      notifier,
		fmt:           f,
		storeCopyTo:   storeCopyTo,
		storefrontURL: storefrontURL,
		log:           log,
	}
}

// SendOrderConfirmation envía la confirmación de la orden. attachment puede ser nil.
// Si la orden no tiene email sólo se envía la copia de la tienda.
func (uc *ConfirmationUseCase) SendOrderConfirmation(ctx context.Context, order *entity.Order, attachment *entity.Attachment) error {
	if order == nil {
		return errors.New("confirmation: orden requerida")
	}
	data := uc.OrderPlacedData(order)

	var attachments []entity.Attachment
	if attachment != nil {
		attachments = []entity.Attachment{*attachment}
	}

	var batch []entity.Notification
	if order.Email != "" {
		batch = append(batch, entity.Notification{
			To: order.Email, Channel: entity.ChannelEmail, Template: TemplateOrderPlaced,
			Data: data, Attachments: attachments,
		})
	} else {
		uc.log.Warn().Str("order_id", order.ID).Msg("confirmation: la orden no tiene email")
	}
	if uc.storeCopyTo != "" {
		batch = append(batch, entity.Notification{
			To: uc.storeCopyTo, Channel: entity.ChannelEmail, Template: TemplateOrderPlaced,
			Data: data, Attachments: attachments,
		})
	}
	if len(batch) == 0 {
		return nil
	}

	if err := uc.notifier.Send(ctx, batch); err != nil {
		return fmt.Errorf("confirmation: enviar: %w", err)
	}
	uc.log.Info().Str("order_id", order.ID).Int("recipients", len(batch)).
		Bool("with_invoice", attachment != nil).Msg("confirmation: enviada")
	return nil
}

// OrderPlacedData arma los datos de la plantilla. A diferencia del PDF, las líneas
// opcionales (descuento, envío, impuestos) se omiten cuando valen cero.
func (uc *ConfirmationUseCase) OrderPlacedData(order *entity.Order) map[string]any {
	cur := order.CurrencyCode
	items := make([]map[string]any, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, map[string]any{
			"title":      nonEmpty(it.ProductTitle, "Unknown name"),
			"variant":    it.VariantTitle,
			"quantity":   it.Quantity,
			"unit_price": uc.fmt.Money(it.UnitPrice, cur),
			"total":      uc.fmt.Money(it.OriginalTotal, cur),
		})
	}

	data := map[string]any{
		"order_id":       strconv.FormatInt(order.DisplayID, 10),
		"order_date":     uc.fmt.Date(order.CreatedAt),
		"email":          order.Email,
		"items":          items,
		"subtotal":       uc.fmt.Money(order.OriginalItemTotal, cur),
		"total":          uc.fmt.Money(order.Total, cur),
		"storefront_url": uc.storefrontURL,
	}
	if !order.DiscountTotal.IsZero() {
		data["discount"] = uc.fmt.Money(order.DiscountTotal, cur)
	}
	if !order.ShippingTotal.IsZero() {
		data["shipping"] = uc.fmt.Money(order.ShippingTotal, cur)
	}
	if !order.TaxTotal.IsZero() {
		data["tax"] = uc.fmt.Money(order.TaxTotal, cur)
	}
	if a := order.ShippingAddress; a != nil {
		data["customer_name"] = strings.TrimSpace(a.FirstName + " " + a.LastName)
		data["shipping_address"] = addressText(withCountryName(a), "")
	} else if a := order.BillingAddress; a != nil {
		data["customer_name"] = strings.TrimSpace(a.FirstName + " " + a.LastName)
	}
	if len(order.ShippingMethods) > 0 {
		data["shipping_method"] = order.ShippingMethods[0].Name
	}
	return data
}
