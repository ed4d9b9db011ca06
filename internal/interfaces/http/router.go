package http

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/commerce-invoicing/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Invoices      invoiceService
	InvoiceConfig invoiceConfigService
	Orders        orderService
	Resender      confirmationResender
	Publisher     orderPlacedPublisher
	GiftCards     giftCardService
	JWTSecret     string
	Logger        zerolog.Logger
}

// NewValidator devuelve un validador que reporta los campos por su nombre JSON.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	validate := NewValidator()

	// Store (público)
	store := app.Group("/store")
	giftCardHandler := NewGiftCardHandler(deps.GiftCards)
	store.Get("/gift-cards/order/items/item/:id", giftCardHandler.ByLineItem)
	store.Get("/gift-cards/order/:id", giftCardHandler.ByOrder)

	// Admin (requiere Bearer Token de usuario)
	admin := app.Group("/admin", AuthMiddleware(deps.JWTSecret), RequireActor(jwt.ActorAdmin))

	configHandler := NewInvoiceConfigHandler(deps.InvoiceConfig, validate)
	admin.Get("/invoice-config", configHandler.Get)
	admin.Post("/invoice-config", configHandler.Update)

	orders := admin.Group("/orders")
	invoiceHandler := NewInvoiceHandler(deps.Invoices)
	orders.Get("/:id/invoice", invoiceHandler.Download)
	orders.Post("/:id/invoices/stale", invoiceHandler.MarkStale)

	orderHandler := NewOrderHandler(deps.Orders, deps.Resender, deps.Publisher, validate, deps.Logger)
	orders.Post("/:id/resend-confirmation", orderHandler.ResendConfirmation)
	orders.Post("/:id/transfer", orderHandler.Transfer)
	orders.Post("/:id/events/order-placed", orderHandler.EmitOrderPlaced)
}
