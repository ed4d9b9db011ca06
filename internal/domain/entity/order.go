package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order proyección de solo lectura de una orden y sus relaciones, usada para construir la factura.
type Order struct {
	ID                 string
	DisplayID          int64
	Email              string
	CurrencyCode       string
	CustomerID         string
	Subtotal           decimal.Decimal
	DiscountTotal      decimal.Decimal
	ShippingTotal      decimal.Decimal
	TaxTotal           decimal.Decimal
	Total              decimal.Decimal
	OriginalItemTotal  decimal.Decimal
	Items              []LineItem
	BillingAddress     *Address
	ShippingAddress    *Address
	ShippingMethods    []ShippingMethod
	PaymentCollections []PaymentCollection
	// GiftCards se completa sólo cuando la orden contiene ítems de tarjeta regalo.
	GiftCards []GiftCard
	CreatedAt time.Time
}

// HasGiftCardItems informa si algún ítem de la orden es una tarjeta regalo.
func (o *Order) HasGiftCardItems() bool {
	for _, it := range o.Items {
		if it.IsGiftCard {
			return true
		}
	}
	return false
}

// LineItem línea de la orden.
type LineItem struct {
	ID            string
	OrderID       string
	ProductTitle  string
	VariantTitle  string
	VariantSKU    string
	Quantity      int64
	UnitPrice     decimal.Decimal
	OriginalTotal decimal.Decimal
	IsGiftCard    bool
}

// Address dirección de facturación o envío.
type Address struct {
	FirstName   string
	LastName    string
	Address1    string
	Address2    string
	City        string
	Province    string
	PostalCode  string
	CountryCode string // ISO-2 o, tras el enriquecimiento, el nombre del país
	Phone       string
}

// ShippingMethod método de envío elegido.
type ShippingMethod struct {
	ID     string
	Name   string
	Amount decimal.Decimal
}

// PaymentCollection agrupa los pagos de una orden.
type PaymentCollection struct {
	ID       string
	Status   string
	Payments []Payment
}

// Payment pago individual dentro de una colección.
type Payment struct {
	ID           string
	ProviderID   string
	Amount       decimal.Decimal
	CurrencyCode string
	CreatedAt    *time.Time
}
