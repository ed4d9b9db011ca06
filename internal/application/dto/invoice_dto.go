package dto

import "time"

// UpdateInvoiceConfigRequest entrada para actualizar la configuración de facturas.
// Todos los campos son opcionales: sólo se modifican los presentes.
type UpdateInvoiceConfigRequest struct {
	CompanyName    *string `json:"company_name" validate:"omitempty,max=200"`
	CompanyAddress *string `json:"company_address" validate:"omitempty,max=500"`
	CompanyPhone   *string `json:"company_phone" validate:"omitempty,max=50"`
	CompanyEmail   *string `json:"company_email" validate:"omitempty,email"`
	CompanyLogo    *string `json:"company_logo" validate:"omitempty,url"`
	CompanyKVK     *string `json:"company_kvk" validate:"omitempty,max=50"`
	CompanyVAT     *string `json:"company_vat" validate:"omitempty,max=50"`
	Notes          *string `json:"notes" validate:"omitempty,max=2000"`
}

// InvoiceConfigResponse salida de la configuración de facturas.
type InvoiceConfigResponse struct {
	ID             string    `json:"id"`
	CompanyName    string    `json:"company_name"`
	CompanyAddress string    `json:"company_address"`
	CompanyPhone   string    `json:"company_phone"`
	CompanyEmail   string    `json:"company_email"`
	CompanyLogo    string    `json:"company_logo,omitempty"`
	CompanyKVK     string    `json:"company_kvk,omitempty"`
	CompanyVAT     string    `json:"company_vat,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// InvoiceConfigEnvelope cuerpo de GET/POST /admin/invoice-config.
type InvoiceConfigEnvelope struct {
	InvoiceConfig InvoiceConfigResponse `json:"invoice_config"`
}

// InvoiceResponse salida resumida de una factura.
type InvoiceResponse struct {
	ID        string    `json:"id"`
	DisplayID int64     `json:"display_id"`
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// StaleInvoicesResponse salida de POST /admin/orders/:id/invoices/stale.
type StaleInvoicesResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
}

// ResendConfirmationResponse salida del reenvío de la confirmación.
type ResendConfirmationResponse struct {
	OrderID string `json:"order_id"`
	Success bool   `json:"success"`
}

// TransferOrderRequest entrada de POST /admin/orders/:id/transfer.
type TransferOrderRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
}

// OrderResponse salida resumida de una orden.
type OrderResponse struct {
	ID           string    `json:"id"`
	DisplayID    int64     `json:"display_id"`
	Email        string    `json:"email"`
	CustomerID   string    `json:"customer_id"`
	CurrencyCode string    `json:"currency_code"`
	Total        string    `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
}

// OrderEnvelope cuerpo con una orden.
type OrderEnvelope struct {
	Order OrderResponse `json:"order"`
}

// GiftCardResponse salida de una tarjeta regalo para la tienda.
type GiftCardResponse struct {
	ID           string     `json:"id"`
	Code         string     `json:"code"`
	Status       string     `json:"status"`
	Value        string     `json:"value"`
	CurrencyCode string     `json:"currency_code"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	ReferenceID  string     `json:"reference_id"`
	LineItemID   string     `json:"line_item_id,omitempty"`
	Note         string     `json:"note,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// GiftCardEnvelope cuerpo con una tarjeta regalo.
type GiftCardEnvelope struct {
	GiftCard GiftCardResponse `json:"gift_card"`
}
