package entity

import "time"

// InvoiceConfig datos de la empresa que aparecen en las facturas (una sola fila por tienda).
type InvoiceConfig struct {
	ID             string
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string
	CompanyLogo    string // URL
	CompanyKVK     string // Registro mercantil (opcional)
	CompanyVAT     string // NIF/VAT (opcional)
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
