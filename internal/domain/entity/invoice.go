package entity

import (
	"encoding/json"
	"time"
)

// Estados de una factura. Una orden tiene a lo sumo una factura ACTIVE; las
// demás quedan STALE cuando la orden se edita.
const (
	InvoiceStatusActive = "active"
	InvoiceStatusStale  = "stale"
)

// Invoice representa la factura generada para una orden.
type Invoice struct {
	ID        string
	DisplayID int64
	OrderID   string
	Status    string
	// PDFContent guarda la descripción del documento ya calculada (JSON).
	// Una vez poblada se reutiliza tal cual en cada regeneración.
	PDFContent json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasPDFContent informa si la factura tiene una descripción cacheada con al menos una clave.
func (i *Invoice) HasPDFContent() bool {
	if i == nil || len(i.PDFContent) == 0 {
		return false
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(i.PDFContent, &keys); err != nil {
		return false
	}
	return len(keys) > 0
}

// IsStale informa si la factura fue invalidada.
func (i *Invoice) IsStale() bool {
	return i != nil && i.Status == InvoiceStatusStale
}
