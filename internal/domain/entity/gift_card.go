package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// GiftCard tarjeta regalo emitida por una orden (reference_id) y, opcionalmente, por un ítem.
type GiftCard struct {
	ID           string
	Status       string // pending, redeemed
	Code         string
	CurrencyCode string
	ExpiresAt    *time.Time
	ReferenceID  string // ID de la orden
	Reference    string
	LineItemID   string
	Note         string
	Value        decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
