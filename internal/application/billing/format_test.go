package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/commerce-invoicing/internal/application/billing"
)

func TestMoney(t *testing.T) {
	f := billing.NewFormatter(time.UTC)

	cases := []struct {
		name   string
		amount decimal.Decimal
		code   string
		want   string
	}{
		{"euro minúscula", decimal.NewFromInt(20), "eur", "€20.00"},
		{"cero", decimal.Zero, "eur", "€0.00"},
		{"miles", decimal.RequireFromString("1234.5"), "EUR", "€1,234.50"},
		{"redondeo", decimal.RequireFromString("9.999"), "eur", "€10.00"},
		{"negativo", decimal.NewFromInt(-5), "eur", "-€5.00"},
		{"dólar", decimal.NewFromInt(3), "usd", "$3.00"},
		{"código desconocido", decimal.NewFromInt(7), "zzz", "7.00 ZZZ"},
		{"sin código", decimal.NewFromInt(20), "", "20.00"},
		{"código en blanco", decimal.NewFromInt(20), "  ", "20.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.Money(tc.amount, tc.code))
		})
	}
}

func TestDate_UsaZonaHoraria(t *testing.T) {
	ams, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Skip("tzdata no disponible")
	}
	ts := time.Date(2025, 3, 4, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "4 March 2025", billing.NewFormatter(time.UTC).Date(ts))
	assert.Equal(t, "5 March 2025", billing.NewFormatter(ams).Date(ts))
}

func TestPaymentProviderLabel(t *testing.T) {
	assert.Equal(t, "Credit card", billing.PaymentProviderLabel("pp_stripe_stripe"))
	assert.Equal(t, "Klarna", billing.PaymentProviderLabel("pp_stripe-klarna_stripe"))
	assert.Equal(t, "Manual Payment", billing.PaymentProviderLabel("pp_system_default"))
	assert.Equal(t, "Default", billing.PaymentProviderLabel("pp_mollie_mollie"))
	assert.Equal(t, "default payment system", billing.PaymentProviderLabel(""))
}

func TestCountryName(t *testing.T) {
	assert.Equal(t, "Netherlands", billing.CountryName("nl"))
	assert.Equal(t, "Belgium", billing.CountryName("BE"))
	assert.Equal(t, "not-a-code", billing.CountryName("not-a-code"))
}
