package billing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// dateLayout día, mes largo y año con cuatro dígitos ("5 March 2025").
const dateLayout = "2 January 2006"

// Formatter formatea importes y fechas para los documentos con una configuración regional fija.
// Los importes siguen el formato en-US; las fechas, el formato en-GB.
type Formatter struct {
	loc     *time.Location
	printer *message.Printer
}

// NewFormatter construye el formateador. loc es la zona horaria de las fechas impresas.
func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{
		loc:     loc,
		printer: message.NewPrinter(language.AmericanEnglish),
	}
}

// Money formatea amount en la moneda indicada por su código ISO ("eur" → "€20.00").
// Con un código desconocido se imprime el número seguido del código en mayúsculas;
// sin código, solo el número.
func (f *Formatter) Money(amount decimal.Decimal, currencyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if code == "" {
		return f.number(amount, 2)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return f.number(amount, 2) + " " + code
	}
	scale, _ := currency.Standard.Rounding(unit)
	sign := ""
	if amount.Round(int32(scale)).IsNegative() {
		sign = "-"
	}
	return sign + f.printer.Sprint(currency.Symbol(unit)) + f.number(amount.Abs(), scale)
}

func (f *Formatter) number(amount decimal.Decimal, scale int) string {
	v := amount.Round(int32(scale)).InexactFloat64()
	return f.printer.Sprint(number.Decimal(v, number.Scale(scale)))
}

// Date formatea t como "D Month YYYY" en la zona horaria del formateador.
func (f *Formatter) Date(t time.Time) string {
	return t.In(f.loc).Format(dateLayout)
}

// CountryName devuelve el nombre en inglés de un código ISO-2 ("nl" → "Netherlands").
// Si el código no se reconoce se devuelve tal cual.
func CountryName(code string) string {
	region, err := language.ParseRegion(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return code
	}
	if name := display.English.Regions().Name(region); name != "" {
		return name
	}
	return code
}

// ── Proveedores de pago ───────────────────────────────────────────────────────

// Etiquetas de proveedor cuando el pago no indica proveedor o éste no es conocido.
const (
	providerLabelDefault = "Default"
	providerLabelMissing = "default payment system"
)

var paymentProviderLabels = map[string]string{
	"pp_stripe_stripe":            "Credit card",
	"pp_stripe-klarna_stripe":     "Klarna",
	"pp_stripe-paypal_stripe":     "PayPal",
	"pp_stripe-ideal_stripe":      "iDeal",
	"pp_stripe-bancontact_stripe": "Bancontact",
	"pp_system_default":           "Manual Payment",
}

// PaymentProviderLabel traduce un provider_id a la etiqueta legible.
func PaymentProviderLabel(providerID string) string {
	if providerID == "" {
		return providerLabelMissing
	}
	if label, ok := paymentProviderLabels[providerID]; ok {
		return label
	}
	return providerLabelDefault
}
