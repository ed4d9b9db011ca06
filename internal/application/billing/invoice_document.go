package billing

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/commerce-invoicing/internal/domain/document"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
)

// Logo imagen del logo ya descargada y normalizada.
type Logo struct {
	Data   []byte
	Format string // png, jpg
}

// DocumentInput todo lo que necesita la construcción del documento. La configuración
// de la empresa llega como instantánea para que la construcción sea una función pura.
type DocumentInput struct {
	Order   *entity.Order
	Items   []entity.LineItem
	Invoice *entity.Invoice
	Config  entity.InvoiceConfig
	Logo    *Logo // nil = sin logo
}

// DocumentBuilder arma la descripción del documento de una factura.
type DocumentBuilder struct {
	fmt *Formatter
}

// NewDocumentBuilder construye el builder con el formateador de importes y fechas.
func NewDocumentBuilder(f *Formatter) *DocumentBuilder {
	return &DocumentBuilder{fmt: f}
}

// Nombres de estilo usados por la factura.
const (
	styleCompanyName    = "companyName"
	styleCompanyAddress = "companyAddress"
	styleCompanyContact = "companyContact"
	styleInvoiceTitle   = "invoiceTitle"
	styleLabel          = "label"
	styleValue          = "value"
	styleSectionHeader  = "sectionHeader"
	styleAddressText    = "addressText"
	styleTableHeader    = "tableHeader"
	styleTableRow       = "tableRow"
	styleTotalLabelLine = "totalLabelLine"
	styleTotalLabel     = "totalLabel"
	styleTotalValue     = "totalValue"
	styleNotesText      = "notesText"
	styleThankYouText   = "thankYouText"
)

const (
	colorText   = "#2B2E43"
	colorMuted  = "#B9BACE"
	colorShaded = "#E5E7EB"
)

var invoiceStyles = map[string]document.Style{
	styleCompanyName:    {FontSize: 11, Bold: true, Italics: true, Color: colorText, LineHeight: 1.3},
	styleCompanyAddress: {FontSize: 11, Color: colorText, LineHeight: 1.3},
	styleCompanyContact: {FontSize: 11, Bold: true, Color: colorText, LineHeight: 1.3},
	styleInvoiceTitle:   {FontSize: 24, Bold: true, Color: colorText},
	styleLabel:          {FontSize: 10, Color: colorMuted},
	styleValue:          {FontSize: 10, Bold: true, Color: colorText},
	styleSectionHeader:  {FontSize: 12, Bold: true, Color: colorText, Background: colorShaded},
	styleAddressText:    {FontSize: 10, Color: colorText, LineHeight: 1.3},
	styleTableHeader:    {FontSize: 10, Bold: true, Color: colorText, Background: colorShaded},
	styleTableRow:       {FontSize: 9, Color: colorText},
	styleTotalLabelLine: {FontSize: 10, Color: colorText},
	styleTotalLabel:     {FontSize: 10, Bold: true, Color: colorText},
	styleTotalValue:     {FontSize: 10, Bold: true, Color: colorText},
	styleNotesText:      {FontSize: 10, Color: colorText, LineHeight: 1.2},
	styleThankYouText:   {FontSize: 12, Italics: true, Color: colorText},
}

// Build construye la descripción completa de la factura.
func (b *DocumentBuilder) Build(in DocumentInput) (*document.Document, error) {
	if in.Order == nil || in.Invoice == nil {
		return nil, fmt.Errorf("billing: orden y factura son obligatorias")
	}
	order := in.Order
	invoiceNumber := "#" + strconv.FormatInt(order.DisplayID, 10)

	content := []document.Block{
		b.companyAndMetadata(in.Config, invoiceNumber, in.Invoice.CreatedAt, order.CreatedAt),
		document.Spacer(4),
		addressColumns(order.BillingAddress, order.ShippingAddress),
		document.Spacer(8),
		b.itemsTable(in.Items, order.CurrencyCode),
		document.Spacer(4),
	}

	if giftCardTable := b.giftCardTable(in.Items, order); giftCardTable != nil {
		content = append(content, *giftCardTable, document.Spacer(4))
	}

	content = append(content, b.totalsTable(order), document.Spacer(4))

	if block := b.paymentBlock(order); block != nil {
		content = append(content, *block)
	}
	if block := giftCardPaymentBlock(order.GiftCards); block != nil {
		content = append(content, *block)
	}
	if in.Config.Notes != "" {
		content = append(content,
			document.Text("Notes", styleSectionHeader).WithMargin(0, 7, 0, 3),
			document.Text(in.Config.Notes, styleNotesText).WithMargin(0, 0, 0, 7),
		)
	}
	content = append(content,
		document.Text("Thank you for your purchases!", styleThankYouText).
			WithAlign(document.AlignCenter).WithMargin(0, 10, 0, 0),
		document.Text("For questions about this invoice, please contact us!", styleNotesText).
			WithAlign(document.AlignCenter).WithMargin(0, 3, 0, 0),
	)

	doc := &document.Document{
		PageSize: "A4",
		Margins:  []float64{7, 21, 7, 21},
		// La fecha de creación del PDF es la de la factura, no la de la generación.
		CreatedAt:   in.Invoice.CreatedAt.UTC().Truncate(time.Second),
		Title:       "Invoice " + invoiceNumber,
		Author:      in.Config.CompanyName,
		DefaultFont: document.Font{Family: "helvetica", Size: 10},
		Styles:      copyStyles(invoiceStyles),
		Header:      []document.Block{headerColumns(in.Logo, invoiceNumber)},
		Content:     content,
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerColumns: logo (izq) y número de factura (der).
func headerColumns(logo *Logo, invoiceNumber string) document.Block {
	var left []document.Block
	if logo != nil && len(logo.Data) > 0 {
		left = append(left, document.Block{Kind: document.KindImage, Image: &document.Image{
			Data:   base64.StdEncoding.EncodeToString(logo.Data),
			Format: logo.Format,
			Width:  28,
			Height: 14,
		}})
	}
	return document.Block{Kind: document.KindColumns, Columns: []document.Column{
		{Span: 8, Stack: left},
		{Span: 4, Stack: []document.Block{
			document.Text(invoiceNumber, styleInvoiceTitle).WithAlign(document.AlignRight),
		}},
	}}
}

// companyAndMetadata: datos de la empresa (izq) y tabla Order ID / fechas (der).
func (b *DocumentBuilder) companyAndMetadata(cfg entity.InvoiceConfig, invoiceNumber string, invoiceDate, orderDate time.Time) document.Block {
	var company []document.Block
	addLine := func(text, style string) {
		if text != "" {
			company = append(company, document.Text(text, style).WithMargin(0, 0, 0, 1.5))
		}
	}
	addLine(cfg.CompanyName, styleCompanyName)
	addLine(cfg.CompanyAddress, styleCompanyAddress)
	addLine(cfg.CompanyPhone, styleCompanyContact)
	addLine(cfg.CompanyEmail, styleCompanyContact)
	if cfg.CompanyKVK != "" {
		addLine("KvK: "+cfg.CompanyKVK, styleCompanyContact)
	}
	if cfg.CompanyVAT != "" {
		addLine("VAT: "+cfg.CompanyVAT, styleCompanyContact)
	}

	return document.Block{Kind: document.KindColumns, Margin: []float64{0, 7, 0, 0}, Columns: []document.Column{
		{Span: 6, Stack: company},
		{Span: 2, Stack: []document.Block{
			document.Text("Order ID:", styleLabel),
			document.Text("Invoice Date:", styleLabel),
			document.Text("Order Date:", styleLabel),
		}},
		{Span: 4, Stack: []document.Block{
			document.Text(invoiceNumber, styleValue),
			document.Text(b.fmt.Date(invoiceDate), styleValue),
			document.Text(b.fmt.Date(orderDate), styleValue),
		}},
	}}
}

func addressColumns(billing, shipping *entity.Address) document.Block {
	return document.Block{Kind: document.KindColumns, Columns: []document.Column{
		{Span: 6, Stack: []document.Block{
			document.Text("Billing address", styleSectionHeader).WithMargin(0, 7, 0, 3),
			document.Text(addressText(billing, "No billing address provided"), styleAddressText),
		}},
		{Span: 6, Stack: []document.Block{
			document.Text("Shipping address", styleSectionHeader).WithMargin(0, 7, 0, 3),
			document.Text(addressText(shipping, "No shipping address provided"), styleAddressText),
		}},
	}}
}

// addressText arma la dirección en líneas; address_2 y teléfono sólo si existen.
func addressText(a *entity.Address, fallback string) string {
	if a == nil {
		return fallback
	}
	lines := []string{
		strings.TrimSpace(a.FirstName + " " + a.LastName),
		a.Address1,
	}
	if a.Address2 != "" {
		lines = append(lines, a.Address2)
	}
	lines = append(lines,
		strings.TrimSpace(a.City+", "+a.Province+" "+a.PostalCode),
		a.CountryCode,
	)
	if a.Phone != "" {
		lines = append(lines, a.Phone)
	}
	return strings.Join(lines, "\n")
}

func (b *DocumentBuilder) itemsTable(items []entity.LineItem, currencyCode string) document.Block {
	body := [][]document.Cell{headerCells("Variant Name", "SKU", "Quantity", "Unit Price", "Total")}
	for _, it := range items {
		if it.IsGiftCard {
			continue
		}
		body = append(body, rowCells(
			nonEmpty(it.VariantTitle, "Unknown name"),
			nonEmpty(it.VariantSKU, "Unknown SKU"),
			strconv.FormatInt(it.Quantity, 10),
			b.fmt.Money(it.UnitPrice, currencyCode),
			b.fmt.Money(it.OriginalTotal, currencyCode),
		))
	}
	return tableBlock([]int{4, 2, 2, 2, 2}, body, document.LayoutLined, 0)
}

// giftCardTable devuelve nil si ningún ítem es tarjeta regalo.
func (b *DocumentBuilder) giftCardTable(items []entity.LineItem, order *entity.Order) *document.Block {
	body := [][]document.Cell{headerCells("Gift Card Name", "Code", "Expired", "Denomination", "Quantity", "Unit Price", "Total")}
	for _, it := range items {
		if !it.IsGiftCard {
			continue
		}
		code, expires := "-", "-"
		if gc := firstGiftCardForItem(order.GiftCards, it.ID); gc != nil {
			code = nonEmpty(gc.Code, "-")
			if gc.ExpiresAt != nil {
				expires = b.fmt.Date(*gc.ExpiresAt)
			}
		}
		body = append(body, rowCells(
			nonEmpty(it.ProductTitle, "Unknown name"),
			code,
			expires,
			nonEmpty(it.VariantTitle, "-"),
			strconv.FormatInt(it.Quantity, 10),
			b.fmt.Money(it.UnitPrice, order.CurrencyCode),
			b.fmt.Money(it.OriginalTotal, order.CurrencyCode),
		))
	}
	if len(body) == 1 {
		return nil
	}
	block := tableBlock([]int{3, 2, 2, 2, 1, 1, 1}, body, document.LayoutLined, 0)
	return &block
}

func firstGiftCardForItem(cards []entity.GiftCard, lineItemID string) *entity.GiftCard {
	for i := range cards {
		if cards[i].LineItemID == lineItemID {
			return &cards[i]
		}
	}
	return nil
}

// totalsTable: siempre las cinco líneas, aunque el importe sea cero.
func (b *DocumentBuilder) totalsTable(order *entity.Order) document.Block {
	cur := order.CurrencyCode
	line := func(label string, amount decimal.Decimal) []document.Cell {
		return []document.Cell{
			{Text: label, Style: styleTotalLabel},
			{Text: b.fmt.Money(amount, cur), Style: styleTotalValue, Align: document.AlignRight},
		}
	}
	body := [][]document.Cell{
		line("Subtotal (excl. shipping):", order.OriginalItemTotal),
		line("Discount:", order.DiscountTotal),
		line("Shipping Costs:", order.ShippingTotal),
		line("Taxes included in price:", order.TaxTotal),
		line("Total:", order.Total),
	}
	return tableBlock([]int{3, 3}, body, document.LayoutPlain, 6)
}

// paymentBlock sólo si la primera colección de pagos tiene al menos un pago.
func (b *DocumentBuilder) paymentBlock(order *entity.Order) *document.Block {
	if len(order.PaymentCollections) == 0 || len(order.PaymentCollections[0].Payments) == 0 {
		return nil
	}
	collection := order.PaymentCollections[0]
	payment := collection.Payments[0]

	txDate := "no transaction date"
	if payment.CreatedAt != nil {
		txDate = b.fmt.Date(*payment.CreatedAt)
	}
	cur := nonEmpty(payment.CurrencyCode, order.CurrencyCode)

	block := labelValueColumns(
		[]string{"Payment status", "Payment method", "Transaction date", "Total Paid:"},
		[]string{
			nonEmpty(collection.Status, "no status"),
			PaymentProviderLabel(payment.ProviderID),
			txDate,
			b.fmt.Money(payment.Amount, cur),
		},
	)
	return &block
}

// giftCardPaymentBlock sólo si la orden tiene tarjetas regalo asociadas.
func giftCardPaymentBlock(cards []entity.GiftCard) *document.Block {
	if len(cards) == 0 {
		return nil
	}
	codes := make([]string, 0, len(cards))
	for _, gc := range cards {
		codes = append(codes, gc.Code)
	}
	block := labelValueColumns(
		[]string{"Payment method", "Code's"},
		[]string{"Gift Card's", strings.Join(codes, ",")},
	)
	return &block
}

// ── helpers ───────────────────────────────────────────────────────────────────

func labelValueColumns(labels, values []string) document.Block {
	left := make([]document.Block, 0, len(labels))
	for _, l := range labels {
		left = append(left, document.Text(l, styleTotalLabelLine).WithMargin(0, 0, 3, 1.5))
	}
	right := make([]document.Block, 0, len(values))
	for _, v := range values {
		right = append(right, document.Text(v, styleTotalValue).WithMargin(0, 0, 0, 1.5))
	}
	return document.Block{Kind: document.KindColumns, Margin: []float64{0, 7, 0, 0}, Columns: []document.Column{
		{Span: 3, Stack: left},
		{Span: 4, Stack: right},
	}}
}

func tableBlock(widths []int, body [][]document.Cell, layout string, offset int) document.Block {
	headerRows := 0
	if layout == document.LayoutLined {
		headerRows = 1
	}
	return document.Block{Kind: document.KindTable, Table: &document.Table{
		HeaderRows: headerRows,
		Offset:     offset,
		Widths:     widths,
		Body:       body,
		Layout:     layout,
	}}
}

func headerCells(labels ...string) []document.Cell {
	cells := make([]document.Cell, 0, len(labels))
	for _, l := range labels {
		cells = append(cells, document.Cell{Text: l, Style: styleTableHeader})
	}
	return cells
}

func rowCells(values ...string) []document.Cell {
	cells := make([]document.Cell, 0, len(values))
	for _, v := range values {
		cells = append(cells, document.Cell{Text: v, Style: styleTableRow})
	}
	return cells
}

func copyStyles(in map[string]document.Style) map[string]document.Style {
	out := make(map[string]document.Style, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
