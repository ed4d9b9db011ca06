package pdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/commerce-invoicing/internal/domain/document"
)

// 1x1 PNG transparente.
const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func sampleDoc() *document.Document {
	return &document.Document{
		PageSize:    "A4",
		Margins:     []float64{7, 21, 7, 21},
		CreatedAt:   time.Date(2025, 3, 5, 10, 30, 15, 0, time.UTC),
		Title:       "Invoice #1",
		Author:      "Acme BV",
		DefaultFont: document.Font{Family: "helvetica", Size: 10},
		Styles: map[string]document.Style{
			"title":  {FontSize: 24, Bold: true, Color: "#2B2E43"},
			"header": {FontSize: 10, Bold: true, Background: "#E5E7EB"},
			"row":    {FontSize: 9},
		},
		Header: []document.Block{{Kind: document.KindColumns, Columns: []document.Column{
			{Span: 8, Stack: []document.Block{{Kind: document.KindImage, Image: &document.Image{Data: pixelPNG, Format: "png", Width: 28, Height: 14}}}},
			{Span: 4, Stack: []document.Block{document.Text("#1", "title").WithAlign(document.AlignRight)}},
		}}},
		Content: []document.Block{
			{Kind: document.KindColumns, Columns: []document.Column{
				{Span: 6, Stack: []document.Block{document.Text("Acme BV\nKerkstraat 1", "row")}},
				{Stack: []document.Block{document.Text("Order ID:", "row")}},
			}},
			document.Spacer(4),
			{Kind: document.KindTable, Table: &document.Table{
				HeaderRows: 1,
				Widths:     []int{4, 2, 2, 2, 2},
				Layout:     document.LayoutLined,
				Body: [][]document.Cell{
					{{Text: "Variant Name", Style: "header"}, {Text: "SKU", Style: "header"}, {Text: "Quantity", Style: "header"}, {Text: "Unit Price", Style: "header"}, {Text: "Total", Style: "header"}},
					{{Text: "Blue vase"}, {Text: "VASE-BLUE"}, {Text: "1"}, {Text: "€10.00"}, {Text: "€10.00"}},
				},
			}},
			{Kind: document.KindTable, Table: &document.Table{
				Offset: 6, Widths: []int{3, 3}, Layout: document.LayoutPlain,
				Body: [][]document.Cell{{{Text: "Total:"}, {Text: "€20.00", Align: document.AlignRight}}},
			}},
			document.Text("Thank you for your purchases!", "row").WithAlign(document.AlignCenter).WithMargin(0, 10, 0, 0),
		},
	}
}

func TestRender_Determinista(t *testing.T) {
	r := NewMarotoRenderer()
	ctx := context.Background()

	first, err := r.Render(ctx, sampleDoc())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(first, []byte("%PDF")))

	time.Sleep(1100 * time.Millisecond)

	second, err := r.Render(ctx, sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, string(first), "D:20250305103015")
}

func TestRender_ImagenInvalida(t *testing.T) {
	doc := sampleDoc()
	doc.Header[0].Columns[0].Stack[0].Image.Data = "%%%"
	_, err := NewMarotoRenderer().Render(context.Background(), doc)
	assert.Error(t, err)
}

func TestRender_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMarotoRenderer().Render(ctx, sampleDoc())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStampDates_ConservaLongitud(t *testing.T) {
	in := []byte("<< /Producer (x) /CreationDate (D:20991231235959) /ModDate (D:20991231235959Z) >>")
	out := stampDates(in, "20250305103015")
	assert.Len(t, out, len(in))
	assert.Equal(t, "<< /Producer (x) /CreationDate (D:20250305103015) /ModDate (D:20250305103015Z) >>", string(out))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b c"}, wrap("a\n\nb c", 100, 10))
	lines := wrap("one two three four five six", 10, 10)
	assert.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.NotEmpty(t, l)
	}
}

func TestWrap_PalabraMasLargaQueElRenglon(t *testing.T) {
	word := strings.Repeat("x", 40) + "é"
	lines := wrap("ref "+word, 10, 10)
	widthMM, size := 10.0, 10.0
	maxChars := int(widthMM / (size * ptToMM * avgCharWidth))
	require.Greater(t, len(lines), 2)
	for _, l := range lines {
		assert.LessOrEqual(t, utf8.RuneCountInString(l), maxChars)
	}
	assert.Equal(t, "ref"+word, strings.ReplaceAll(strings.Join(lines, ""), " ", ""))
}

func TestParseColor(t *testing.T) {
	c := parseColor("#2B2E43")
	require.NotNil(t, c)
	assert.Equal(t, 0x2B, c.Red)
	assert.Equal(t, 0x2E, c.Green)
	assert.Equal(t, 0x43, c.Blue)
	assert.Nil(t, parseColor("red"))
	assert.Nil(t, parseColor(""))
}

func TestResolveSpans(t *testing.T) {
	assert.Equal(t, []int{6, 6}, resolveSpans([]document.Column{{Span: 6}, {}}))
	assert.Equal(t, []int{4, 4, 4}, resolveSpans([]document.Column{{}, {}, {}}))
}

func TestImageComponent_Base64(t *testing.T) {
	_, h, err := imageComponent(&document.Image{Data: base64.StdEncoding.EncodeToString([]byte{1}), Height: 14}, 2)
	require.NoError(t, err)
	assert.Equal(t, 16.0, h)
}
