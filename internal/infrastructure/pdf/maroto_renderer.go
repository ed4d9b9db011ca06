// Package pdf dibuja con Maroto v2 la descripción de documento de una factura.
//
// Cada bloque se traduce a filas de la rejilla de 12 columnas de Maroto:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER (registrado): logo          │            #display_id │
//	│  text     → una fila, una línea de texto por renglón         │
//	│  columns  → una fila; cada columna apila sus bloques (Top)   │
//	│  table    → una fila por fila de la tabla (+ líneas)         │
//	│  image    → una fila con la imagen embebida                  │
//	│  spacer   → fila vacía                                       │
//	└─────────────────────────────────────────────────────────────┘
//
// El resultado es determinista: la fecha de creación del PDF sale de la
// descripción y los diccionarios internos se escriben ordenados.
package pdf

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/phpdave11/gofpdf"

	"github.com/jhoicas/commerce-invoicing/internal/application/billing"
	"github.com/jhoicas/commerce-invoicing/internal/domain/document"
)

func init() {
	// Recursos (fuentes, imágenes) en orden estable dentro del PDF.
	gofpdf.SetDefaultCatalogSort(true)
}

const (
	ptToMM            = 0.3528
	defaultLineHeight = 1.2
	// avgCharWidth ancho medio de un carácter en em, algo holgado para Helvetica.
	avgCharWidth = 0.55
	cellPadding  = 1.5
)

var (
	colorRule = &props.Color{Red: 229, Green: 231, Blue: 235}

	pdfDateRe = regexp.MustCompile(`/(CreationDate|ModDate) \(D:\d{14}`)
)

// MarotoRenderer implementa billing.DocumentRenderer usando Maroto v2.
type MarotoRenderer struct{}

var _ billing.DocumentRenderer = (*MarotoRenderer)(nil)

// NewMarotoRenderer construye el renderer.
func NewMarotoRenderer() *MarotoRenderer { return &MarotoRenderer{} }

// Render dibuja el documento y devuelve los bytes del PDF.
func (r *MarotoRenderer) Render(ctx context.Context, doc *document.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("pdf: documento vacío")
	}

	l := newLayout(doc)
	createdAt := doc.CreatedAt.UTC()

	cfg := config.NewBuilder().
		WithPageSize(pageSize(doc.PageSize)).
		WithLeftMargin(l.margins[0]).WithTopMargin(l.margins[1]).
		WithRightMargin(l.margins[2]).WithBottomMargin(l.margins[3]).
		WithDefaultFont(&props.Font{Family: l.family, Size: l.baseSize}).
		WithTitle(doc.Title, true).
		WithAuthor(doc.Author, true).
		WithCreationDate(createdAt).
		Build()

	m := maroto.New(cfg)

	if len(doc.Header) > 0 {
		var header []core.Row
		for _, b := range doc.Header {
			rows, err := l.blockRows(b)
			if err != nil {
				return nil, err
			}
			header = append(header, rows...)
		}
		if err := m.RegisterHeader(header...); err != nil {
			return nil, fmt.Errorf("pdf: registrar cabecera: %w", err)
		}
	}

	for _, b := range doc.Content {
		rows, err := l.blockRows(b)
		if err != nil {
			return nil, err
		}
		m.AddRows(rows...)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return stampDates(out.GetBytes(), createdAt.Format("20060102150405")), nil
}

// stampDates fija CreationDate/ModDate del diccionario Info a la fecha del
// documento. El reemplazo conserva la longitud, por lo que la tabla xref sigue
// siendo válida.
func stampDates(pdf []byte, stamp string) []byte {
	return pdfDateRe.ReplaceAllFunc(pdf, func(m []byte) []byte {
		out := append([]byte(nil), m...)
		copy(out[len(out)-14:], stamp)
		return out
	})
}

// ── Layout ────────────────────────────────────────────────────────────────────

type layout struct {
	styles    map[string]document.Style
	family    string
	baseSize  float64
	margins   [4]float64
	gridWidth float64 // ancho útil de la página en mm
}

func newLayout(doc *document.Document) *layout {
	l := &layout{
		styles:   doc.Styles,
		family:   nonEmpty(doc.DefaultFont.Family, "helvetica"),
		baseSize: doc.DefaultFont.Size,
		margins:  [4]float64{10, 10, 10, 10},
	}
	if l.baseSize <= 0 {
		l.baseSize = 10
	}
	for i := 0; i < len(doc.Margins) && i < 4; i++ {
		l.margins[i] = doc.Margins[i]
	}
	pageWidth := 210.0
	if pageSize(doc.PageSize) == pagesize.Letter {
		pageWidth = 215.9
	}
	l.gridWidth = pageWidth - l.margins[0] - l.margins[2]
	return l
}

func (l *layout) colWidth(span int) float64 {
	return l.gridWidth * float64(span) / document.GridSize
}

// resolved estilo con valores por defecto aplicados.
type resolved struct {
	size       float64
	lineHeight float64
	fontStyle  fontstyle.Type
	color      *props.Color
	background *props.Color
}

func (l *layout) style(name string) resolved {
	s := l.styles[name]
	r := resolved{
		size:       s.FontSize,
		lineHeight: s.LineHeight,
		fontStyle:  fontstyle.Normal,
		color:      parseColor(s.Color),
		background: parseColor(s.Background),
	}
	if r.size <= 0 {
		r.size = l.baseSize
	}
	if r.lineHeight <= 0 {
		r.lineHeight = defaultLineHeight
	}
	switch {
	case s.Bold && s.Italics:
		r.fontStyle = fontstyle.BoldItalic
	case s.Bold:
		r.fontStyle = fontstyle.Bold
	case s.Italics:
		r.fontStyle = fontstyle.Italic
	}
	return r
}

// lineMM alto de un renglón en mm.
func (r resolved) lineMM() float64 {
	return r.size * ptToMM * r.lineHeight
}

// blockRows traduce un bloque de primer nivel a filas.
func (l *layout) blockRows(b document.Block) ([]core.Row, error) {
	switch b.Kind {
	case document.KindSpacer:
		return []core.Row{row.New(b.Height)}, nil

	case document.KindText:
		st := l.style(b.Style)
		comps, h := l.textComponents(b, l.gridWidth, 0)
		r := row.New(h + b.MarginTop() + b.MarginBottom())
		if st.background != nil {
			r = r.WithStyle(&props.Cell{BackgroundColor: st.background})
		}
		// El margen superior queda dentro de la fila; el texto baja con Top.
		return []core.Row{r.Add(col.New(document.GridSize).Add(comps...))}, nil

	case document.KindImage:
		comp, h, err := imageComponent(b.Image, 0)
		if err != nil {
			return nil, err
		}
		return []core.Row{row.New(h).Add(col.New(document.GridSize).Add(comp))}, nil

	case document.KindColumns:
		return l.columnRows(b)

	case document.KindTable:
		return l.tableRows(b.Table), nil

	default:
		return nil, fmt.Errorf("pdf: tipo de bloque desconocido %q", b.Kind)
	}
}

// textComponents devuelve un componente por renglón (ya partido al ancho
// disponible) y la altura total del texto. top desplaza todo el bloque.
func (l *layout) textComponents(b document.Block, width, top float64) ([]core.Component, float64) {
	st := l.style(b.Style)
	left, right := marginAt(b.Margin, 0), marginAt(b.Margin, 2)
	lines := wrap(b.Text, width-left-right, st.size)

	y := top + b.MarginTop()
	comps := make([]core.Component, 0, len(lines))
	for _, ln := range lines {
		comps = append(comps, text.New(ln, props.Text{
			Top:   y,
			Left:  left,
			Right: right,
			Size:  st.size,
			Style: st.fontStyle,
			Align: alignment(b.Align),
			Color: st.color,
		}))
		y += st.lineMM()
	}
	return comps, float64(len(lines)) * st.lineMM()
}

// columnRows: una fila con una columna por Column; cada columna apila sus
// bloques desplazándolos con Top. Span 0 reparte la rejilla libre.
func (l *layout) columnRows(b document.Block) ([]core.Row, error) {
	spans := resolveSpans(b.Columns)

	cols := make([]core.Col, 0, len(b.Columns))
	height := 0.0
	for i, c := range b.Columns {
		width := l.colWidth(spans[i])
		y := b.MarginTop()
		var comps []core.Component
		for _, s := range c.Stack {
			switch s.Kind {
			case document.KindText:
				tc, h := l.textComponents(s, width, y)
				comps = append(comps, tc...)
				y += s.MarginTop() + h + s.MarginBottom()
			case document.KindImage:
				ic, h, err := imageComponent(s.Image, y)
				if err != nil {
					return nil, err
				}
				comps = append(comps, ic)
				y += h
			case document.KindSpacer:
				y += s.Height
			default:
				return nil, fmt.Errorf("pdf: bloque %q no admitido dentro de columnas", s.Kind)
			}
		}
		if y > height {
			height = y
		}
		cols = append(cols, col.New(spans[i]).Add(comps...))
	}
	height += b.MarginBottom()
	return []core.Row{row.New(height).Add(cols...)}, nil
}

func resolveSpans(columns []document.Column) []int {
	spans := make([]int, len(columns))
	used, auto := 0, 0
	for i, c := range columns {
		spans[i] = c.Span
		used += c.Span
		if c.Span <= 0 {
			auto++
		}
	}
	if auto == 0 {
		return spans
	}
	free := document.GridSize - used
	for i := range spans {
		if spans[i] <= 0 {
			spans[i] = free / auto
			if spans[i] < 1 {
				spans[i] = 1
			}
		}
	}
	return spans
}

// tableRows: una fila por fila de la tabla. Layout lined dibuja la cabecera
// sombreada y una línea bajo cada fila.
func (l *layout) tableRows(t *document.Table) []core.Row {
	lined := t.Layout == document.LayoutLined
	rows := make([]core.Row, 0, len(t.Body)*2)

	for i, cells := range t.Body {
		isHeader := i < t.HeaderRows

		height := 0.0
		cols := make([]core.Col, 0, len(cells)+1)
		if t.Offset > 0 {
			cols = append(cols, col.New(t.Offset))
		}
		var background *props.Color
		for j, c := range cells {
			st := l.style(c.Style)
			if isHeader && st.background != nil {
				background = st.background
			}
			width := l.colWidth(t.Widths[j]) - 2
			lines := wrap(c.Text, width, st.size)
			comps := make([]core.Component, 0, len(lines))
			y := cellPadding
			for _, ln := range lines {
				comps = append(comps, text.New(ln, props.Text{
					Top:   y,
					Left:  1,
					Right: 1,
					Size:  st.size,
					Style: st.fontStyle,
					Align: alignment(c.Align),
					Color: st.color,
				}))
				y += st.lineMM()
			}
			if h := y + cellPadding; h > height {
				height = h
			}
			cols = append(cols, col.New(t.Widths[j]).Add(comps...))
		}

		r := row.New(height).Add(cols...)
		if lined && background != nil {
			r = r.WithStyle(&props.Cell{BackgroundColor: background})
		}
		rows = append(rows, r)
		if lined && !isHeader {
			rows = append(rows, line.NewRow(0.5, props.Line{Color: colorRule, Thickness: 0.2}))
		}
	}
	return rows
}

func imageComponent(img *document.Image, top float64) (core.Component, float64, error) {
	if img == nil {
		return nil, 0, fmt.Errorf("pdf: imagen vacía")
	}
	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return nil, 0, fmt.Errorf("pdf: decodificar imagen: %w", err)
	}
	ext := extension.Png
	if f := strings.ToLower(img.Format); f == "jpg" || f == "jpeg" {
		ext = extension.Jpg
	}
	height := img.Height
	if height <= 0 {
		height = 15
	}
	return image.NewFromBytes(data, ext, props.Rect{Top: top, Percent: 100}), top + height, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// wrap parte el texto en renglones: respeta los saltos de línea y corta por
// palabras según el ancho estimado de los caracteres. Una palabra más larga que
// el renglón se corta en trozos de maxChars runas.
func wrap(s string, widthMM, size float64) []string {
	maxChars := int(widthMM / (size * ptToMM * avgCharWidth))
	if maxChars < 1 {
		maxChars = 1
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		var current []rune
		for _, w := range strings.Fields(para) {
			for _, chunk := range splitRunes([]rune(w), maxChars) {
				switch {
				case len(current) == 0:
					current = chunk
				case len(current)+1+len(chunk) > maxChars:
					out = append(out, string(current))
					current = chunk
				default:
					current = append(append(current, ' '), chunk...)
				}
			}
		}
		out = append(out, string(current))
	}
	return out
}

func splitRunes(r []rune, n int) [][]rune {
	var chunks [][]rune
	for len(r) > n {
		chunks = append(chunks, r[:n:n])
		r = r[n:]
	}
	return append(chunks, r)
}

func pageSize(s string) pagesize.Type {
	if strings.EqualFold(s, "letter") {
		return pagesize.Letter
	}
	return pagesize.A4
}

func alignment(a string) align.Type {
	switch a {
	case document.AlignCenter:
		return align.Center
	case document.AlignRight:
		return align.Right
	default:
		return align.Left
	}
}

// parseColor convierte "#RRGGBB" a props.Color; nil si no es válido.
func parseColor(hex string) *props.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return nil
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil
	}
	return &props.Color{Red: int(v >> 16 & 0xFF), Green: int(v >> 8 & 0xFF), Blue: int(v & 0xFF)}
}

func marginAt(m []float64, i int) float64 {
	if len(m) > i {
		return m[i]
	}
	return 0
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
