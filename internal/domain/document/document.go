// Package document define la descripción de un documento imprimible: un árbol
// serializable de bloques (texto, columnas, tablas, imágenes) independiente del
// motor que lo dibuja.
//
// La descripción se guarda tal cual en la factura (JSON) y se vuelve a dibujar
// sin recalcular, de modo que el resultado es idéntico byte a byte.
package document

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind tipo de bloque.
type Kind string

const (
	KindText    Kind = "text"
	KindColumns Kind = "columns"
	KindTable   Kind = "table"
	KindImage   Kind = "image"
	KindSpacer  Kind = "spacer"
)

// Layouts de tabla.
const (
	LayoutLined = "lined" // cabecera sombreada y líneas horizontales
	LayoutPlain = "plain" // sin bordes
)

// Alineaciones.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// GridSize ancho de la rejilla usada por columnas y tablas.
const GridSize = 12

// Document descripción completa de la página.
type Document struct {
	PageSize    string           `json:"pageSize"`
	Margins     []float64        `json:"pageMargins"` // izq, arriba, der, abajo (mm)
	CreatedAt   time.Time        `json:"createdAt"`
	Title       string           `json:"title,omitempty"`
	Author      string           `json:"author,omitempty"`
	DefaultFont Font             `json:"defaultStyle"`
	Styles      map[string]Style `json:"styles"`
	Header      []Block          `json:"header,omitempty"`
	Content     []Block          `json:"content"`
}

// Font fuente por defecto.
type Font struct {
	Family string  `json:"font"`
	Size   float64 `json:"fontSize"`
}

// Style estilo con nombre referenciado por bloques y celdas.
type Style struct {
	FontSize   float64 `json:"fontSize,omitempty"`
	Bold       bool    `json:"bold,omitempty"`
	Italics    bool    `json:"italics,omitempty"`
	Color      string  `json:"color,omitempty"`
	Background string  `json:"backgroundColor,omitempty"`
	LineHeight float64 `json:"lineHeight,omitempty"`
}

// Block nodo del árbol.
type Block struct {
	Kind    Kind      `json:"kind"`
	Text    string    `json:"text,omitempty"`
	Style   string    `json:"style,omitempty"`
	Align   string    `json:"alignment,omitempty"`
	Margin  []float64 `json:"margin,omitempty"` // izq, arriba, der, abajo
	Height  float64   `json:"height,omitempty"` // sólo spacer
	Columns []Column  `json:"columns,omitempty"`
	Table   *Table    `json:"table,omitempty"`
	Image   *Image    `json:"image,omitempty"`
}

// Column columna de un bloque KindColumns. Span 0 reparte el espacio libre.
type Column struct {
	Span  int     `json:"span"`
	Stack []Block `json:"stack"`
}

// Table tabla con filas de cabecera opcionales. Offset desplaza la tabla
// a la derecha en unidades de la rejilla.
type Table struct {
	HeaderRows int      `json:"headerRows"`
	Offset     int      `json:"offset,omitempty"`
	Widths     []int    `json:"widths"`
	Body       [][]Cell `json:"body"`
	Layout     string   `json:"layout"`
}

// Cell celda de tabla.
type Cell struct {
	Text  string `json:"text"`
	Style string `json:"style,omitempty"`
	Align string `json:"alignment,omitempty"`
}

// Image imagen embebida (base64) con su tamaño máximo en mm.
type Image struct {
	Data   string  `json:"data"`
	Format string  `json:"format"` // png, jpg
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ── Constructores ─────────────────────────────────────────────────────────────

// Text bloque de texto.
func Text(text, style string) Block {
	return Block{Kind: KindText, Text: text, Style: style}
}

// Spacer espacio vertical en mm.
func Spacer(height float64) Block {
	return Block{Kind: KindSpacer, Height: height}
}

// WithMargin devuelve una copia del bloque con margen.
func (b Block) WithMargin(left, top, right, bottom float64) Block {
	b.Margin = []float64{left, top, right, bottom}
	return b
}

// WithAlign devuelve una copia del bloque con alineación.
func (b Block) WithAlign(a string) Block {
	b.Align = a
	return b
}

// MarginTop margen superior (0 si no hay).
func (b Block) MarginTop() float64 { return marginAt(b.Margin, 1) }

// MarginBottom margen inferior (0 si no hay).
func (b Block) MarginBottom() float64 { return marginAt(b.Margin, 3) }

func marginAt(m []float64, i int) float64 {
	if len(m) > i {
		return m[i]
	}
	return 0
}

// ── Serialización ─────────────────────────────────────────────────────────────

// Marshal serializa el documento para guardarlo en la factura.
func (d *Document) Marshal() (json.RawMessage, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("document: serializar: %w", err)
	}
	return raw, nil
}

// Unmarshal reconstruye y valida un documento guardado.
func Unmarshal(raw []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("document: deserializar: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate comprueba que todos los bloques tengan un tipo conocido y datos coherentes.
func (d *Document) Validate() error {
	for _, b := range d.Header {
		if err := validateBlock(b); err != nil {
			return err
		}
	}
	for _, b := range d.Content {
		if err := validateBlock(b); err != nil {
			return err
		}
	}
	return nil
}

func validateBlock(b Block) error {
	switch b.Kind {
	case KindText, KindSpacer:
		return nil
	case KindImage:
		if b.Image == nil || b.Image.Data == "" {
			return fmt.Errorf("document: bloque image sin datos")
		}
		return nil
	case KindTable:
		if b.Table == nil {
			return fmt.Errorf("document: bloque table sin tabla")
		}
		for i, r := range b.Table.Body {
			if len(r) != len(b.Table.Widths) {
				return fmt.Errorf("document: fila %d con %d celdas, se esperaban %d", i, len(r), len(b.Table.Widths))
			}
		}
		return nil
	case KindColumns:
		span := 0
		for _, c := range b.Columns {
			span += c.Span
			for _, s := range c.Stack {
				if err := validateBlock(s); err != nil {
					return err
				}
			}
		}
		if span > GridSize {
			return fmt.Errorf("document: columnas suman %d (máx %d)", span, GridSize)
		}
		return nil
	default:
		return fmt.Errorf("document: tipo de bloque desconocido %q", b.Kind)
	}
}

// Texts recorre el documento (cabecera y contenido) y devuelve todos los textos en orden.
func (d *Document) Texts() []string {
	var out []string
	var walk func(bs []Block)
	walk = func(bs []Block) {
		for _, b := range bs {
			switch b.Kind {
			case KindText:
				out = append(out, b.Text)
			case KindColumns:
				for _, c := range b.Columns {
					walk(c.Stack)
				}
			case KindTable:
				for _, r := range b.Table.Body {
					for _, c := range r {
						out = append(out, c.Text)
					}
				}
			}
		}
	}
	walk(d.Header)
	walk(d.Content)
	return out
}
