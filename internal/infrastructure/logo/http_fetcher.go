// Package logo descarga el logo de la empresa y lo normaliza a PNG para
// embeberlo en las facturas.
package logo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // registra el decoder GIF
	_ "image/jpeg" // registra el decoder JPEG
	"image/png"
	"io"
	"net/http"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // registra el decoder WebP

	"github.com/jhoicas/commerce-invoicing/internal/application/billing"
)

// maxLogoBytes tamaño máximo aceptado para la descarga (5 MiB).
const maxLogoBytes = 5 << 20

// HTTPFetcher implementa billing.LogoFetcher sobre HTTP.
type HTTPFetcher struct {
	client       *http.Client
	timeout      time.Duration
	maxDimension int
}

var _ billing.LogoFetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher construye el fetcher. timeout acota cada descarga; maxDimension
// (px) es el lado máximo del PNG resultante, 0 = sin reducir.
func NewHTTPFetcher(client *http.Client, timeout time.Duration, maxDimension int) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPFetcher{client: client, timeout: timeout, maxDimension: maxDimension}
}

// Fetch descarga la imagen, la decodifica (PNG, JPEG, GIF o WebP), la reduce si
// supera maxDimension y la devuelve codificada como PNG.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*billing.Logo, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("logo: petición: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("logo: descargar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("logo: respuesta %d de %s", resp.StatusCode, url)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("logo: leer cuerpo: %w", err)
	}
	if len(raw) > maxLogoBytes {
		return nil, fmt.Errorf("logo: imagen mayor de %d bytes", maxLogoBytes)
	}

	data, err := Normalize(raw, f.maxDimension)
	if err != nil {
		return nil, err
	}
	return &billing.Logo{Data: data, Format: "png"}, nil
}

// Normalize decodifica la imagen, la reduce manteniendo la proporción si algún
// lado supera maxDimension y la vuelve a codificar como PNG.
func Normalize(raw []byte, maxDimension int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("logo: decodificar imagen: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if maxDimension > 0 && (width > maxDimension || height > maxDimension) {
		var newWidth, newHeight int
		if width > height {
			newWidth = maxDimension
			newHeight = max(1, int(float64(height)*float64(maxDimension)/float64(width)))
		} else {
			newHeight = maxDimension
			newWidth = max(1, int(float64(width)*float64(maxDimension)/float64(height)))
		}
		dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("logo: codificar PNG: %w", err)
	}
	return buf.Bytes(), nil
}
