package logo_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/commerce-invoicing/internal/infrastructure/logo"
)

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestFetch_ReduceYConvierteAPNG(t *testing.T) {
	body := jpegBytes(t, 800, 200)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f := logo.NewHTTPFetcher(srv.Client(), time.Second, 400)
	got, err := f.Fetch(context.Background(), srv.URL+"/logo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "png", got.Format)

	cfg, err := png.DecodeConfig(bytes.NewReader(got.Data))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 100, cfg.Height)
}

func TestFetch_Status404(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := logo.NewHTTPFetcher(srv.Client(), time.Second, 400).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := logo.NewHTTPFetcher(srv.Client(), 50*time.Millisecond, 400).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestNormalize_NoImagen(t *testing.T) {
	_, err := logo.Normalize([]byte("<html>"), 400)
	assert.Error(t, err)
}

func TestNormalize_PequenaNoSeReduce(t *testing.T) {
	out, err := logo.Normalize(jpegBytes(t, 40, 20), 400)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 20, cfg.Height)
}
