package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestHTTPFetcher(t *testing.T) {
	t.Parallel()
	body := pngBytes(t, 4, 3)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/images/ok.png":
			_, _ = w.Write(body)
		case "/images/junk.png":
			_, _ = w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	f := &HTTPFetcher{Client: srv.Client(), BaseURL: srv.URL + "/"}
	ctx := context.Background()

	info, err := f.Fetch(ctx, "/images/ok.png")
	require.NoError(t, err)
	require.Equal(t, Info{Format: "png", Width: 4, Height: 3}, info)

	info, err = f.Fetch(ctx, srv.URL+"/images/ok.png")
	require.NoError(t, err)
	require.Equal(t, 4, info.Width)

	_, err = f.Fetch(ctx, "/images/missing.png")
	require.ErrorContains(t, err, "HTTP 404")

	_, err = f.Fetch(ctx, "/images/junk.png")
	require.ErrorContains(t, err, "decode")

	_, err = f.Fetch(ctx, "")
	require.Error(t, err)
}

func TestHTTPFetcherLocalFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "card.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 2, 2), 0o600))

	f := &HTTPFetcher{}
	info, err := f.Fetch(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "png", info.Format)

	_, err = f.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
}
