package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	_ "golang.org/x/image/webp"
)

// Info describes a decoded asset header.
type Info struct {
	Format string
	Width  int
	Height int
}

// Fetcher retrieves one asset and checks that it decodes.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (Info, error)
}

// HTTPFetcher loads http(s) URLs, resolves root-relative refs against
// BaseURL, and treats anything else as a local file path.
type HTTPFetcher struct {
	Client  *http.Client
	BaseURL string
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) (Info, error) {
	if ref == "" {
		return Info{}, errors.New("empty reference")
	}
	url, remote := f.resolve(ref)
	if !remote {
		fh, err := os.Open(url)
		if err != nil {
			return Info{}, err
		}
		defer fh.Close()
		return decode(fh)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Info{}, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Info{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return decode(resp.Body)
}

func (f *HTTPFetcher) resolve(ref string) (string, bool) {
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref, true
	case strings.HasPrefix(ref, "/") && f.BaseURL != "":
		return strings.TrimRight(f.BaseURL, "/") + ref, true
	default:
		return ref, false
	}
}

func decode(r io.Reader) (Info, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return Info{}, fmt.Errorf("decode: %w", err)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
