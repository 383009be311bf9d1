package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Source yields the raw catalog text.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

// HTTPSource fetches the catalog over HTTP.
type HTTPSource struct {
	Client *http.Client
	URL    string
}

func (s HTTPSource) Name() string { return s.URL }

func (s HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fetchError(s.URL, fmt.Errorf("build request: %w", err))
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fetchError(s.URL, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fetchError(s.URL, fmt.Errorf("HTTP %d", resp.StatusCode))
	}
	return resp.Body, nil
}

// FileSource reads the catalog from local disk.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, fetchError(s.Path, err)
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fetchError(s.Path, err)
	}
	return f, nil
}

// NewSource picks an HTTP source for http(s) locations and a file source
// for everything else.
func NewSource(location string, client *http.Client) Source {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return HTTPSource{Client: client, URL: location}
	}
	return FileSource{Path: location}
}

// Fetch reads the whole catalog from src. Every failure is an
// ErrCatalogFetch.
func Fetch(ctx context.Context, src Source) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fetchError(src.Name(), fmt.Errorf("read body: %w", err))
	}
	return data, nil
}
