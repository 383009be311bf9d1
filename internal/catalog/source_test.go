package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchHTTP(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("id,front_url,back_url\n"))
	}))
	defer srv.Close()

	src := NewSource(srv.URL+"/cards.csv", srv.Client())
	data, err := Fetch(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, "id,front_url,back_url\n", string(data))

	_, err = Fetch(context.Background(), NewSource(srv.URL+"/missing.csv", srv.Client()))
	require.True(t, errors.Is(err, ErrCatalogFetch))
	require.Contains(t, err.Error(), "HTTP 404")
}

func TestFetchFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cards.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0o600))

	src := NewSource(path, nil)
	require.IsType(t, FileSource{}, src)
	data, err := Fetch(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, "a,b\n", string(data))

	_, err = Fetch(context.Background(), FileSource{Path: filepath.Join(t.TempDir(), "nope.csv")})
	require.True(t, errors.Is(err, ErrCatalogFetch))
	require.True(t, errors.Is(err, os.ErrNotExist))
}
