package bridge

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/jask/packreveal/internal/reveal"
)

func newTestServer(t *testing.T, opts Options) (*Feed, *httptest.Server) {
	t.Helper()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	feed := NewFeed()
	s, err := New(feed, opts)
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return feed, srv
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	_, srv := newTestServer(t, Options{})
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(headerRequestID))
}

func TestFrameEndpoint(t *testing.T) {
	t.Parallel()
	feed, srv := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/v1/frame")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	feed.Publish(reveal.Frame{
		Phase:      "revealed",
		Generation: 2,
		Elements:   []reveal.Element{{Key: "card:a", CardID: "a", Layer: reveal.LayerFan, Pose: reveal.Pose{Scale: 1, Opacity: 1}}},
	})
	resp, err = http.Get(srv.URL + "/v1/frame")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got reveal.Frame
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, "revealed", got.Phase)
	require.Equal(t, uint64(2), got.Generation)
	require.Len(t, got.Elements, 1)
	require.Equal(t, "card:a", got.Elements[0].Key)
}

func TestStreamPushesFrames(t *testing.T) {
	t.Parallel()
	feed, srv := newTestServer(t, Options{})
	feed.Publish(reveal.Frame{Phase: "pack"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/stream", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	var fr reveal.Frame
	require.NoError(t, wsjson.Read(ctx, conn, &fr))
	require.Equal(t, "pack", fr.Phase)

	require.Eventually(t, func() bool { return feed.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)
	feed.Publish(reveal.Frame{Phase: "stacked"})
	require.NoError(t, wsjson.Read(ctx, conn, &fr))
	require.Equal(t, "stacked", fr.Phase)
}

func TestImagesProxy(t *testing.T) {
	t.Parallel()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = io.WriteString(w, "png:"+r.URL.Path+"?"+r.URL.RawQuery)
	}))
	t.Cleanup(upstream.Close)
	_, srv := newTestServer(t, Options{ImagesUpstream: upstream.URL})

	resp, err := http.Get(srv.URL + "/images/cards/a.png?v=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "png:/images/cards/a.png?v=2", string(body))
}

func TestImagesProxyDisabledAndInvalid(t *testing.T) {
	t.Parallel()
	_, srv := newTestServer(t, Options{})
	resp, err := http.Get(srv.URL + "/images/a.png")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, err = New(NewFeed(), Options{ImagesUpstream: "not a url"})
	require.Error(t, err)
}
