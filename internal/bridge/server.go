package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const writeTimeout = 5 * time.Second

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Options configure a Server.
type Options struct {
	// ImagesUpstream is the origin /images/* is proxied to. Empty disables
	// the proxy.
	ImagesUpstream string
	// AllowOrigins lists websocket origins accepted besides same-host ones.
	AllowOrigins []string
	Logger       *slog.Logger
}

// Server exposes the live reveal to external renderers over HTTP.
type Server struct {
	e    *echo.Echo
	feed *Feed
	opts Options
	log  *slog.Logger
}

// New builds the server and registers its routes.
func New(feed *Feed, opts Options) (*Server, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(requestID())
	e.Use(accessLog(log))

	s := &Server{e: e, feed: feed, opts: opts, log: log}
	e.GET("/healthz", s.Healthz)
	e.GET("/v1/frame", s.Frame)
	e.GET("/v1/stream", s.Stream)

	if opts.ImagesUpstream != "" {
		target, err := url.Parse(opts.ImagesUpstream)
		if err != nil || target.Host == "" {
			return nil, fmt.Errorf("images upstream %q: invalid url", opts.ImagesUpstream)
		}
		proxy := &httputil.ReverseProxy{
			Rewrite: func(r *httputil.ProxyRequest) {
				r.SetURL(target)
			},
			ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
				log.Warn("image proxy failed", "path", r.URL.Path, "err", err)
				w.WriteHeader(http.StatusBadGateway)
			},
		}
		e.GET("/images/*", echo.WrapHandler(proxy))
	}
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.e }

// Start listens on addr until Shutdown.
func (s *Server) Start(addr string) error {
	s.log.Info("starting bridge", "addr", addr)
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Frame returns the latest published frame.
func (s *Server) Frame(c echo.Context) error {
	fr, ok := s.feed.Latest()
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "no frame yet"})
	}
	return c.JSON(http.StatusOK, fr)
}

// Stream upgrades to a websocket and pushes every frame as JSON.
func (s *Server) Stream(c echo.Context) error {
	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		OriginPatterns: s.opts.AllowOrigins,
	})
	if err != nil {
		s.log.Warn("websocket accept failed", "err", err)
		return nil
	}
	defer conn.Close(websocket.StatusInternalError, "closing")

	frames, unsubscribe := s.feed.Subscribe(4)
	defer unsubscribe()

	// Clients only listen; CloseRead handles control frames and cancels
	// ctx once they go away.
	ctx := conn.CloseRead(c.Request().Context())

	if fr, ok := s.feed.Latest(); ok {
		if err := s.write(ctx, conn, fr); err != nil {
			return nil
		}
	}
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return nil
		case fr, ok := <-frames:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "feed closed")
				return nil
			}
			if err := s.write(ctx, conn, fr); err != nil {
				s.log.Debug("stream write failed", "err", err)
				return nil
			}
		}
	}
}

func (s *Server) write(ctx context.Context, conn *websocket.Conn, v any) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, v)
}
