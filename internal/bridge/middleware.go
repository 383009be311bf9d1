package bridge

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	headerRequestID = echo.HeaderXRequestID
	ctxRequestID    = "request_id"
	maxRequestIDLen = 128
)

// quietPaths are polled continuously by renderers and logged at debug.
var quietPaths = map[string]bool{
	"/healthz":  true,
	"/v1/frame": true,
}

// requestID tags every request with an id, keeping a sane client-supplied
// one and minting a uuid otherwise.
func requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(headerRequestID)
			if !usableRequestID(id) {
				id = uuid.NewString()
			}
			c.Response().Header().Set(headerRequestID, id)
			c.Set(ctxRequestID, id)
			return next(c)
		}
	}
}

func usableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}

// accessLog writes one structured line per request. Server errors log at
// error, client errors at warn.
func accessLog(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			res := c.Response()
			level := slog.LevelInfo
			switch {
			case res.Status >= 500:
				level = slog.LevelError
			case res.Status >= 400:
				level = slog.LevelWarn
			case quietPaths[c.Path()]:
				level = slog.LevelDebug
			}
			attrs := []any{
				"request_id", c.Get(ctxRequestID),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", res.Status,
				"bytes", res.Size,
				"remote", c.RealIP(),
				"latency_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				attrs = append(attrs, "err", err)
			}
			logger.Log(c.Request().Context(), level, "request", attrs...)
			return nil
		}
	}
}
