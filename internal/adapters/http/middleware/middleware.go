// Package middleware はリクエスト ID とリクエストスコープのロガーを扱う echo ミドルウェアです。
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/ogurasousui/employee-directory/internal/platform/logger"
)

// RequestID は X-Request-Id を付与します。クライアント指定の値があればそれを使います。
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// ContextLogger は request_id 付きのロガーをリクエストコンテキストに格納します。
// RequestID の後に登録してください。
func ContextLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := c.Response().Header().Get(echo.HeaderXRequestID)

			l := base.With().Str("request_id", id).Logger()
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))
			return next(c)
		}
	}
}

// RequestLogger は 1 リクエストにつき 1 行のアクセスログを出力します。
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			l := logger.FromContext(c.Request().Context(), base)

			event := l.Info()
			switch {
			case v.Status >= 500:
				event = l.Error().Err(v.Error)
			case v.Error != nil:
				event = l.Warn().Err(v.Error)
			}

			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
