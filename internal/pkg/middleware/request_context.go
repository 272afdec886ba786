package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/coingate/internal/pkg/requestcontext"
)

// RequestContextMiddleware propagates or assigns X-Request-ID and stores it on the request context
func RequestContextMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := requestcontext.WithRequestID(c.Request().Context(), c.Request().Header.Get(echo.HeaderXRequestID))
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(echo.HeaderXRequestID, requestcontext.RequestID(ctx))

			return next(c)
		}
	}
}
