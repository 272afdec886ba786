package logger

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/coingate/internal/pkg/requestcontext"
)

// ZapEchoMiddleware logs every request served by echo
func ZapEchoMiddleware(logger *ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			path := c.Request().URL.Path

			err := next(c)
			if err != nil {
				// let echo write the response so the logged status is the real one
				c.Error(err)
			}

			ownerID := "anonymous"
			if v := c.Get(requestcontext.EchoOwnerID); v != nil {
				ownerID = fmt.Sprintf("%v", v)
			}

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			logger.LogHTTPRequest(c.Request().Method, path, c.RealIP(), ownerID, requestID,
				c.Response().Status, time.Since(start), err)

			return nil
		}
	}
}
