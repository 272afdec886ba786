package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/coingate/internal/pkg/jwt"
	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/piresc/coingate/internal/pkg/requestcontext"
	"github.com/piresc/coingate/internal/utils"
)

// JWTAuthMiddleware authenticates the bearer token and places the owner on the request
func JWTAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return utils.UnauthorizedResponse(c, "Invalid authorization format")
			}

			claims, err := jwtpkg.ValidateToken(parts[1], config.Secret)
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token")
			}

			owner := requestcontext.Owner{
				ID:            claims.UserID,
				Email:         claims.Email,
				PayoutAddress: claims.WalletAddress,
			}

			c.Set(requestcontext.EchoOwnerID, owner.ID.String())
			c.Set(requestcontext.EchoOwnerEmail, owner.Email)
			c.Set(requestcontext.EchoPayoutAddress, owner.PayoutAddress)
			c.SetRequest(c.Request().WithContext(requestcontext.WithOwner(c.Request().Context(), owner)))

			return next(c)
		}
	}
}
