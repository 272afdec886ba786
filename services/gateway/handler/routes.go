package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/piresc/coingate/services/gateway"
	httpHandler "github.com/piresc/coingate/services/gateway/handler/http"
)

// Handler combines all handlers for the gateway service
type Handler struct {
	gatewayHTTP  *httpHandler.GatewayHandler
	ipnVerifiers []echo.MiddlewareFunc
}

// Option customises a Handler
type Option func(*Handler)

// WithIPNVerifier puts m in front of the IPN route, e.g. to check the processor's HMAC header
func WithIPNVerifier(m echo.MiddlewareFunc) Option {
	return func(h *Handler) {
		h.ipnVerifiers = append(h.ipnVerifiers, m)
	}
}

// NewHandler creates a new combined handler
func NewHandler(gatewayUC gateway.GatewayUC, cfg *models.Config, opts ...Option) *Handler {
	h := &Handler{
		gatewayHTTP: httpHandler.NewGatewayHandler(gatewayUC, cfg),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers all HTTP routes. buyerMiddleware (authentication first) guards the buyer-facing endpoints.
func (h *Handler) RegisterRoutes(e *echo.Echo, buyerMiddleware ...echo.MiddlewareFunc) {
	group := e.Group("/gateway")

	// Processor callback, unauthenticated unless a verifier is configured
	group.POST("/ipn", h.gatewayHTTP.HandleIPN, h.ipnVerifiers...)

	group.GET("/currencies", h.gatewayHTTP.GetCurrencies)

	group.POST("/createTransaction", h.gatewayHTTP.CreateTransaction, buyerMiddleware...)
	group.GET("/getTransactions", h.gatewayHTTP.GetTransactions, buyerMiddleware...)
}
