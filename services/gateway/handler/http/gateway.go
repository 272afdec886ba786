package http

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/piresc/coingate/internal/pkg/logger"
	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/piresc/coingate/internal/pkg/requestcontext"
	"github.com/piresc/coingate/internal/utils"
	"github.com/piresc/coingate/services/gateway"
	"github.com/piresc/coingate/services/gateway/ipn"
)

// IPN acknowledgements; the processor only looks at the status code
const (
	IPNAckOK    = "IPN OK"
	IPNAckError = "IPN Error"
)

const maxIPNBodyBytes = 64 << 10

// GatewayHandler handles HTTP requests for purchases and processor notifications
type GatewayHandler struct {
	gatewayUC gateway.GatewayUC
	cfg       *models.Config
	now       func() time.Time
}

// NewGatewayHandler creates a new gateway HTTP handler
func NewGatewayHandler(gatewayUC gateway.GatewayUC, cfg *models.Config) *GatewayHandler {
	return &GatewayHandler{
		gatewayUC: gatewayUC,
		cfg:       cfg,
		now:       time.Now,
	}
}

// CreateTransactionResponse is returned to the buyer after initiation
type CreateTransactionResponse struct {
	TransactionID uuid.UUID                `json:"transaction_id"`
	Status        models.TransactionStatus `json:"status"`
	Invoice       models.Invoice           `json:"invoice"`
}

// HandleIPN accepts one processor notification. It always answers 200; the outcome is only logged.
func (h *GatewayHandler) HandleIPN(c echo.Context) error {
	ctx := c.Request().Context()

	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxIPNBodyBytes+1))
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read IPN body", logger.Err(err))
		return c.String(http.StatusOK, IPNAckError)
	}
	if len(raw) > maxIPNBodyBytes {
		logger.WarnCtx(ctx, "Rejected oversized IPN",
			logger.Int("limit", maxIPNBodyBytes),
			logger.String("payload", utils.Truncate(string(raw), 256)))
		return c.String(http.StatusOK, IPNAckError)
	}

	event, err := ipn.Normalize(raw, c.Request().Header.Get(echo.HeaderContentType), h.now().UTC())
	if err != nil {
		logger.WarnCtx(ctx, "Rejected malformed IPN",
			logger.Err(err),
			logger.String("payload", utils.Truncate(string(raw), 256)))
		return c.String(http.StatusOK, IPNAckError)
	}

	if err := h.gatewayUC.HandleNotification(ctx, event); err != nil {
		logger.WarnCtx(ctx, "IPN not applied",
			logger.String("txn_id", event.ExternalID),
			logger.Int("status", event.StatusCode),
			logger.Err(err))
		return c.String(http.StatusOK, IPNAckError)
	}

	return c.String(http.StatusOK, IPNAckOK)
}

// CreateTransaction starts a purchase of the payout currency paid in the requested currency
func (h *GatewayHandler) CreateTransaction(c echo.Context) error {
	owner, ok := requestcontext.OwnerFromEcho(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var request models.CreateTransactionRequest
	if err := c.Bind(&request); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	tx, err := h.gatewayUC.Initiate(c.Request().Context(), models.Owner{
		ID:            owner.ID,
		Email:         owner.Email,
		PayoutAddress: owner.PayoutAddress,
	}, request.Amount, h.cfg.Gateway.PayoutCurrency, strings.ToUpper(strings.TrimSpace(request.Currency)))
	if err != nil {
		return h.errorResponse(c, err, "Failed to create transaction")
	}

	return utils.SuccessResponse(c, http.StatusCreated, "Transaction created successfully", CreateTransactionResponse{
		TransactionID: tx.ID,
		Status:        tx.Status,
		Invoice:       tx.DepositInvoice,
	})
}

// GetTransactions lists the caller's transactions, newest first
func (h *GatewayHandler) GetTransactions(c echo.Context) error {
	owner, ok := requestcontext.OwnerFromEcho(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	txs, err := h.gatewayUC.ListTransactions(c.Request().Context(), owner.ID)
	if err != nil {
		return h.errorResponse(c, err, "Failed to get transactions")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Transactions retrieved successfully", txs)
}

// GetCurrencies lists the currencies the processor accepts
func (h *GatewayHandler) GetCurrencies(c echo.Context) error {
	rates, err := h.gatewayUC.ListRates(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err, "Failed to get currencies")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Currencies retrieved successfully", rates)
}

func (h *GatewayHandler) errorResponse(c echo.Context, err error, message string) error {
	switch {
	case errors.Is(err, gateway.ErrInvalidRequest):
		return utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, gateway.ErrUpstreamUnavailable):
		logger.WarnCtx(c.Request().Context(), message, logger.Err(err))
		return utils.BadGatewayResponse(c, "Payment processor unavailable")
	default:
		logger.ErrorCtx(c.Request().Context(), message, logger.Err(err))
		return utils.InternalServerErrorResponse(c, message)
	}
}
