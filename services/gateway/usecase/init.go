package usecase

import (
	"errors"
	"time"

	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/piresc/coingate/services/gateway"
)

const (
	defaultMaxApplyAttempts  = 3
	defaultConversionTimeout = 20 * time.Second
)

// gatewayUC implements the gateway.GatewayUC interface
type gatewayUC struct {
	cfg         *models.Config
	txRepo      gateway.TransactionRepo
	ratesCache  gateway.RatesCache
	processorGW gateway.ProcessorGW
	eventGW     gateway.EventGW
	locker      gateway.Locker
	now         func() time.Time
}

// NewGatewayUC creates a new gateway use case. ratesCache and eventGW may be nil.
func NewGatewayUC(
	cfg *models.Config,
	txRepo gateway.TransactionRepo,
	ratesCache gateway.RatesCache,
	processorGW gateway.ProcessorGW,
	eventGW gateway.EventGW,
	locker gateway.Locker,
) (gateway.GatewayUC, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if txRepo == nil || processorGW == nil || locker == nil {
		return nil, errors.New("transaction repository, processor gateway and locker are required")
	}
	if cfg.Gateway.PayoutCurrency == "" {
		return nil, errors.New("payout currency is not configured")
	}
	if cfg.Gateway.MaxApplyAttempts < 1 {
		cfg.Gateway.MaxApplyAttempts = defaultMaxApplyAttempts
	}
	if cfg.Gateway.ConversionTimeout <= 0 {
		cfg.Gateway.ConversionTimeout = defaultConversionTimeout
	}

	return &gatewayUC{
		cfg:         cfg,
		txRepo:      txRepo,
		ratesCache:  ratesCache,
		processorGW: processorGW,
		eventGW:     eventGW,
		locker:      locker,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}
