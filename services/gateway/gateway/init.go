package gateway

import (
	"context"

	"github.com/piresc/coingate/internal/pkg/models"
	gatewaysvc "github.com/piresc/coingate/services/gateway"
	"github.com/shopspring/decimal"
)

// GatewayGW bundles the processor and event gateways behind the ports the usecase consumes
type GatewayGW struct {
	processor *CoinPaymentsGateway
	events    *EventGateway
}

// NewGatewayGW creates a unified gateway over CoinPayments and NATS
func NewGatewayGW(processor *CoinPaymentsGateway, events *EventGateway) *GatewayGW {
	return &GatewayGW{processor: processor, events: events}
}

var (
	_ gatewaysvc.ProcessorGW = (*GatewayGW)(nil)
	_ gatewaysvc.EventGW     = (*GatewayGW)(nil)
)

// CreateDepositInvoice delegates to the processor gateway
func (g *GatewayGW) CreateDepositInvoice(ctx context.Context, amount decimal.Decimal, sourceCurrency, targetCurrency, buyerEmail string) (*models.Invoice, error) {
	return g.processor.CreateDepositInvoice(ctx, amount, sourceCurrency, targetCurrency, buyerEmail)
}

// CreateConversionInvoice delegates to the processor gateway
func (g *GatewayGW) CreateConversionInvoice(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency, address string) (*models.Invoice, error) {
	return g.processor.CreateConversionInvoice(ctx, amount, fromCurrency, toCurrency, address)
}

// ListRates delegates to the processor gateway
func (g *GatewayGW) ListRates(ctx context.Context) (models.Rates, error) {
	return g.processor.ListRates(ctx)
}

// PublishTransactionUpdate delegates to the event gateway
func (g *GatewayGW) PublishTransactionUpdate(ctx context.Context, update models.TransactionUpdate) error {
	return g.events.PublishTransactionUpdate(ctx, update)
}
