package gateway

import (
	"context"

	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/piresc/coingate/services/gateway ProcessorGW,EventGW,Locker

// ProcessorGW defines the outbound payment processor operations.
// Errors wrap ErrUpstreamUnavailable, and additionally ErrUpstreamRejected when the processor refused the call.
type ProcessorGW interface {
	CreateDepositInvoice(ctx context.Context, amount decimal.Decimal, sourceCurrency, targetCurrency, buyerEmail string) (*models.Invoice, error)
	CreateConversionInvoice(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency, address string) (*models.Invoice, error)
	ListRates(ctx context.Context) (models.Rates, error)
}

// EventGW publishes transaction state changes
type EventGW interface {
	PublishTransactionUpdate(ctx context.Context, update models.TransactionUpdate) error
}

// Locker serializes notification handling per external id
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
