package gateway

import (
	"context"

	"github.com/google/uuid"
	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/coingate/services/gateway GatewayUC

// GatewayUC defines the interface for gateway business logic
type GatewayUC interface {
	// handle purchase initiation
	Initiate(ctx context.Context, owner models.Owner, sourceAmount decimal.Decimal, sourceCurrency, targetCurrency string) (*models.Transaction, error)

	// handle IPN deliveries
	HandleNotification(ctx context.Context, event *models.NotificationEvent) error

	// read-only queries
	ListTransactions(ctx context.Context, ownerID uuid.UUID) ([]*models.Transaction, error)
	ListRates(ctx context.Context) (models.Rates, error)
}
