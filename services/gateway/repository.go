package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/coingate/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/piresc/coingate/services/gateway TransactionRepo,RatesCache

// TransactionRepo defines the interface for transaction storage
type TransactionRepo interface {
	Create(ctx context.Context, tx *models.Transaction) error
	// FindByExternalID matches either leg's external id and returns nil, nil when nothing does
	FindByExternalID(ctx context.Context, externalID string) (*models.Transaction, error)
	// Save writes tx only if the stored version still equals expectedVersion, else ErrVersionConflict
	Save(ctx context.Context, tx *models.Transaction, expectedVersion int64) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Transaction, error)
}

// RatesCache stores the processor rate table between fetches
type RatesCache interface {
	// GetRates returns nil, nil on a miss
	GetRates(ctx context.Context) (models.Rates, error)
	SetRates(ctx context.Context, rates models.Rates, ttl time.Duration) error
}
