package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/coingate/internal/pkg/keylock"
	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/piresc/coingate/services/gateway"
	"github.com/shopspring/decimal"
)

// memoryRepo is a versioned in-memory TransactionRepo used by the scenario tests
type memoryRepo struct {
	mu    sync.Mutex
	txs   map[uuid.UUID]*models.Transaction
	saves int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{txs: make(map[uuid.UUID]*models.Transaction)}
}

func (r *memoryRepo) Create(_ context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs[tx.ID] = tx.Clone()
	return nil
}

func (r *memoryRepo) FindByExternalID(_ context.Context, externalID string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.txs {
		if tx.DepositInvoice.ExternalID == externalID ||
			(tx.ConversionInvoice != nil && tx.ConversionInvoice.ExternalID == externalID) {
			return tx.Clone(), nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) Save(_ context.Context, tx *models.Transaction, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.txs[tx.ID]
	if !ok || stored.Version != expectedVersion {
		return gateway.ErrVersionConflict
	}
	r.txs[tx.ID] = tx.Clone()
	r.saves++
	return nil
}

func (r *memoryRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range r.txs {
		if tx.OwnerID == ownerID {
			out = append(out, tx.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepo) get(id uuid.UUID) *models.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.txs[id].Clone()
}

func (r *memoryRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// noopLocker leaves all serialization to optimistic versioning
type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

func newTestConfig() *models.Config {
	return &models.Config{
		Gateway: models.GatewayConfig{
			PayoutCurrency:    "ETH",
			ConversionTimeout: time.Second,
			MaxApplyAttempts:  3,
			LockTTL:           time.Second,
		},
	}
}

func newOwner() models.Owner {
	return models.Owner{
		ID:            uuid.New(),
		Email:         "buyer@example.com",
		PayoutAddress: "0x52bc44d5378309ee2abf1539bf71de1b7d7be3b5",
	}
}

func depositInvoice(externalID string) *models.Invoice {
	return &models.Invoice{
		ExternalID:     externalID,
		Address:        "mwq1hQ8Xb3TSrYHpB5mDD4sKn2EW1S2dPc",
		Amount:         decimal.RequireFromString("12.5"),
		FromCurrency:   "ETH",
		ToCurrency:     "LTCT",
		ConfirmsNeeded: 3,
		TimeoutSeconds: 9000,
		StatusURL:      "https://www.coinpayments.net/index.php?cmd=status&id=" + externalID,
	}
}

func conversionInvoice(externalID string) *models.Invoice {
	return &models.Invoice{
		ExternalID:   externalID,
		Amount:       decimal.RequireFromString("12.5"),
		FromCurrency: "LTCT",
		ToCurrency:   "ETH",
	}
}

// startedTx is a freshly initiated Buy transaction
func startedTx(externalID string) *models.Transaction {
	now := time.Now().UTC()
	owner := newOwner()
	return &models.Transaction{
		ID:               uuid.New(),
		OwnerID:          owner.ID,
		OwnerEmail:       owner.Email,
		PayoutAddress:    owner.PayoutAddress,
		Kind:             models.TransactionKindBuy,
		Status:           models.TransactionStatusStarted,
		DepositInvoice:   *depositInvoice(externalID),
		DepositEvents:    []models.NotificationEvent{},
		ConversionEvents: []models.NotificationEvent{},
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func notification(externalID string, status int) *models.NotificationEvent {
	return &models.NotificationEvent{
		SchemaVersion: models.NotificationSchemaVersion,
		ExternalID:    externalID,
		StatusCode:    status,
		Amount:        decimal.RequireFromString("12.5"),
		Currency:      "LTCT",
		IPNID:         uuid.NewString(),
		RawPayload:    "txn_id=" + externalID,
		ReceivedAt:    time.Now().UTC(),
	}
}

func newKeyLocker() gateway.Locker {
	return keylock.New()
}
