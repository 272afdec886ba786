package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/piresc/coingate/services/gateway"
	"github.com/piresc/coingate/services/gateway/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{
	"id", "owner_id", "owner_email", "payout_address", "kind", "status",
	"deposit_external_id", "conversion_external_id",
	"deposit_invoice", "deposit_events", "conversion_invoice", "conversion_events",
	"version", "created_at", "updated_at",
}

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func sampleTransaction() *models.Transaction {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.Transaction{
		ID:            uuid.New(),
		OwnerID:       uuid.New(),
		OwnerEmail:    "buyer@example.com",
		PayoutAddress: "0x52bc44d5378309ee2abf1539bf71de1b7d7be3b5",
		Kind:          models.TransactionKindBuy,
		Status:        models.TransactionStatusStarted,
		DepositInvoice: models.Invoice{
			ExternalID:   "CPDEP1",
			Address:      "mwq1hQ8Xb3TSrYHpB5mDD4sKn2EW1S2dPc",
			Amount:       decimal.RequireFromString("12.5"),
			FromCurrency: "ETH",
			ToCurrency:   "LTCT",
		},
		DepositEvents:    []models.NotificationEvent{},
		ConversionEvents: []models.NotificationEvent{},
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func rowFor(t *testing.T, tx *models.Transaction) []driver.Value {
	t.Helper()
	depositInvoice, err := json.Marshal(tx.DepositInvoice)
	require.NoError(t, err)
	depositEvents, err := json.Marshal(tx.DepositEvents)
	require.NoError(t, err)
	conversionEvents, err := json.Marshal(tx.ConversionEvents)
	require.NoError(t, err)

	var conversionInvoice []byte
	var conversionID interface{}
	if tx.ConversionInvoice != nil {
		conversionInvoice, err = json.Marshal(tx.ConversionInvoice)
		require.NoError(t, err)
		conversionID = tx.ConversionInvoice.ExternalID
	}

	return []driver.Value{
		tx.ID.String(), tx.OwnerID.String(), tx.OwnerEmail, tx.PayoutAddress,
		string(tx.Kind), string(tx.Status), tx.DepositInvoice.ExternalID, conversionID,
		depositInvoice, depositEvents, conversionInvoice, conversionEvents,
		tx.Version, tx.CreatedAt, tx.UpdatedAt,
	}
}

func TestCreate_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepository(&models.Config{}, db)
	tx := sampleTransaction()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO gateway_transactions")).
		WithArgs(tx.ID, tx.OwnerID, sqlmock.AnyArg(), tx.PayoutAddress, "buy", "started",
			"CPDEP1", sql.NullString{}, sqlmock.AnyArg(), "[]", nil, "[]",
			int64(1), tx.CreatedAt, tx.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), tx)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateExternalID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepository(&models.Config{}, db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO gateway_transactions")).
		WillReturnError(assert.AnError)

	err := repo.Create(context.Background(), sampleTransaction())

	assert.ErrorIs(t, err, assert.AnError)
}

func TestFindByExternalID_Found(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepository(&models.Config{}, db)

	tx := sampleTransaction()
	tx.Kind = models.TransactionKindConvert
	tx.Status = models.TransactionStatusPending
	tx.DepositEvents = []models.NotificationEvent{{
		SchemaVersion: 1, ExternalID: "CPDEP1", StatusCode: 100,
		Amount: decimal.RequireFromString("12.5"), Currency: "LTCT", RawPayload: "txn_id=CPDEP1&status=100",
		ReceivedAt: tx.CreatedAt,
	}}
	tx.ConversionInvoice = &models.Invoice{ExternalID: "CPCONV1", Amount: decimal.RequireFromString("12.5"), FromCurrency: "LTCT", ToCurrency: "ETH"}
	tx.Version = 3

	mock.ExpectQuery(regexp.QuoteMeta("WHERE deposit_external_id = $1 OR conversion_external_id = $1")).
		WithArgs("CPCONV1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(rowFor(t, tx)...))

	got, err := repo.FindByExternalID(context.Background(), "CPCONV1")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tx.ID, got.ID)
	assert.Equal(t, models.TransactionKindConvert, got.Kind)
	assert.Equal(t, models.TransactionStatusPending, got.Status)
	assert.Equal(t, "CPDEP1", got.DepositInvoice.ExternalID)
	require.Len(t, got.DepositEvents, 1)
	assert.Equal(t, 100, got.DepositEvents[0].StatusCode)
	assert.True(t, got.DepositEvents[0].Amount.Equal(decimal.RequireFromString("12.5")))
	require.NotNil(t, got.ConversionInvoice)
	assert.Equal(t, "CPCONV1", got.ConversionInvoice.ExternalID)
	assert.Equal(t, "CPCONV1", got.ActiveExternalID())
	assert.NotNil(t, got.ConversionEvents)
	assert.Equal(t, int64(3), got.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByExternalID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepository(&models.Config{}, db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM gateway_transactions")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.FindByExternalID(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindByExternalID_UnknownStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepository(&models.Config{}, db)

	tx := sampleTransaction()
	tx.Status = "refunded"

	mock.ExpectQuery(regexp.QuoteMeta("FROM gateway_transactions")).
		WithArgs("CPDEP1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(rowFor(t, tx)...))

	got, err := repo.FindByExternalID(context.Background(), "CPDEP1")

	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestSave_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepository(&models.Config{}, db)

	tx := sampleTransaction()
	tx.Kind = models.TransactionKindConvert
	tx.Status = models.TransactionStatusPending
	tx.ConversionInvoice = &models.Invoice{ExternalID: "CPCONV1"}
	tx.Version = 4

	mock.ExpectExec(regexp.QuoteMeta("UPDATE gateway_transactions")).
		WithArgs("convert", "pending", sql.NullString{String: "CPCONV1", Valid: true},
			"[]", sqlmock.AnyArg(), "[]", int64(4), tx.UpdatedAt, tx.ID, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), tx, 3)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_VersionConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepository(&models.Config{}, db)

	tx := sampleTransaction()
	tx.Version = 2

	mock.ExpectExec(regexp.QuoteMeta("UPDATE gateway_transactions")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Save(context.Background(), tx, 1)

	assert.ErrorIs(t, err, gateway.ErrVersionConflict)
}

func TestSave_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepository(&models.Config{}, db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE gateway_transactions")).
		WillReturnError(assert.AnError)

	err := repo.Save(context.Background(), sampleTransaction(), 1)

	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, gateway.ErrVersionConflict)
}

func TestListByOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepository(&models.Config{}, db)

	newer := sampleTransaction()
	older := sampleTransaction()
	older.OwnerID = newer.OwnerID
	older.CreatedAt = newer.CreatedAt.Add(-time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs(newer.OwnerID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(rowFor(t, newer)...).
			AddRow(rowFor(t, older)...))

	txs, err := repo.ListByOwner(context.Background(), newer.OwnerID)

	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, newer.ID, txs[0].ID)
	assert.Equal(t, older.ID, txs[1].ID)
	assert.Nil(t, txs[0].ConversionInvoice)
}

func TestListByOwner_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTransactionRepository(&models.Config{}, db)
	ownerID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM gateway_transactions")).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows(columns))

	txs, err := repo.ListByOwner(context.Background(), ownerID)

	require.NoError(t, err)
	assert.NotNil(t, txs)
	assert.Empty(t, txs)
}
