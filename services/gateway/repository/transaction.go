package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/piresc/coingate/services/gateway"
)

const transactionColumns = `
	id, owner_id, owner_email, payout_address, kind, status,
	deposit_external_id, conversion_external_id,
	deposit_invoice, deposit_events, conversion_invoice, conversion_events,
	version, created_at, updated_at`

// TransactionRepo persists gateway transactions in Postgres.
// Invoices and event sequences are stored as JSONB next to the columns used for lookups.
type TransactionRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

var _ gateway.TransactionRepo = (*TransactionRepo)(nil)

// NewTransactionRepository creates a new Postgres transaction repository
func NewTransactionRepository(cfg *models.Config, db *sqlx.DB) *TransactionRepo {
	return &TransactionRepo{
		cfg: cfg,
		db:  db,
	}
}

type transactionRow struct {
	ID                   uuid.UUID      `db:"id"`
	OwnerID              uuid.UUID      `db:"owner_id"`
	OwnerEmail           sql.NullString `db:"owner_email"`
	PayoutAddress        string         `db:"payout_address"`
	Kind                 string         `db:"kind"`
	Status               string         `db:"status"`
	DepositExternalID    string         `db:"deposit_external_id"`
	ConversionExternalID sql.NullString `db:"conversion_external_id"`
	DepositInvoice       []byte         `db:"deposit_invoice"`
	DepositEvents        []byte         `db:"deposit_events"`
	ConversionInvoice    []byte         `db:"conversion_invoice"`
	ConversionEvents     []byte         `db:"conversion_events"`
	Version              int64          `db:"version"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

// Create inserts a new transaction
func (r *TransactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	depositInvoice, err := json.Marshal(tx.DepositInvoice)
	if err != nil {
		return fmt.Errorf("failed to encode deposit invoice: %w", err)
	}
	depositEvents, conversionInvoice, conversionEvents, err := encodeMutable(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO gateway_transactions (` + transactionColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = r.db.ExecContext(ctx, query,
		tx.ID,
		tx.OwnerID,
		nullString(tx.OwnerEmail),
		tx.PayoutAddress,
		string(tx.Kind),
		string(tx.Status),
		tx.DepositInvoice.ExternalID,
		conversionExternalID(tx),
		string(depositInvoice),
		string(depositEvents),
		nullableJSON(conversionInvoice),
		string(conversionEvents),
		tx.Version,
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// FindByExternalID looks up a transaction by either leg's processor id
func (r *TransactionRepo) FindByExternalID(ctx context.Context, externalID string) (*models.Transaction, error) {
	query := `SELECT` + transactionColumns + `
		FROM gateway_transactions
		WHERE deposit_external_id = $1 OR conversion_external_id = $1
		LIMIT 1
	`

	var row transactionRow
	if err := r.db.GetContext(ctx, &row, query, externalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return row.toModel()
}

// Save writes the mutable part of tx guarded by expectedVersion.
// The deposit invoice is never rewritten.
func (r *TransactionRepo) Save(ctx context.Context, tx *models.Transaction, expectedVersion int64) error {
	depositEvents, conversionInvoice, conversionEvents, err := encodeMutable(tx)
	if err != nil {
		return err
	}

	query := `
		UPDATE gateway_transactions
		SET kind = $1, status = $2, conversion_external_id = $3,
			deposit_events = $4, conversion_invoice = $5, conversion_events = $6,
			version = $7, updated_at = $8
		WHERE id = $9 AND version = $10
	`
	result, err := r.db.ExecContext(ctx, query,
		string(tx.Kind),
		string(tx.Status),
		conversionExternalID(tx),
		string(depositEvents),
		nullableJSON(conversionInvoice),
		string(conversionEvents),
		tx.Version,
		tx.UpdatedAt,
		tx.ID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: transaction %s at version %d", gateway.ErrVersionConflict, tx.ID, expectedVersion)
	}
	return nil
}

// ListByOwner returns the owner's transactions, newest first
func (r *TransactionRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Transaction, error) {
	query := `SELECT` + transactionColumns + `
		FROM gateway_transactions
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	var rows []transactionRow
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	txs := make([]*models.Transaction, 0, len(rows))
	for i := range rows {
		tx, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func encodeMutable(tx *models.Transaction) (depositEvents, conversionInvoice, conversionEvents []byte, err error) {
	depositEvents, err = marshalEvents(tx.DepositEvents)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode deposit events: %w", err)
	}
	conversionEvents, err = marshalEvents(tx.ConversionEvents)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode conversion events: %w", err)
	}
	if tx.ConversionInvoice != nil {
		conversionInvoice, err = json.Marshal(tx.ConversionInvoice)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode conversion invoice: %w", err)
		}
	}
	return depositEvents, conversionInvoice, conversionEvents, nil
}

// marshalEvents always yields a JSON array, never null
func marshalEvents(events []models.NotificationEvent) ([]byte, error) {
	if events == nil {
		events = []models.NotificationEvent{}
	}
	return json.Marshal(events)
}

func conversionExternalID(tx *models.Transaction) sql.NullString {
	if tx.ConversionInvoice == nil {
		return sql.NullString{}
	}
	return nullString(tx.ConversionInvoice.ExternalID)
}

// nullableJSON sends SQL NULL for an absent document
func nullableJSON(doc []byte) interface{} {
	if len(doc) == 0 {
		return nil
	}
	return string(doc)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (row *transactionRow) toModel() (*models.Transaction, error) {
	tx := &models.Transaction{
		ID:            row.ID,
		OwnerID:       row.OwnerID,
		OwnerEmail:    row.OwnerEmail.String,
		PayoutAddress: row.PayoutAddress,
		Kind:          models.TransactionKind(row.Kind),
		Status:        models.TransactionStatus(row.Status),
		Version:       row.Version,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if !tx.Status.Valid() {
		return nil, fmt.Errorf("transaction %s has unknown status %q", row.ID, row.Status)
	}

	if err := json.Unmarshal(row.DepositInvoice, &tx.DepositInvoice); err != nil {
		return nil, fmt.Errorf("failed to decode deposit invoice: %w", err)
	}
	if err := unmarshalEvents(row.DepositEvents, &tx.DepositEvents); err != nil {
		return nil, fmt.Errorf("failed to decode deposit events: %w", err)
	}
	if err := unmarshalEvents(row.ConversionEvents, &tx.ConversionEvents); err != nil {
		return nil, fmt.Errorf("failed to decode conversion events: %w", err)
	}
	if len(row.ConversionInvoice) > 0 {
		var invoice models.Invoice
		if err := json.Unmarshal(row.ConversionInvoice, &invoice); err != nil {
			return nil, fmt.Errorf("failed to decode conversion invoice: %w", err)
		}
		tx.ConversionInvoice = &invoice
	}
	return tx, nil
}

func unmarshalEvents(raw []byte, dst *[]models.NotificationEvent) error {
	*dst = []models.NotificationEvent{}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
