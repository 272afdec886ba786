package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind is the leg a gateway transaction is currently on
type TransactionKind string

const (
	TransactionKindBuy     TransactionKind = "buy"
	TransactionKindConvert TransactionKind = "convert"
)

// TransactionStatus represents the status of a gateway transaction
type TransactionStatus string

const (
	TransactionStatusStarted               TransactionStatus = "started"
	TransactionStatusPending               TransactionStatus = "pending"
	TransactionStatusFailed                TransactionStatus = "failed"
	TransactionStatusComplete              TransactionStatus = "complete"
	TransactionStatusAwaitingTokenTransfer TransactionStatus = "awaiting_token_transfer"
)

// Valid reports whether s is one of the five known statuses
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusStarted, TransactionStatusPending, TransactionStatusFailed,
		TransactionStatusComplete, TransactionStatusAwaitingTokenTransfer:
		return true
	}
	return false
}

// Invoice is the processor's description of one payment or conversion request
type Invoice struct {
	ExternalID     string          `json:"txn_id"`
	Address        string          `json:"address,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	FromCurrency   string          `json:"from_currency"`
	ToCurrency     string          `json:"to_currency"`
	ConfirmsNeeded int             `json:"confirms_needed,omitempty"`
	TimeoutSeconds int             `json:"timeout,omitempty"`
	StatusURL      string          `json:"status_url,omitempty"`
	QRCodeURL      string          `json:"qrcode_url,omitempty"`
}

// Transaction is one purchase: a deposit leg followed by a conversion leg
type Transaction struct {
	ID                uuid.UUID           `json:"id"`
	OwnerID           uuid.UUID           `json:"owner_id"`
	OwnerEmail        string              `json:"owner_email,omitempty"`
	PayoutAddress     string              `json:"payout_address"`
	Kind              TransactionKind     `json:"kind"`
	Status            TransactionStatus   `json:"status"`
	DepositInvoice    Invoice             `json:"deposit_invoice"`
	DepositEvents     []NotificationEvent `json:"deposit_events"`
	ConversionInvoice *Invoice            `json:"conversion_invoice,omitempty"`
	ConversionEvents  []NotificationEvent `json:"conversion_events"`
	Version           int64               `json:"version"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// ActiveExternalID returns the correlation key of the leg currently in flight
func (t *Transaction) ActiveExternalID() string {
	if t.Kind == TransactionKindConvert {
		if t.ConversionInvoice == nil {
			return ""
		}
		return t.ConversionInvoice.ExternalID
	}
	return t.DepositInvoice.ExternalID
}

// Clone returns a deep copy so a mutation attempt never touches the read snapshot
func (t *Transaction) Clone() *Transaction {
	c := *t
	c.DepositEvents = append([]NotificationEvent(nil), t.DepositEvents...)
	c.ConversionEvents = append([]NotificationEvent(nil), t.ConversionEvents...)
	if t.ConversionInvoice != nil {
		inv := *t.ConversionInvoice
		c.ConversionInvoice = &inv
	}
	return &c
}

// Owner identifies who requested a transaction and where converted funds go
type Owner struct {
	ID            uuid.UUID
	Email         string
	PayoutAddress string
}

// TransactionUpdate is published after every persisted state change
type TransactionUpdate struct {
	TransactionID uuid.UUID         `json:"transaction_id"`
	OwnerID       uuid.UUID         `json:"owner_id"`
	Kind          TransactionKind   `json:"kind"`
	Status        TransactionStatus `json:"status"`
	ExternalID    string            `json:"external_id"`
	Version       int64             `json:"version"`
	Timestamp     time.Time         `json:"timestamp"`
}

// CreateTransactionRequest is the body of a purchase request
type CreateTransactionRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}
