package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationSchemaVersion is bumped whenever NotificationEvent changes shape
const NotificationSchemaVersion = 1

// Status code thresholds used by the processor
const (
	IPNStatusComplete = 100
	IPNStatusFailed   = 0
)

// NotificationBucket is the three-way classification of a processor status code
type NotificationBucket string

const (
	BucketPending  NotificationBucket = "pending"
	BucketFailed   NotificationBucket = "failed"
	BucketComplete NotificationBucket = "complete"
)

// BucketOf classifies a processor status code
func BucketOf(statusCode int) NotificationBucket {
	switch {
	case statusCode >= IPNStatusComplete:
		return BucketComplete
	case statusCode < IPNStatusFailed:
		return BucketFailed
	default:
		return BucketPending
	}
}

// NotificationEvent is the canonical form of one IPN delivery
type NotificationEvent struct {
	SchemaVersion int             `json:"schema_version"`
	ExternalID    string          `json:"txn_id"`
	StatusCode    int             `json:"status"`
	StatusText    string          `json:"status_text,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	IPNType       string          `json:"ipn_type,omitempty"`
	IPNID         string          `json:"ipn_id,omitempty"`
	RawPayload    string          `json:"raw_payload"`
	ReceivedAt    time.Time       `json:"received_at"`
}

// Bucket returns the bucket of the event's status code
func (e NotificationEvent) Bucket() NotificationBucket {
	return BucketOf(e.StatusCode)
}
