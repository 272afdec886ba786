package requestcontext

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey type for context keys to avoid collisions
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"
	// OwnerKey is the context key for the authenticated owner
	OwnerKey ContextKey = "owner"
)

// Echo context keys set by the JWT middleware
const (
	EchoOwnerID       = "owner_id"
	EchoOwnerEmail    = "owner_email"
	EchoPayoutAddress = "payout_address"
)

// Owner is the authenticated caller of a request
type Owner struct {
	ID            uuid.UUID
	Email         string
	PayoutAddress string
}

// WithRequestID stores id in ctx, generating one when empty
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.New().String()
	}
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID extracts the request ID from ctx
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		return reqID
	}
	return ""
}

// WithOwner stores the authenticated owner in ctx
func WithOwner(ctx context.Context, owner Owner) context.Context {
	return context.WithValue(ctx, OwnerKey, owner)
}

// OwnerFrom extracts the authenticated owner from ctx
func OwnerFrom(ctx context.Context) (Owner, bool) {
	owner, ok := ctx.Value(OwnerKey).(Owner)
	return owner, ok
}

// OwnerFromEcho reads the owner placed on the echo context by the JWT middleware
func OwnerFromEcho(c echo.Context) (Owner, bool) {
	if owner, ok := OwnerFrom(c.Request().Context()); ok {
		return owner, true
	}

	raw, ok := c.Get(EchoOwnerID).(string)
	if !ok {
		return Owner{}, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return Owner{}, false
	}

	owner := Owner{ID: id}
	owner.Email, _ = c.Get(EchoOwnerEmail).(string)
	owner.PayoutAddress, _ = c.Get(EchoPayoutAddress).(string)
	return owner, true
}
