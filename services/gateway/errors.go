package gateway

import "errors"

var (
	ErrInvalidRequest           = errors.New("invalid request")
	ErrMalformedPayload         = errors.New("malformed payload")
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrInvalidStateTransition   = errors.New("invalid state transition")
	ErrUpstreamUnavailable      = errors.New("upstream unavailable")
	ErrUpstreamRejected         = errors.New("upstream rejected request")
	ErrVersionConflict          = errors.New("version conflict")
	ErrConcurrentUpdateExceeded = errors.New("concurrent update retries exceeded")
)
