package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/piresc/coingate/internal/pkg/logger"
	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/piresc/coingate/services/gateway"
)

type transitionRule struct {
	from   []models.TransactionStatus
	result models.TransactionStatus
}

func (r transitionRule) allows(status models.TransactionStatus) bool {
	for _, s := range r.from {
		if s == status {
			return true
		}
	}
	return false
}

// transitions is the complete set of status edges; anything else is rejected
var transitions = map[models.NotificationBucket]transitionRule{
	models.BucketPending: {
		from:   []models.TransactionStatus{models.TransactionStatusStarted, models.TransactionStatusPending},
		result: models.TransactionStatusPending,
	},
	models.BucketFailed: {
		from:   []models.TransactionStatus{models.TransactionStatusStarted, models.TransactionStatusPending, models.TransactionStatusFailed},
		result: models.TransactionStatusFailed,
	},
	models.BucketComplete: {
		from:   []models.TransactionStatus{models.TransactionStatusStarted, models.TransactionStatusPending, models.TransactionStatusAwaitingTokenTransfer},
		result: models.TransactionStatusComplete,
	},
}

// HandleNotification applies one IPN delivery to the transaction it correlates with.
// A completed deposit chains into the conversion leg before returning.
func (uc *gatewayUC) HandleNotification(ctx context.Context, event *models.NotificationEvent) error {
	if event == nil || event.ExternalID == "" {
		return fmt.Errorf("%w: notification has no external id", gateway.ErrMalformedPayload)
	}

	// the processor may hang up; the checkpoint sequence still runs to the end
	ctx = context.WithoutCancel(ctx)
	bucket := event.Bucket()

	unlock, err := uc.lock(ctx, event.ExternalID)
	if err != nil {
		ipnNotificationsTotal.WithLabelValues(string(bucket), outcomeError).Inc()
		logger.ErrorCtx(ctx, "Failed to acquire transaction lock",
			logger.String("external_id", event.ExternalID),
			logger.Err(err),
		)
		return fmt.Errorf("failed to lock %s: %w", event.ExternalID, err)
	}
	defer unlock()

	err = uc.handle(ctx, event)
	ipnNotificationsTotal.WithLabelValues(string(bucket), outcomeOf(err)).Inc()
	return err
}

func (uc *gatewayUC) lock(ctx context.Context, key string) (func(), error) {
	if uc.cfg.Gateway.LockTTL <= 0 {
		return uc.locker.Lock(ctx, key)
	}
	lockCtx, cancel := context.WithTimeout(ctx, uc.cfg.Gateway.LockTTL)
	defer cancel()
	return uc.locker.Lock(lockCtx, key)
}

func (uc *gatewayUC) handle(ctx context.Context, event *models.NotificationEvent) error {
	tx, chained, err := uc.apply(ctx, event)
	if err != nil {
		fields := []logger.Field{
			logger.String("external_id", event.ExternalID),
			logger.Int("status_code", event.StatusCode),
			logger.Err(err),
		}
		switch {
		case errors.Is(err, gateway.ErrTransactionNotFound), errors.Is(err, gateway.ErrInvalidStateTransition):
			logger.WarnCtx(ctx, "Notification not applied", fields...)
		default:
			logger.ErrorCtx(ctx, "Failed to apply notification", fields...)
		}
		return err
	}

	logger.InfoCtx(ctx, "Notification applied",
		logger.String("transaction_id", tx.ID.String()),
		logger.String("external_id", event.ExternalID),
		logger.String("kind", string(tx.Kind)),
		logger.String("status", string(tx.Status)),
		logger.Int64("version", tx.Version),
	)

	if !chained {
		return nil
	}
	return uc.startConversion(ctx, tx)
}

// apply runs lookup, validation and persistence, re-reading on version conflicts
func (uc *gatewayUC) apply(ctx context.Context, event *models.NotificationEvent) (*models.Transaction, bool, error) {
	for attempt := 1; attempt <= uc.cfg.Gateway.MaxApplyAttempts; attempt++ {
		current, err := uc.txRepo.FindByExternalID(ctx, event.ExternalID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load transaction: %w", err)
		}
		if current == nil {
			return nil, false, fmt.Errorf("%w: external id %s", gateway.ErrTransactionNotFound, event.ExternalID)
		}

		next, chained, err := nextState(current, event, uc.now())
		if err != nil {
			return nil, false, err
		}

		err = uc.txRepo.Save(ctx, next, current.Version)
		if errors.Is(err, gateway.ErrVersionConflict) {
			logger.WarnCtx(ctx, "Version conflict applying notification",
				logger.String("transaction_id", current.ID.String()),
				logger.Int64("expected_version", current.Version),
				logger.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to save transaction: %w", err)
		}

		uc.publishUpdate(ctx, next)
		return next, chained, nil
	}

	return nil, false, fmt.Errorf("%w: external id %s after %d attempts",
		gateway.ErrConcurrentUpdateExceeded, event.ExternalID, uc.cfg.Gateway.MaxApplyAttempts)
}

// nextState validates event against current and returns the successor record.
// chained is true when a Buy leg completed and the conversion must be started.
func nextState(current *models.Transaction, event *models.NotificationEvent, now time.Time) (next *models.Transaction, chained bool, err error) {
	if current.ActiveExternalID() != event.ExternalID {
		return nil, false, fmt.Errorf("%w: %s is not the active leg of transaction %s",
			gateway.ErrInvalidStateTransition, event.ExternalID, current.ID)
	}

	bucket := event.Bucket()
	rule, ok := transitions[bucket]
	if !ok || !rule.allows(current.Status) {
		return nil, false, fmt.Errorf("%w: %s notification for %s transaction %s",
			gateway.ErrInvalidStateTransition, bucket, current.Status, current.ID)
	}

	next = current.Clone()
	if next.Kind == models.TransactionKindBuy {
		next.DepositEvents = append(next.DepositEvents, *event)
	} else {
		next.ConversionEvents = append(next.ConversionEvents, *event)
	}
	next.Status = rule.result

	if bucket == models.BucketComplete && next.Kind == models.TransactionKindBuy {
		next.Kind = models.TransactionKindConvert
		next.Status = models.TransactionStatusStarted
		chained = true
	}

	next.Version = current.Version + 1
	next.UpdatedAt = now
	return next, chained, nil
}

// startConversion requests the conversion leg for a checkpointed transaction.
// On failure the record stays at started/convert; nothing here retries the call.
func (uc *gatewayUC) startConversion(ctx context.Context, tx *models.Transaction) error {
	deposit := tx.DepositInvoice

	callCtx, cancel := context.WithTimeout(ctx, uc.cfg.Gateway.ConversionTimeout)
	invoice, err := uc.processorGW.CreateConversionInvoice(callCtx, deposit.Amount, deposit.ToCurrency, uc.cfg.Gateway.PayoutCurrency, tx.PayoutAddress)
	cancel()
	if err != nil {
		conversionsTotal.WithLabelValues(outcomeFailed).Inc()
		logger.ErrorCtx(ctx, "Conversion request failed, transaction left for reconciliation",
			logger.String("transaction_id", tx.ID.String()),
			logger.String("deposit_external_id", deposit.ExternalID),
			logger.Duration("timeout", uc.cfg.Gateway.ConversionTimeout),
			logger.Err(err),
		)
		return upstreamError("create conversion invoice", err)
	}

	if err := uc.recordConversion(ctx, tx, invoice); err != nil {
		conversionsTotal.WithLabelValues(outcomeUnpersisted).Inc()
		logger.ErrorCtx(ctx, "Conversion created but not recorded",
			logger.String("transaction_id", tx.ID.String()),
			logger.String("conversion_external_id", invoice.ExternalID),
			logger.Err(err),
		)
		return err
	}

	conversionsTotal.WithLabelValues(outcomeSucceeded).Inc()
	logger.InfoCtx(ctx, "Conversion started",
		logger.String("transaction_id", tx.ID.String()),
		logger.String("conversion_external_id", invoice.ExternalID),
		logger.String("amount", deposit.Amount.String()),
		logger.String("from", deposit.ToCurrency),
		logger.String("to", uc.cfg.Gateway.PayoutCurrency),
	)
	return nil
}

// recordConversion moves the checkpoint to pending with the conversion invoice attached
func (uc *gatewayUC) recordConversion(ctx context.Context, checkpoint *models.Transaction, invoice *models.Invoice) error {
	current := checkpoint
	for attempt := 1; attempt <= uc.cfg.Gateway.MaxApplyAttempts; attempt++ {
		if attempt > 1 {
			reread, err := uc.txRepo.FindByExternalID(ctx, checkpoint.DepositInvoice.ExternalID)
			if err != nil {
				return fmt.Errorf("failed to reload transaction: %w", err)
			}
			if reread == nil {
				return fmt.Errorf("%w: transaction %s", gateway.ErrTransactionNotFound, checkpoint.ID)
			}
			current = reread
		}

		if current.Kind != models.TransactionKindConvert ||
			current.Status != models.TransactionStatusStarted ||
			current.ConversionInvoice != nil {
			return fmt.Errorf("%w: transaction %s left the conversion checkpoint",
				gateway.ErrInvalidStateTransition, current.ID)
		}

		next := current.Clone()
		conversion := *invoice
		next.ConversionInvoice = &conversion
		next.Status = models.TransactionStatusPending
		next.Version = current.Version + 1
		next.UpdatedAt = uc.now()

		err := uc.txRepo.Save(ctx, next, current.Version)
		if errors.Is(err, gateway.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to save conversion invoice: %w", err)
		}

		uc.publishUpdate(ctx, next)
		return nil
	}

	return fmt.Errorf("%w: recording conversion for transaction %s",
		gateway.ErrConcurrentUpdateExceeded, checkpoint.ID)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeApplied
	case errors.Is(err, gateway.ErrTransactionNotFound):
		return outcomeNotFound
	case errors.Is(err, gateway.ErrInvalidStateTransition):
		return outcomeRejected
	case errors.Is(err, gateway.ErrConcurrentUpdateExceeded):
		return outcomeConflict
	case errors.Is(err, gateway.ErrUpstreamUnavailable):
		return outcomeUpstream
	default:
		return outcomeError
	}
}
