package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/piresc/coingate/internal/pkg/logger"
	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/piresc/coingate/services/gateway"
)

// publishUpdate is best effort; a failed publish never fails the persisted change
func (uc *gatewayUC) publishUpdate(ctx context.Context, tx *models.Transaction) {
	if uc.eventGW == nil {
		return
	}

	externalID := tx.ActiveExternalID()
	if externalID == "" {
		externalID = tx.DepositInvoice.ExternalID
	}

	update := models.TransactionUpdate{
		TransactionID: tx.ID,
		OwnerID:       tx.OwnerID,
		Kind:          tx.Kind,
		Status:        tx.Status,
		ExternalID:    externalID,
		Version:       tx.Version,
		Timestamp:     tx.UpdatedAt,
	}
	if err := uc.eventGW.PublishTransactionUpdate(ctx, update); err != nil {
		logger.WarnCtx(ctx, "Failed to publish transaction update",
			logger.String("transaction_id", tx.ID.String()),
			logger.Err(err),
		)
	}
}

// upstreamError makes sure every processor failure matches ErrUpstreamUnavailable
func upstreamError(op string, err error) error {
	if errors.Is(err, gateway.ErrUpstreamUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, gateway.ErrUpstreamUnavailable, err)
}
