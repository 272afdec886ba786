package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/piresc/coingate/internal/pkg/logger"
	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/piresc/coingate/services/gateway"
)

// ListTransactions returns the owner's transactions, newest first
func (uc *gatewayUC) ListTransactions(ctx context.Context, ownerID uuid.UUID) ([]*models.Transaction, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner is required", gateway.ErrInvalidRequest)
	}

	txs, err := uc.txRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}
	return txs, nil
}

// ListRates serves the processor rate table from cache when possible
func (uc *gatewayUC) ListRates(ctx context.Context) (models.Rates, error) {
	if uc.ratesCache != nil {
		rates, err := uc.ratesCache.GetRates(ctx)
		if err != nil {
			logger.WarnCtx(ctx, "Failed to read cached rates", logger.Err(err))
		} else if rates != nil {
			return rates, nil
		}
	}

	rates, err := uc.processorGW.ListRates(ctx)
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to fetch rates", logger.Err(err))
		return nil, upstreamError("list rates", err)
	}

	if uc.ratesCache != nil && uc.cfg.Gateway.RatesTTL > 0 {
		if err := uc.ratesCache.SetRates(ctx, rates, uc.cfg.Gateway.RatesTTL); err != nil {
			logger.WarnCtx(ctx, "Failed to cache rates", logger.Err(err))
		}
	}
	return rates, nil
}
