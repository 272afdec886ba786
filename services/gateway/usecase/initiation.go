package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/piresc/coingate/internal/pkg/logger"
	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/piresc/coingate/internal/utils"
	"github.com/piresc/coingate/services/gateway"
	"github.com/shopspring/decimal"
)

var currencyCode = regexp.MustCompile(`^[A-Z0-9.]{2,10}$`)

// Initiate creates a deposit invoice at the processor and persists a started Buy transaction.
// Nothing is written when the processor call fails.
func (uc *gatewayUC) Initiate(
	ctx context.Context,
	owner models.Owner,
	sourceAmount decimal.Decimal,
	sourceCurrency, targetCurrency string,
) (*models.Transaction, error) {
	sourceCurrency = strings.ToUpper(strings.TrimSpace(sourceCurrency))
	targetCurrency = strings.ToUpper(strings.TrimSpace(targetCurrency))

	if err := uc.validateInitiation(owner, sourceAmount, sourceCurrency, targetCurrency); err != nil {
		logger.WarnCtx(ctx, "Rejected transaction initiation",
			logger.String("owner_id", owner.ID.String()),
			logger.Err(err),
		)
		return nil, err
	}

	invoice, err := uc.processorGW.CreateDepositInvoice(ctx, sourceAmount, sourceCurrency, targetCurrency, owner.Email)
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to create deposit invoice",
			logger.String("owner_id", owner.ID.String()),
			logger.String("source_currency", sourceCurrency),
			logger.String("target_currency", targetCurrency),
			logger.Err(err),
		)
		return nil, upstreamError("create deposit invoice", err)
	}

	now := uc.now()
	tx := &models.Transaction{
		ID:               uuid.New(),
		OwnerID:          owner.ID,
		OwnerEmail:       owner.Email,
		PayoutAddress:    owner.PayoutAddress,
		Kind:             models.TransactionKindBuy,
		Status:           models.TransactionStatusStarted,
		DepositInvoice:   *invoice,
		DepositEvents:    []models.NotificationEvent{},
		ConversionEvents: []models.NotificationEvent{},
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.txRepo.Create(ctx, tx); err != nil {
		logger.ErrorCtx(ctx, "Failed to persist transaction",
			logger.String("transaction_id", tx.ID.String()),
			logger.String("external_id", invoice.ExternalID),
			logger.Err(err),
		)
		return nil, fmt.Errorf("failed to persist transaction: %w", err)
	}

	logger.InfoCtx(ctx, "Transaction started",
		logger.String("transaction_id", tx.ID.String()),
		logger.String("external_id", invoice.ExternalID),
		logger.String("amount", sourceAmount.String()),
		logger.String("source_currency", sourceCurrency),
		logger.String("target_currency", targetCurrency),
		logger.String("owner_email", utils.MaskEmail(owner.Email)),
		logger.String("payout_address", utils.MaskAddress(owner.PayoutAddress)),
	)

	uc.publishUpdate(ctx, tx)
	return tx, nil
}

func (uc *gatewayUC) validateInitiation(owner models.Owner, amount decimal.Decimal, sourceCurrency, targetCurrency string) error {
	if owner.ID == uuid.Nil {
		return fmt.Errorf("%w: owner is required", gateway.ErrInvalidRequest)
	}
	if strings.TrimSpace(owner.PayoutAddress) == "" {
		return fmt.Errorf("%w: owner has no payout address", gateway.ErrInvalidRequest)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", gateway.ErrInvalidRequest)
	}
	for _, code := range []string{sourceCurrency, targetCurrency} {
		if !currencyCode.MatchString(code) {
			return fmt.Errorf("%w: malformed currency code %q", gateway.ErrInvalidRequest, code)
		}
		if !uc.currencySupported(code) {
			return fmt.Errorf("%w: unsupported currency %s", gateway.ErrInvalidRequest, code)
		}
	}
	return nil
}

// currencySupported accepts everything when no allowlist is configured
func (uc *gatewayUC) currencySupported(code string) bool {
	if len(uc.cfg.Gateway.SupportedCurrencies) == 0 {
		return true
	}
	for _, c := range uc.cfg.Gateway.SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}
