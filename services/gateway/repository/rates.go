package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/piresc/coingate/internal/pkg/constants"
	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/piresc/coingate/services/gateway"
)

// RatesCache keeps the processor rate table in Redis
type RatesCache struct {
	redisClient *redis.Client
}

var _ gateway.RatesCache = (*RatesCache)(nil)

// NewRatesCache creates a Redis backed rates cache
func NewRatesCache(redisClient *redis.Client) *RatesCache {
	return &RatesCache{redisClient: redisClient}
}

// GetRates returns the cached table, or nil on a miss
func (c *RatesCache) GetRates(ctx context.Context) (models.Rates, error) {
	data, err := c.redisClient.Get(ctx, constants.KeyRates).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached rates: %w", err)
	}

	var rates models.Rates
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, fmt.Errorf("failed to decode cached rates: %w", err)
	}
	return rates, nil
}

// SetRates stores rates for ttl
func (c *RatesCache) SetRates(ctx context.Context, rates models.Rates, ttl time.Duration) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}
	if err := c.redisClient.Set(ctx, constants.KeyRates, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache rates: %w", err)
	}
	return nil
}
