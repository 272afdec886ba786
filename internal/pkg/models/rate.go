package models

import "github.com/shopspring/decimal"

// Rate describes one currency as reported by the processor
type Rate struct {
	Name       string          `json:"name"`
	IsFiat     bool            `json:"is_fiat"`
	RateBTC    decimal.Decimal `json:"rate_btc"`
	TxFee      decimal.Decimal `json:"tx_fee"`
	Status     string          `json:"status"`
	Confirms   int             `json:"confirms"`
	CanConvert bool            `json:"can_convert"`
	Accepted   bool            `json:"accepted"`
	LastUpdate int64           `json:"last_update"`
}

// Rates maps a currency code to its metadata
type Rates map[string]Rate
