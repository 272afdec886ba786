package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	httpclient "github.com/piresc/coingate/internal/pkg/http"
	"github.com/piresc/coingate/internal/pkg/logger"
	"github.com/piresc/coingate/internal/pkg/models"
	gatewaysvc "github.com/piresc/coingate/services/gateway"
	"github.com/shopspring/decimal"
)

const (
	apiVersion       = "1"
	maxResponseBytes = 1 << 20

	cmdCreateTransaction = "create_transaction"
	cmdConvert           = "convert"
	cmdRates             = "rates"
)

// CoinPaymentsGateway talks to the CoinPayments merchant API
type CoinPaymentsGateway struct {
	cfg    models.CoinPaymentsConfig
	client *httpclient.Client
	logger *logger.ZapLogger
}

// NewCoinPaymentsGateway creates a processor gateway signing every call with the merchant's private key
func NewCoinPaymentsGateway(cfg models.CoinPaymentsConfig, client *httpclient.Client, l *logger.ZapLogger) *CoinPaymentsGateway {
	if l == nil {
		l = logger.NewNopLogger()
	}
	if client == nil {
		client = httpclient.NewClient(l, cfg.Timeout)
	}
	return &CoinPaymentsGateway{cfg: cfg, client: client, logger: l}
}

var _ gatewaysvc.ProcessorGW = (*CoinPaymentsGateway)(nil)

type apiEnvelope struct {
	Error  string          `json:"error"`
	Result json.RawMessage `json:"result"`
}

// flexString accepts both JSON strings and numbers; the API mixes them freely
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		raw = ""
	}
	*f = flexString(raw)
	return nil
}

func (f flexString) Int() int {
	n, _ := strconv.Atoi(string(f))
	return n
}

func (f flexString) Int64() int64 {
	n, _ := strconv.ParseInt(string(f), 10, 64)
	return n
}

func (f flexString) Bool() bool {
	return f.Int() != 0
}

func (f flexString) Decimal() decimal.Decimal {
	d, err := decimal.NewFromString(string(f))
	if err != nil {
		return decimal.Zero
	}
	return d
}

type createTransactionResult struct {
	Amount         flexString `json:"amount"`
	TxnID          string     `json:"txn_id"`
	Address        string     `json:"address"`
	ConfirmsNeeded flexString `json:"confirms_needed"`
	Timeout        flexString `json:"timeout"`
	StatusURL      string     `json:"status_url"`
	QRCodeURL      string     `json:"qrcode_url"`
}

type convertResult struct {
	ID string `json:"id"`
}

type rateResult struct {
	IsFiat     flexString `json:"is_fiat"`
	RateBTC    flexString `json:"rate_btc"`
	LastUpdate flexString `json:"last_update"`
	TxFee      flexString `json:"tx_fee"`
	Status     string     `json:"status"`
	Name       string     `json:"name"`
	Confirms   flexString `json:"confirms"`
	CanConvert flexString `json:"can_convert"`
	Accepted   flexString `json:"accepted"`
}

// CreateDepositInvoice asks the processor for a deposit address paying sourceCurrency into targetCurrency
func (g *CoinPaymentsGateway) CreateDepositInvoice(ctx context.Context, amount decimal.Decimal, sourceCurrency, targetCurrency, buyerEmail string) (*models.Invoice, error) {
	params := url.Values{}
	params.Set("amount", amount.String())
	params.Set("currency1", sourceCurrency)
	params.Set("currency2", targetCurrency)
	if buyerEmail != "" {
		params.Set("buyer_email", buyerEmail)
	}

	var result createTransactionResult
	if err := g.call(ctx, cmdCreateTransaction, params, false, &result); err != nil {
		return nil, err
	}
	if result.TxnID == "" {
		return nil, fmt.Errorf("%w: %s response carries no txn_id", gatewaysvc.ErrUpstreamUnavailable, cmdCreateTransaction)
	}

	invoiceAmount := result.Amount.Decimal()
	if invoiceAmount.IsZero() {
		invoiceAmount = amount
	}
	return &models.Invoice{
		ExternalID:     result.TxnID,
		Address:        result.Address,
		Amount:         invoiceAmount,
		FromCurrency:   sourceCurrency,
		ToCurrency:     targetCurrency,
		ConfirmsNeeded: result.ConfirmsNeeded.Int(),
		TimeoutSeconds: result.Timeout.Int(),
		StatusURL:      result.StatusURL,
		QRCodeURL:      result.QRCodeURL,
	}, nil
}

// CreateConversionInvoice converts settled funds and sends them to address
func (g *CoinPaymentsGateway) CreateConversionInvoice(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency, address string) (*models.Invoice, error) {
	params := url.Values{}
	params.Set("amount", amount.String())
	params.Set("from", fromCurrency)
	params.Set("to", toCurrency)
	params.Set("address", address)

	var result convertResult
	if err := g.call(ctx, cmdConvert, params, false, &result); err != nil {
		return nil, err
	}
	if result.ID == "" {
		return nil, fmt.Errorf("%w: %s response carries no id", gatewaysvc.ErrUpstreamUnavailable, cmdConvert)
	}

	return &models.Invoice{
		ExternalID:   result.ID,
		Address:      address,
		Amount:       amount,
		FromCurrency: fromCurrency,
		ToCurrency:   toCurrency,
	}, nil
}

// ListRates returns the accepted currencies with their BTC rates
func (g *CoinPaymentsGateway) ListRates(ctx context.Context) (models.Rates, error) {
	params := url.Values{}
	params.Set("accepted", "1")

	var result map[string]rateResult
	if err := g.call(ctx, cmdRates, params, true, &result); err != nil {
		return nil, err
	}

	rates := make(models.Rates, len(result))
	for code, r := range result {
		rates[strings.ToUpper(code)] = models.Rate{
			Name:       r.Name,
			IsFiat:     r.IsFiat.Bool(),
			RateBTC:    r.RateBTC.Decimal(),
			TxFee:      r.TxFee.Decimal(),
			Status:     r.Status,
			Confirms:   r.Confirms.Int(),
			CanConvert: r.CanConvert.Bool(),
			Accepted:   r.Accepted.Bool(),
			LastUpdate: r.LastUpdate.Int64(),
		}
	}
	return rates, nil
}

func (g *CoinPaymentsGateway) call(ctx context.Context, cmd string, params url.Values, retryable bool, out interface{}) error {
	form := url.Values{}
	for k, v := range params {
		form[k] = v
	}
	form.Set("version", apiVersion)
	form.Set("cmd", cmd)
	form.Set("key", g.cfg.PublicKey)
	form.Set("format", "json")

	headers := map[string]string{"HMAC": Sign(g.cfg.PrivateKey, form.Encode())}
	resp, err := g.client.PostForm(ctx, g.cfg.APIURL, form, headers, retryable)
	if err != nil {
		g.logger.Error("CoinPayments call failed",
			logger.String("cmd", cmd),
			logger.Err(err))
		return fmt.Errorf("%w: %s: %w", gatewaysvc.ErrUpstreamUnavailable, cmd, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read %s response: %w", gatewaysvc.ErrUpstreamUnavailable, cmd, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: %w: %s returned HTTP %d", gatewaysvc.ErrUpstreamUnavailable, gatewaysvc.ErrUpstreamRejected, cmd, resp.StatusCode)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %w", gatewaysvc.ErrUpstreamUnavailable, cmd, err)
	}
	if envelope.Error != "ok" {
		g.logger.Warn("CoinPayments rejected call",
			logger.String("cmd", cmd),
			logger.String("error", envelope.Error))
		return fmt.Errorf("%w: %w: %s: %s", gatewaysvc.ErrUpstreamUnavailable, gatewaysvc.ErrUpstreamRejected, cmd, envelope.Error)
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s result: %w", gatewaysvc.ErrUpstreamUnavailable, cmd, err)
	}
	return nil
}

// Sign computes the hex HMAC-SHA512 of an encoded request body
func Sign(privateKey, body string) string {
	mac := hmac.New(sha512.New, []byte(privateKey))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}
