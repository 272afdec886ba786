package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	httpclient "github.com/piresc/coingate/internal/pkg/http"
	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/piresc/coingate/internal/pkg/retry"
	gatewaysvc "github.com/piresc/coingate/services/gateway"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPublicKey  = "pub-key"
	testPrivateKey = "priv-key"
)

// newProcessorServer verifies the signature of every call before handing the form to handle
func newProcessorServer(t *testing.T, handle func(w http.ResponseWriter, form url.Values)) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, Sign(testPrivateKey, string(body)), r.Header.Get("HMAC"))

		form, err := url.ParseQuery(string(body))
		require.NoError(t, err)
		assert.Equal(t, "1", form.Get("version"))
		assert.Equal(t, testPublicKey, form.Get("key"))
		assert.Equal(t, "json", form.Get("format"))

		handle(w, form)
	}))
}

func newTestGateway(serverURL string) *CoinPaymentsGateway {
	cfg := models.CoinPaymentsConfig{
		APIURL:     serverURL,
		PublicKey:  testPublicKey,
		PrivateKey: testPrivateKey,
		Timeout:    time.Second,
	}
	client := httpclient.NewClient(nil, time.Second,
		httpclient.WithRetrier(retry.New(retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond, Multiplier: 1}, nil)))
	return NewCoinPaymentsGateway(cfg, client, nil)
}

func TestSign(t *testing.T) {
	assert.Equal(t,
		"b42af09057bac1e2d41708e48a902e09b5ff7f12ab428a4fe86653c73dd248fb82f948a549f7b791a5b41915ee4d1ec3935357e4e2317250d0372afa2ebeeb3a",
		Sign("key", "The quick brown fox jumps over the lazy dog"))
	assert.NotEqual(t, Sign("a", "body"), Sign("b", "body"))
}

func TestCreateDepositInvoice_Success(t *testing.T) {
	server := newProcessorServer(t, func(w http.ResponseWriter, form url.Values) {
		assert.Equal(t, "create_transaction", form.Get("cmd"))
		assert.Equal(t, "0.5", form.Get("amount"))
		assert.Equal(t, "ETH", form.Get("currency1"))
		assert.Equal(t, "LTCT", form.Get("currency2"))
		assert.Equal(t, "buyer@example.com", form.Get("buyer_email"))
		w.Write([]byte(`{"error":"ok","result":{"amount":"12.34000000","txn_id":"CPDEP1","address":"mAddr",
			"confirms_needed":"3","timeout":9000,"status_url":"https://cp/status","qrcode_url":"https://cp/qr"}}`))
	})
	defer server.Close()

	gw := newTestGateway(server.URL)
	invoice, err := gw.CreateDepositInvoice(context.Background(), decimal.RequireFromString("0.5"), "ETH", "LTCT", "buyer@example.com")

	require.NoError(t, err)
	assert.Equal(t, "CPDEP1", invoice.ExternalID)
	assert.Equal(t, "mAddr", invoice.Address)
	assert.True(t, decimal.RequireFromString("12.34").Equal(invoice.Amount))
	assert.Equal(t, "ETH", invoice.FromCurrency)
	assert.Equal(t, "LTCT", invoice.ToCurrency)
	assert.Equal(t, 3, invoice.ConfirmsNeeded)
	assert.Equal(t, 9000, invoice.TimeoutSeconds)
	assert.Equal(t, "https://cp/status", invoice.StatusURL)
	assert.Equal(t, "https://cp/qr", invoice.QRCodeURL)
}

func TestCreateDepositInvoice_Rejected(t *testing.T) {
	server := newProcessorServer(t, func(w http.ResponseWriter, form url.Values) {
		w.Write([]byte(`{"error":"Invalid currency","result":[]}`))
	})
	defer server.Close()

	gw := newTestGateway(server.URL)
	invoice, err := gw.CreateDepositInvoice(context.Background(), decimal.NewFromInt(1), "ETH", "XXX", "")

	assert.Nil(t, invoice)
	assert.ErrorIs(t, err, gatewaysvc.ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, gatewaysvc.ErrUpstreamRejected)
	assert.Contains(t, err.Error(), "Invalid currency")
}

func TestCreateDepositInvoice_NotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	gw := newTestGateway(server.URL)
	_, err := gw.CreateDepositInvoice(context.Background(), decimal.NewFromInt(1), "ETH", "LTCT", "")

	assert.ErrorIs(t, err, gatewaysvc.ErrUpstreamUnavailable)
	assert.False(t, errors.Is(err, gatewaysvc.ErrUpstreamRejected))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCreateDepositInvoice_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>maintenance</html>`},
		{name: "missing txn id", body: `{"error":"ok","result":{"address":"a"}}`},
		{name: "result of wrong shape", body: `{"error":"ok","result":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestGateway(server.URL).CreateDepositInvoice(context.Background(), decimal.NewFromInt(1), "ETH", "LTCT", "")

			assert.ErrorIs(t, err, gatewaysvc.ErrUpstreamUnavailable)
			assert.False(t, errors.Is(err, gatewaysvc.ErrUpstreamRejected))
		})
	}
}

func TestCreateDepositInvoice_ClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestGateway(server.URL).CreateDepositInvoice(context.Background(), decimal.NewFromInt(1), "ETH", "LTCT", "")

	assert.ErrorIs(t, err, gatewaysvc.ErrUpstreamRejected)
}

func TestCreateConversionInvoice_Success(t *testing.T) {
	server := newProcessorServer(t, func(w http.ResponseWriter, form url.Values) {
		assert.Equal(t, "convert", form.Get("cmd"))
		assert.Equal(t, "12.34", form.Get("amount"))
		assert.Equal(t, "LTCT", form.Get("from"))
		assert.Equal(t, "ETH", form.Get("to"))
		assert.Equal(t, "0xpayout", form.Get("address"))
		w.Write([]byte(`{"error":"ok","result":{"id":"CPCONV1"}}`))
	})
	defer server.Close()

	gw := newTestGateway(server.URL)
	invoice, err := gw.CreateConversionInvoice(context.Background(), decimal.RequireFromString("12.34"), "LTCT", "ETH", "0xpayout")

	require.NoError(t, err)
	assert.Equal(t, "CPCONV1", invoice.ExternalID)
	assert.Equal(t, "0xpayout", invoice.Address)
	assert.Equal(t, "LTCT", invoice.FromCurrency)
	assert.Equal(t, "ETH", invoice.ToCurrency)
	assert.True(t, decimal.RequireFromString("12.34").Equal(invoice.Amount))
}

func TestCreateConversionInvoice_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestGateway(server.URL).CreateConversionInvoice(ctx, decimal.NewFromInt(1), "LTCT", "ETH", "0xpayout")

	assert.ErrorIs(t, err, gatewaysvc.ErrUpstreamUnavailable)
}

func TestListRates_Success(t *testing.T) {
	server := newProcessorServer(t, func(w http.ResponseWriter, form url.Values) {
		assert.Equal(t, "rates", form.Get("cmd"))
		assert.Equal(t, "1", form.Get("accepted"))
		w.Write([]byte(`{"error":"ok","result":{
			"BTC":{"is_fiat":0,"rate_btc":"1.000000000000000000000000","last_update":"1375473661","tx_fee":"0.00100000","status":"online","name":"Bitcoin","confirms":"2","can_convert":1,"accepted":1},
			"usd":{"is_fiat":1,"rate_btc":"0.00001500","last_update":"1375473661","tx_fee":"0","status":"online","name":"US Dollar","confirms":"0","can_convert":0,"accepted":0}}}`))
	})
	defer server.Close()

	rates, err := newTestGateway(server.URL).ListRates(context.Background())

	require.NoError(t, err)
	require.Len(t, rates, 2)

	btc := rates["BTC"]
	assert.Equal(t, "Bitcoin", btc.Name)
	assert.False(t, btc.IsFiat)
	assert.True(t, decimal.NewFromInt(1).Equal(btc.RateBTC))
	assert.True(t, decimal.RequireFromString("0.001").Equal(btc.TxFee))
	assert.Equal(t, 2, btc.Confirms)
	assert.True(t, btc.CanConvert)
	assert.True(t, btc.Accepted)
	assert.Equal(t, int64(1375473661), btc.LastUpdate)

	usd, ok := rates["USD"]
	require.True(t, ok)
	assert.True(t, usd.IsFiat)
	assert.False(t, usd.Accepted)
}

func TestListRates_RetriesTransientFailure(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"error":"ok","result":{"ETH":{"name":"Ether","accepted":1}}}`))
	}))
	defer server.Close()

	rates, err := newTestGateway(server.URL).ListRates(context.Background())

	require.NoError(t, err)
	assert.Contains(t, rates, "ETH")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
