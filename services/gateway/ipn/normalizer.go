// Package ipn turns raw CoinPayments IPN bodies into models.NotificationEvent.
package ipn

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/piresc/coingate/services/gateway"
	"github.com/shopspring/decimal"
)

// fields is the flattened view of one payload; wrongType holds keys whose JSON value was not a scalar
type fields struct {
	values    map[string]string
	wrongType map[string]bool
}

// Normalize parses raw according to contentType. Anything that is not JSON is read as a urlencoded form.
func Normalize(raw []byte, contentType string, receivedAt time.Time) (*models.NotificationEvent, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty body", gateway.ErrMalformedPayload)
	}

	var (
		f   *fields
		err error
	)
	if isJSON(contentType) {
		f, err = parseJSON(raw)
	} else {
		f, err = parseForm(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrMalformedPayload, err)
	}

	externalID, err := f.required("txn_id")
	if err != nil {
		return nil, err
	}

	rawStatus, err := f.required("status")
	if err != nil {
		return nil, err
	}
	status, err := strconv.Atoi(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: status %q is not an integer", gateway.ErrMalformedPayload, rawStatus)
	}

	rawAmount, err := f.required("amount2", "amount")
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q is not a decimal", gateway.ErrMalformedPayload, rawAmount)
	}

	currency, err := f.required("currency2", "currency")
	if err != nil {
		return nil, err
	}

	return &models.NotificationEvent{
		SchemaVersion: models.NotificationSchemaVersion,
		ExternalID:    externalID,
		StatusCode:    status,
		StatusText:    f.values["status_text"],
		Amount:        amount,
		Currency:      strings.ToUpper(currency),
		IPNType:       f.values["ipn_type"],
		IPNID:         f.values["ipn_id"],
		RawPayload:    string(raw),
		ReceivedAt:    receivedAt.UTC(),
	}, nil
}

// required returns the first non-empty value among keys
func (f *fields) required(keys ...string) (string, error) {
	for _, key := range keys {
		if f.wrongType[key] {
			return "", fmt.Errorf("%w: field %s has the wrong type", gateway.ErrMalformedPayload, key)
		}
		if v := f.values[key]; v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: missing field %s", gateway.ErrMalformedPayload, keys[0])
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func parseForm(raw []byte) (*fields, error) {
	form, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, err
	}
	f := &fields{values: make(map[string]string, len(form)), wrongType: map[string]bool{}}
	for key, vals := range form {
		if len(vals) > 0 {
			f.values[key] = strings.TrimSpace(vals[0])
		}
	}
	return f, nil
}

func parseJSON(raw []byte) (*fields, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var body map[string]interface{}
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("body is not an object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON object")
	}

	f := &fields{values: make(map[string]string, len(body)), wrongType: map[string]bool{}}
	for key, v := range body {
		switch val := v.(type) {
		case string:
			f.values[key] = strings.TrimSpace(val)
		case json.Number:
			f.values[key] = val.String()
		case nil:
		default:
			f.wrongType[key] = true
		}
	}
	return f, nil
}
