package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSuccessResponse(t *testing.T) {
	c, rec := newTestContext()

	err := SuccessResponse(c, http.StatusCreated, "Transaction created", map[string]interface{}{"status": "pending"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var response Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, "Transaction created", response.Message)
	assert.Equal(t, map[string]interface{}{"status": "pending"}, response.Data)
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		call       func(echo.Context, string) error
		message    string
		wantStatus int
		wantError  string
	}{
		{"bad request", BadRequestResponse, "invalid amount", http.StatusBadRequest, "invalid amount"},
		{"unauthorized default", UnauthorizedResponse, "", http.StatusUnauthorized, "Unauthorized"},
		{"internal default", InternalServerErrorResponse, "", http.StatusInternalServerError, "Internal server error"},
		{"bad gateway default", BadGatewayResponse, "", http.StatusBadGateway, "Upstream unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext()

			require.NoError(t, tt.call(c, tt.message))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.False(t, response.Success)
			assert.Equal(t, tt.wantError, response.Error)
			assert.Equal(t, tt.wantStatus, response.Code)
		})
	}
}
