package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/piresc/coingate/internal/pkg/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

type stubConn struct{ connected bool }

func (s stubConn) IsConnected() bool { return s.connected }

type stubBreakers map[string]circuitbreaker.CircuitBreakerStats

func (s stubBreakers) GetCircuitBreakerStats() map[string]circuitbreaker.CircuitBreakerStats { return s }

func newTestServer(checkers map[string]HealthChecker) *echo.Echo {
	e := echo.New()
	svc := NewHealthService(nil)
	for name, c := range checkers {
		svc.AddChecker(name, c)
	}
	RegisterEnhancedHealthEndpoints(e, "gateway-service", "1.2.3", svc)
	return e
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestCheckers(t *testing.T) {
	assert.NoError(t, NewPingChecker(nil).CheckHealth(context.Background()))
	assert.NoError(t, NewPingChecker(stubPinger{}).CheckHealth(context.Background()))
	assert.Error(t, NewPingChecker(stubPinger{err: errors.New("down")}).CheckHealth(context.Background()))

	assert.NoError(t, NewNATSHealthChecker(nil).CheckHealth(context.Background()))
	assert.NoError(t, NewNATSHealthChecker(stubConn{connected: true}).CheckHealth(context.Background()))
	assert.Error(t, NewNATSHealthChecker(stubConn{}).CheckHealth(context.Background()))
}

func TestCircuitBreakerChecker(t *testing.T) {
	ctx := context.Background()
	closed := circuitbreaker.CircuitBreakerStats{State: circuitbreaker.StateClosed.String()}
	halfOpen := circuitbreaker.CircuitBreakerStats{State: circuitbreaker.StateHalfOpen.String()}
	open := circuitbreaker.CircuitBreakerStats{State: circuitbreaker.StateOpen.String()}

	assert.NoError(t, NewCircuitBreakerChecker(nil).CheckHealth(ctx))
	assert.NoError(t, NewCircuitBreakerChecker(stubBreakers{}).CheckHealth(ctx))
	assert.NoError(t, NewCircuitBreakerChecker(stubBreakers{"a": closed, "b": halfOpen}).CheckHealth(ctx))

	err := NewCircuitBreakerChecker(stubBreakers{"www.coinpayments.net": open, "b": closed, "a": open}).CheckHealth(ctx)
	require.Error(t, err)
	assert.Equal(t, "circuit breaker open: a, www.coinpayments.net", err.Error())
}

func TestDetailed_OptionalDependencyDegrades(t *testing.T) {
	e := echo.New()
	svc := NewHealthService(nil)
	svc.AddChecker("postgres", NewPingChecker(stubPinger{}))
	svc.AddOptionalChecker("coinpayments", NewCircuitBreakerChecker(stubBreakers{
		"www.coinpayments.net": {State: circuitbreaker.StateOpen.String()},
	}))
	RegisterEnhancedHealthEndpoints(e, "gateway-service", "1.2.3", svc)

	rec := get(e, "/health/detailed")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "healthy", resp.Dependencies["postgres"].Status)
	assert.Equal(t, "degraded", resp.Dependencies["coinpayments"].Status)
	assert.Contains(t, resp.Dependencies["coinpayments"].Error, "www.coinpayments.net")

	assert.Equal(t, http.StatusOK, get(e, "/health/ready").Code)
}

func TestDetailed_RequiredFailureWinsOverDegraded(t *testing.T) {
	svc := NewHealthService(nil)
	svc.AddOptionalChecker("coinpayments", NewCircuitBreakerChecker(stubBreakers{
		"www.coinpayments.net": {State: circuitbreaker.StateOpen.String()},
	}))
	svc.AddChecker("redis", NewPingChecker(stubPinger{err: errors.New("connection refused")}))

	resp := svc.CheckAllHealth(context.Background())

	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "degraded", resp.Dependencies["coinpayments"].Status)
}

func TestDetailed_Healthy(t *testing.T) {
	e := newTestServer(map[string]HealthChecker{
		"postgres": NewPingChecker(stubPinger{}),
		"nats":     NewNATSHealthChecker(stubConn{connected: true}),
	})

	rec := get(e, "/health/detailed")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "gateway-service", resp.Service)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Len(t, resp.Dependencies, 2)
}

func TestDetailed_Unhealthy(t *testing.T) {
	e := newTestServer(map[string]HealthChecker{
		"postgres": NewPingChecker(stubPinger{}),
		"redis":    NewPingChecker(stubPinger{err: errors.New("connection refused")}),
	})

	rec := get(e, "/health/detailed")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "healthy", resp.Dependencies["postgres"].Status)
	assert.Equal(t, "connection refused", resp.Dependencies["redis"].Error)

	assert.Equal(t, http.StatusServiceUnavailable, get(e, "/health/ready").Code)
}

func TestProbes(t *testing.T) {
	e := newTestServer(nil)

	assert.Equal(t, http.StatusOK, get(e, "/health").Code)
	assert.Equal(t, http.StatusOK, get(e, "/health/live").Code)
	assert.Equal(t, http.StatusOK, get(e, "/health/ready").Code)

	rec := get(e, "/ping")
	require.Equal(t, http.StatusOK, rec.Code)
	var info BuildInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "gateway-service", info.ServiceName)
	assert.Equal(t, "1.2.3", info.Version)
}
