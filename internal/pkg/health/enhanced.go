package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/coingate/internal/pkg/circuitbreaker"
	"github.com/piresc/coingate/internal/pkg/logger"
)

// HealthChecker defines the interface for health checking dependencies
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// Pinger is satisfied by the Postgres and Redis clients
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker adapts a Pinger to HealthChecker
type PingChecker struct {
	target Pinger
}

// NewPingChecker creates a checker backed by target.Ping; a nil target is always healthy
func NewPingChecker(target Pinger) *PingChecker {
	return &PingChecker{target: target}
}

// CheckHealth pings the target
func (p *PingChecker) CheckHealth(ctx context.Context) error {
	if p.target == nil {
		return nil
	}
	return p.target.Ping(ctx)
}

// ConnectionState is satisfied by the NATS client
type ConnectionState interface {
	IsConnected() bool
}

// NATSHealthChecker checks NATS connection health
type NATSHealthChecker struct {
	client ConnectionState
}

// NewNATSHealthChecker creates a new NATS health checker
func NewNATSHealthChecker(client ConnectionState) *NATSHealthChecker {
	return &NATSHealthChecker{client: client}
}

// CheckHealth reports an error while the connection is down
func (n *NATSHealthChecker) CheckHealth(ctx context.Context) error {
	if n.client == nil {
		return nil
	}
	if !n.client.IsConnected() {
		return errors.New("NATS not connected")
	}
	return nil
}

// BreakerStats is satisfied by the outbound HTTP client
type BreakerStats interface {
	GetCircuitBreakerStats() map[string]circuitbreaker.CircuitBreakerStats
}

// CircuitBreakerChecker reports an error while any upstream breaker is open
type CircuitBreakerChecker struct {
	source BreakerStats
}

// NewCircuitBreakerChecker creates a checker over the breakers of source
func NewCircuitBreakerChecker(source BreakerStats) *CircuitBreakerChecker {
	return &CircuitBreakerChecker{source: source}
}

// CheckHealth lists the open breakers
func (b *CircuitBreakerChecker) CheckHealth(ctx context.Context) error {
	if b.source == nil {
		return nil
	}
	var open []string
	for name, stats := range b.source.GetCircuitBreakerStats() {
		if stats.State == circuitbreaker.StateOpen.String() {
			open = append(open, name)
		}
	}
	if len(open) == 0 {
		return nil
	}
	sort.Strings(open)
	return fmt.Errorf("circuit breaker open: %s", strings.Join(open, ", "))
}

// HealthService manages health checks for multiple dependencies
type HealthService struct {
	checkers map[string]HealthChecker
	optional map[string]bool
	logger   *logger.ZapLogger
}

// NewHealthService creates a new health service
func NewHealthService(l *logger.ZapLogger) *HealthService {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &HealthService{
		checkers: make(map[string]HealthChecker),
		optional: make(map[string]bool),
		logger:   l,
	}
}

// AddChecker registers a health checker for a dependency
func (h *HealthService) AddChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
	delete(h.optional, name)
}

// AddOptionalChecker registers a dependency whose failure marks the service degraded, not unhealthy
func (h *HealthService) AddOptionalChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
	h.optional[name] = true
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string                    `json:"status"`
	Timestamp    time.Time                 `json:"timestamp"`
	Service      string                    `json:"service"`
	Version      string                    `json:"version,omitempty"`
	Dependencies map[string]DependencyInfo `json:"dependencies"`
}

// DependencyInfo represents health info for a dependency
type DependencyInfo struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// CheckAllHealth performs health checks on all registered dependencies
func (h *HealthService) CheckAllHealth(ctx context.Context) HealthResponse {
	response := HealthResponse{
		Status:       "healthy",
		Timestamp:    time.Now(),
		Dependencies: make(map[string]DependencyInfo),
	}

	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		err := h.checkers[name].CheckHealth(ctx)
		if err != nil && h.optional[name] {
			h.logger.Warn("Optional dependency degraded",
				logger.String("dependency", name),
				logger.Err(err))

			response.Dependencies[name] = DependencyInfo{Status: "degraded", Error: err.Error()}
			if response.Status == "healthy" {
				response.Status = "degraded"
			}
			continue
		}
		if err != nil {
			h.logger.Error("Health check failed",
				logger.String("dependency", name),
				logger.Err(err))

			response.Dependencies[name] = DependencyInfo{Status: "unhealthy", Error: err.Error()}
			response.Status = "unhealthy"
			continue
		}
		response.Dependencies[name] = DependencyInfo{Status: "healthy"}
	}

	return response
}

// BuildInfo contains information about the running binary
type BuildInfo struct {
	Version     string    `json:"version"`
	GitCommit   string    `json:"git_commit"`
	ServiceName string    `json:"service_name"`
	GoVersion   string    `json:"go_version"`
	Hostname    string    `json:"hostname"`
	ServerTime  time.Time `json:"server_time"`
}

func newBuildInfo(serviceName, version string) BuildInfo {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	if version == "" {
		version = "development"
	}
	commit := os.Getenv("GIT_COMMIT")
	if commit == "" {
		commit = "unknown"
	}
	return BuildInfo{
		Version:     version,
		GitCommit:   commit,
		ServiceName: serviceName,
		GoVersion:   runtime.Version(),
		Hostname:    hostname,
	}
}

// RegisterEnhancedHealthEndpoints registers /ping and the /health probes
func RegisterEnhancedHealthEndpoints(e *echo.Echo, serviceName, version string, healthService *HealthService) {
	buildInfo := newBuildInfo(serviceName, version)

	e.GET("/ping", func(c echo.Context) error {
		info := buildInfo
		info.ServerTime = time.Now()
		return c.JSON(http.StatusOK, info)
	})

	healthGroup := e.Group("/health")

	// load balancers
	healthGroup.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   serviceName,
			"timestamp": time.Now(),
		})
	})

	healthGroup.GET("/detailed", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		response := healthService.CheckAllHealth(ctx)
		response.Service = serviceName
		response.Version = version

		statusCode := http.StatusOK
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}

		return c.JSON(statusCode, response)
	})

	healthGroup.GET("/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()

		response := healthService.CheckAllHealth(ctx)
		response.Service = serviceName

		if response.Status == "unhealthy" {
			return c.JSON(http.StatusServiceUnavailable, response)
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ready",
			"service": serviceName,
		})
	})

	healthGroup.GET("/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "alive",
			"service": serviceName,
		})
	})
}
