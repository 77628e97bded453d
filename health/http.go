package health

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Register mounts /healthz, /readyz and /health on e.
func Register(e *echo.Echo, agg *Aggregator) {
	e.GET("/healthz", LivenessHandler())
	e.GET("/readyz", ReadinessHandler(agg))
	e.GET("/health", DetailedHandler(agg))
}

// LivenessHandler answers OK while the process serves requests.
func LivenessHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}
}

// ReadinessHandler answers 200 unless a check is unhealthy.
func ReadinessHandler(agg *Aggregator) echo.HandlerFunc {
	return func(c echo.Context) error {
		switch OverallStatus(agg.CheckAll(c.Request().Context())) {
		case StatusHealthy:
			return c.String(http.StatusOK, "OK")
		case StatusDegraded:
			return c.String(http.StatusOK, "DEGRADED")
		default:
			return c.String(http.StatusServiceUnavailable, "UNHEALTHY")
		}
	}
}

// Response is the JSON body of the detailed endpoint.
type Response struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Checks    map[string]CheckResponse `json:"checks,omitempty"`
}

// CheckResponse is the JSON form of one Result.
type CheckResponse struct {
	Status   string         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Duration string         `json:"duration,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// DetailedHandler reports every check as JSON.
func DetailedHandler(agg *Aggregator) echo.HandlerFunc {
	return func(c echo.Context) error {
		results := agg.CheckAll(c.Request().Context())
		status := OverallStatus(results)

		resp := Response{
			Status:    status.String(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    make(map[string]CheckResponse, len(results)),
		}
		for name, r := range results {
			check := CheckResponse{
				Status:   r.Status.String(),
				Message:  r.Message,
				Duration: r.Duration.String(),
				Details:  r.Details,
			}
			if r.Error != nil {
				check.Error = r.Error.Error()
			}
			resp.Checks[name] = check
		}

		code := http.StatusOK
		if status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, resp)
	}
}
