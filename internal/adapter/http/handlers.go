package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Check pings one backing dependency for /ready.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type Handler struct {
	gatherer prometheus.Gatherer
	checks   []Check
	started  time.Time
}

// NewHandler serves health, readiness and metrics; g backs /metrics.
func NewHandler(g prometheus.Gatherer, checks ...Check) *Handler {
	return &Handler{gatherer: g, checks: checks, started: time.Now()}
}

// Health is liveness only: it never touches a dependency.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

func (h *Handler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	code, status := http.StatusOK, "ready"
	deps := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		if err := chk.Ping(ctx); err != nil {
			deps[chk.Name] = err.Error()
			code, status = http.StatusServiceUnavailable, "not_ready"
			continue
		}
		deps[chk.Name] = "ok"
	}
	return c.JSON(code, map[string]any{"status": status, "checks": deps})
}

func (h *Handler) Metrics() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}
