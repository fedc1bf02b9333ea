package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	h "campusevents/internal/delivery/http/helpers"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthStatus is the data payload of GET /health.
type HealthStatus struct {
	Status    string            `json:"status"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

type HealthController struct {
	Logger  *slog.Logger
	Checks  map[string]Pinger
	Started time.Time
	Timeout time.Duration
}

// NewHealthController returns a HealthController that pings every check on each request.
func NewHealthController(logger *slog.Logger, checks map[string]Pinger) *HealthController {
	return &HealthController{Logger: logger, Checks: checks, Started: time.Now(), Timeout: 2 * time.Second}
}

// Health godoc
// @Summary Service health
// @Description Reports ok with 200 when every dependency answers, degraded with 503 otherwise.
// @Tags health
// @Produce json
// @Success 200 {object} helpers.SuccessResponse "data is a HealthStatus"
// @Failure 503 {object} helpers.SuccessResponse "data is a HealthStatus"
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.Timeout)
	defer cancel()

	status := HealthStatus{Status: "ok", Checks: make(map[string]string, len(c.Checks))}
	code := http.StatusOK
	for name, p := range c.Checks {
		if err := p.PingContext(ctx); err != nil {
			c.Logger.WarnContext(ctx, "health check failed", "check", name, "err", err)
			status.Checks[name] = "down"
			status.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		status.Checks[name] = "up"
	}
	now := time.Now()
	status.Uptime = now.Sub(c.Started).Round(time.Second).String()
	status.Timestamp = now.UTC()
	h.WriteJSON(w, code, h.SuccessResponse{
		Success:   code == http.StatusOK,
		Message:   "service is " + status.Status,
		Data:      status,
		Timestamp: status.Timestamp,
	})
}
