package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ReadyChecker reports whether the engine has finished starting.
type ReadyChecker interface {
	Ready() bool
}

// HealthHandler provides liveness and readiness endpoints.
type HealthHandler struct {
	checker ReadyChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(c ReadyChecker) *HealthHandler {
	return &HealthHandler{checker: c}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz returns 200 once the engine has started, 503 before.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if !h.checker.Ready() {
		return c.JSON(
			http.StatusServiceUnavailable,
			map[string]string{"status": "unavailable"},
		)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
