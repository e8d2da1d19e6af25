package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rexlibris/rexlibris/internal/engine"
)

// StatusProvider reports the session snapshot.
type StatusProvider interface {
	Status() engine.Status
}

// StatusHandler handles session status requests.
type StatusHandler struct {
	provider StatusProvider
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(p StatusProvider) *StatusHandler {
	return &StatusHandler{provider: p}
}

// StatusOutput is the response body for the status endpoint.
type StatusOutput struct {
	Body engine.Status
}

// Status returns the current pool and word supply state.
func (h *StatusHandler) Status(_ context.Context, _ *struct{}) (*StatusOutput, error) {
	return &StatusOutput{Body: h.provider.Status()}, nil
}

// RegisterStatusRoutes registers status endpoints with the Huma API.
func RegisterStatusRoutes(api huma.API, h *StatusHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/v1/status",
		Summary:     "Session status",
		Description: "Returns the active library, filter, pool size, and buffered word count.",
		Tags:        []string{"pool"},
	}, h.Status)
}
