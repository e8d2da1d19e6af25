package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Refiller triggers a background pool fill.
type Refiller interface {
	Refill()
}

// RefillHandler handles manual refill triggers.
type RefillHandler struct {
	refiller Refiller
}

// NewRefillHandler creates a new RefillHandler.
func NewRefillHandler(r Refiller) *RefillHandler {
	return &RefillHandler{refiller: r}
}

// RefillOutput is the response body for the refill endpoint.
type RefillOutput struct {
	Body struct {
		Status string `json:"status" example:"refill started" doc:"Trigger result"`
	}
}

// Refill kicks a background fill. A no-op while a fill is already running
// or the pool is at target.
func (h *RefillHandler) Refill(_ context.Context, _ *struct{}) (*RefillOutput, error) {
	h.refiller.Refill()

	out := &RefillOutput{}
	out.Body.Status = "refill started"
	return out, nil
}

// RegisterRefillRoutes registers refill endpoints with the Huma API.
func RegisterRefillRoutes(api huma.API, h *RefillHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-refill",
		Method:      http.MethodPost,
		Path:        "/api/v1/refill",
		Summary:     "Trigger a background refill",
		Description: "Starts one background pool fill unless one is already in flight.",
		Tags:        []string{"pool"},
	}, h.Refill)
}
