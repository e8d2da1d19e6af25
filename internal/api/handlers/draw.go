// Package handlers implements HTTP handlers for the rexlibris API.
package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rexlibris/rexlibris/internal/primo"
)

// Drawer hands out random records from the warm pool.
type Drawer interface {
	Draw(ctx context.Context, n int) []primo.Summary
}

// DrawHandler handles random record draws.
type DrawHandler struct {
	drawer Drawer
}

// NewDrawHandler creates a new DrawHandler.
func NewDrawHandler(d Drawer) *DrawHandler {
	return &DrawHandler{drawer: d}
}

// DrawInput is the request body for the draw endpoint.
type DrawInput struct {
	Body struct {
		Count int `json:"count,omitempty" minimum:"1" maximum:"20" doc:"Number of random records to draw (default 1)" example:"3"`
	}
}

// DrawOutput is the response body for the draw endpoint.
type DrawOutput struct {
	Body struct {
		Records []primo.Summary `json:"records" doc:"Randomly drawn catalogue records"`
		Count   int             `json:"count" doc:"Number of records returned; may be fewer than requested"`
	}
}

// Draw returns up to count random records from the pool. A draw may block
// briefly for one synchronous fill when the pool is cold; it returns fewer
// records than requested when the catalogue yields little.
func (h *DrawHandler) Draw(ctx context.Context, input *DrawInput) (*DrawOutput, error) {
	n := input.Body.Count
	if n <= 0 {
		n = 1
	}

	records := h.drawer.Draw(ctx, n)

	out := &DrawOutput{}
	out.Body.Records = records
	out.Body.Count = len(records)
	return out, nil
}

// RegisterDrawRoutes registers draw endpoints with the Huma API.
func RegisterDrawRoutes(api huma.API, h *DrawHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "draw-records",
		Method:      http.MethodPost,
		Path:        "/api/v1/draw",
		Summary:     "Draw random records",
		Description: "Removes up to count random records from the warm pool and returns them.",
		Tags:        []string{"pool"},
	}, h.Draw)
}
