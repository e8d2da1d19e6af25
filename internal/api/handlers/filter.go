package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// FilterSetter switches the pool's material type filter.
type FilterSetter interface {
	SetMaterialType(t string) error
}

// FilterHandler handles material type filter changes.
type FilterHandler struct {
	setter FilterSetter
}

// NewFilterHandler creates a new FilterHandler.
func NewFilterHandler(s FilterSetter) *FilterHandler {
	return &FilterHandler{setter: s}
}

// FilterInput is the request body for the filter endpoint.
type FilterInput struct {
	Body struct {
		MaterialType string `json:"material_type" doc:"Material type filter; empty clears the filter" example:"book"`
	}
}

// FilterOutput is the response body for the filter endpoint.
type FilterOutput struct {
	Body struct {
		Status       string `json:"status" example:"filter set" doc:"Result of the change"`
		MaterialType string `json:"material_type,omitempty" doc:"Active filter after the change"`
	}
}

// SetFilter changes the active material type. Changing the filter discards
// everything buffered for the previous one and starts a pre-fetch.
func (h *FilterHandler) SetFilter(_ context.Context, input *FilterInput) (*FilterOutput, error) {
	t := input.Body.MaterialType

	if err := h.setter.SetMaterialType(t); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	out := &FilterOutput{}
	out.Body.MaterialType = t
	if t == "" {
		out.Body.Status = "filter cleared"
	} else {
		out.Body.Status = "filter set"
	}
	return out, nil
}

// RegisterFilterRoutes registers filter endpoints with the Huma API.
func RegisterFilterRoutes(api huma.API, h *FilterHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "set-filter",
		Method:      http.MethodPut,
		Path:        "/api/v1/filter",
		Summary:     "Set material type filter",
		Description: "Sets or clears the material type filter; changing it invalidates the buffered pool.",
		Tags:        []string{"pool"},
		Errors:      []int{http.StatusBadRequest},
	}, h.SetFilter)
}
