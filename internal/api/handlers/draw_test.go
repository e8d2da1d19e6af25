package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexlibris/rexlibris/internal/api/handlers"
	"github.com/rexlibris/rexlibris/internal/primo"
)

// fakeDrawer implements Drawer for testing.
type fakeDrawer struct {
	summaries []primo.Summary
	gotN      int
}

func (f *fakeDrawer) Draw(_ context.Context, n int) []primo.Summary {
	f.gotN = n
	if n > len(f.summaries) {
		n = len(f.summaries)
	}
	return f.summaries[:n]
}

func TestDrawHandler(t *testing.T) {
	t.Parallel()

	summaries := []primo.Summary{
		{ID: "alma1", Title: "The Sea Around Us", Creator: "Carson, Rachel"},
		{ID: "alma2", Title: "Silent Spring", Creator: "Carson, Rachel"},
		{ID: "alma3", Title: "Unknown", Creator: "Unknown"},
	}

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantN      int
		wantCount  int
	}{
		{
			name:       "explicit count",
			body:       map[string]any{"count": 3},
			wantStatus: http.StatusOK,
			wantN:      3,
			wantCount:  3,
		},
		{
			name:       "omitted count defaults to one",
			body:       map[string]any{},
			wantStatus: http.StatusOK,
			wantN:      1,
			wantCount:  1,
		},
		{
			name:       "count above maximum rejected by validation",
			body:       map[string]any{"count": 21},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "negative count rejected by validation",
			body:       map[string]any{"count": -1},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := &fakeDrawer{summaries: summaries}
			_, api := humatest.New(t)
			handlers.RegisterDrawRoutes(api, handlers.NewDrawHandler(d))

			resp := api.Post("/api/v1/draw", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantN, d.gotN)
			assert.Contains(t, resp.Body.String(), `"count":`)
			if tt.wantCount > 0 {
				assert.Contains(t, resp.Body.String(), summaries[0].Title)
			}
		})
	}
}

func TestDrawHandlerShortPool(t *testing.T) {
	t.Parallel()

	d := &fakeDrawer{summaries: []primo.Summary{{ID: "alma1", Title: "Only One"}}}
	_, api := humatest.New(t)
	handlers.RegisterDrawRoutes(api, handlers.NewDrawHandler(d))

	resp := api.Post("/api/v1/draw", map[string]any{"count": 5})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"count":1`)
}
