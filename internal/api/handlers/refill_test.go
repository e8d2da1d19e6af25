package handlers_test

import (
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexlibris/rexlibris/internal/api/handlers"
)

// fakeRefiller implements Refiller for testing.
type fakeRefiller struct {
	called bool
}

func (f *fakeRefiller) Refill() {
	f.called = true
}

func TestRefillHandler(t *testing.T) {
	t.Parallel()

	r := &fakeRefiller{}
	_, api := humatest.New(t)
	handlers.RegisterRefillRoutes(api, handlers.NewRefillHandler(r))

	resp := api.Post("/api/v1/refill")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, r.called)
	assert.Contains(t, resp.Body.String(), "refill started")
}
