package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdhwiz/brickwatch/internal/registry"
	"github.com/jdhwiz/brickwatch/internal/report"
	"github.com/jdhwiz/brickwatch/internal/stock"
)

func testHandlers() (*Handlers, *report.Store) {
	store := report.NewStore()
	targets := []registry.Target{
		{URL: "https://www.lego.com/en-us/product/titanic-10294", Position: 1},
	}
	return NewHandlers(store, targets), store
}

func TestGetHealth(t *testing.T) {
	h, _ := testHandlers()
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["targets"])
}

func TestGetReport(t *testing.T) {
	h, store := testHandlers()
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	// Before any run: 404.
	resp, err := http.Get(srv.URL + "/api/v1/report")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	rep := report.New()
	rep.Append(report.Outcome{
		Target: registry.Target{URL: "https://x/a", Position: 1},
		State:  stock.StateAvailable,
	})
	rep.Finish()
	store.Set(rep)

	resp, err = http.Get(srv.URL + "/api/v1/report")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got report.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, rep.ID, got.ID)
	require.Len(t, got.Outcomes, 1)
	assert.Equal(t, stock.StateAvailable, got.Outcomes[0].State)
}

func TestGetTargets(t *testing.T) {
	h, _ := testHandlers()
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/targets")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []registry.Target
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Position)
}
