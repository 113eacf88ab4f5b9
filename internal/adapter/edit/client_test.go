package edit

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/observability"
)

const overviewJSON = `{
  "generalInformation": {
    "ecologicalSite": {"id": "R077CY022TX", "name": "Sandy Loam"}
  },
  "physiographicFeatures": {
    "narratives": {"physiography": "<p>Nearly level to gently sloping plains.</p>"}
  },
  "climaticFeatures": {
    "narratives": {"climaticFeatures": "<p>Semiarid continental climate with about 18 inches of annual precipitation.</p>"}
  },
  "ecologicalDynamics": {
    "states": [
      {"number": 1, "name": "Grassland", "narratives": {"description": "<p>Midgrass prairie dominated by blue grama.</p>"}},
      {"number": 2, "name": "Shrubland", "narratives": {"description": "<p>Mesquite invaded.</p>"}}
    ]
  }
}`

func testClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestEcoSite_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/077C/R077CY022TX/overview.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(overviewJSON))
	}))
	defer srv.Close()

	site, err := testClient(srv.URL).EcoSite(context.Background(), "077C", "R077CY022TX")
	require.NoError(t, err)

	assert.Equal(t, "R077CY022TX", site.ID)
	assert.Equal(t, "Sandy Loam", site.Name)
	assert.Equal(t, "077C", site.MLRA)
	assert.Equal(t, "Nearly level to gently sloping plains.", site.Physiography)
	assert.Contains(t, site.Climate, "Semiarid continental climate")

	require.Len(t, site.States, 2)
	assert.Equal(t, 1, site.States[0].Number)
	assert.Equal(t, "Grassland", site.States[0].Name)
	assert.Equal(t, "Midgrass prairie dominated by blue grama.", site.States[0].Narrative)
}

func TestEcoSite_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).EcoSite(context.Background(), "077C", "R077CY099TX")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "077C/R077CY099TX")
}

func TestEcoSite_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).EcoSite(context.Background(), "077C", "R077CY022TX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestCollapse(t *testing.T) {
	assert.Equal(t, "One two.", collapse("<p>One\n  two.</p>"))
	assert.Equal(t, "plain", collapse("plain"))
	assert.Equal(t, "", collapse(""))
}
