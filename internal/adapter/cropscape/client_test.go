package cropscape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/geo"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/observability"
)

const cdlEnvelope = `<?xml version="1.0"?><ns1:GetCDLValueResponse><Result>{x: -512867.3, y: 1300543.8, value: %d, category: "%s", color: "%s"}</Result></ns1:GetCDLValueResponse>`

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	p, err := geo.NewProjector()
	require.NoError(t, err)
	return NewClient(baseURL, 5*time.Second, p, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCropAt_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/GetCDLValue", r.URL.Path)
		assert.Equal(t, "2023", r.URL.Query().Get("year"))

		// The request must carry projected Albers meters, not degrees.
		x, err := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
		require.NoError(t, err)
		y, err := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
		require.NoError(t, err)
		assert.Less(t, x, -100000.0, "Lubbock is well west of the 96W central meridian")
		assert.Greater(t, y, 100000.0)

		fmt.Fprintf(w, cdlEnvelope, 2, "Cotton", "#FF2626")
	}))
	defer srv.Close()

	obs, err := testClient(t, srv.URL).CropAt(context.Background(), 33.58, -101.85, 2023)
	require.NoError(t, err)

	assert.Equal(t, 2023, obs.Year)
	assert.Equal(t, 2, obs.Code)
	assert.Equal(t, "Cotton", obs.Category)
	assert.Equal(t, "#FF2626", obs.Color)
	assert.True(t, obs.Cultivated)
}

func TestCropAt_UnknownCodeFallsBackToResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, cdlEnvelope, 999, "Experimental Class", "#ABCDEF")
	}))
	defer srv.Close()

	obs, err := testClient(t, srv.URL).CropAt(context.Background(), 33.58, -101.85, 2023)
	require.NoError(t, err)

	assert.Equal(t, 999, obs.Code)
	assert.Equal(t, "Experimental Class", obs.Category)
	assert.Equal(t, "#ABCDEF", obs.Color)
	assert.False(t, obs.Cultivated)
}

func TestCropAt_NoValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<Error>point outside coverage</Error>`))
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL).CropAt(context.Background(), 33.58, -101.85, 2023)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no value in response")
}

func TestHistory_SkipsFailedYears(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("year") == "2021" {
			http.Error(w, "no data", http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, cdlEnvelope, 1, "Corn", "#FFD300")
	}))
	defer srv.Close()

	obs, err := testClient(t, srv.URL).History(context.Background(), 42.03, -93.62, []int{2021, 2022, 2023})
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, 2022, obs[0].Year)
	assert.Equal(t, "Corn", obs[0].Category)
}

func TestHistory_AllYearsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL).History(context.Background(), 42.03, -93.62, []int{2022, 2023})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cdl history")
}

func TestLegend(t *testing.T) {
	entries := Legend()
	require.NotEmpty(t, entries)

	// Ordered by code.
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Code, entries[i].Code)
	}

	corn, ok := LookupCode(1)
	require.True(t, ok)
	assert.Equal(t, "Corn", corn.Category)
	assert.Equal(t, "#FFD300", corn.Color)
	assert.True(t, corn.Cultivated)

	water, ok := LookupCode(111)
	require.True(t, ok)
	assert.False(t, water.Cultivated)

	_, ok = LookupCode(999)
	assert.False(t, ok)
}
