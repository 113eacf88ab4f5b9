// Package soilweb fetches live soil-series data from the UC Davis California
// Soil Resource Lab SoilWeb API: the current OSD text for a named series and
// the series' geographic extent.
package soilweb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"

	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/observability"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/soil"
)

// Client queries the SoilWeb soil-series API.
type Client struct {
	baseURL    string // e.g. https://casoilresource.lawrence.ucdavis.edu/api
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a SoilWeb client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// SeriesRecord fetches the current OSD text for a series and runs it through
// the OSD parser, returning the enriched record. Used as the live fallback
// when a series is missing from the local lookup table.
func (c *Client) SeriesRecord(ctx context.Context, name string) (soil.SeriesRecord, error) {
	body, err := c.get(ctx, url.Values{
		"q": {"osd"},
		"s": {strings.ToUpper(strings.TrimSpace(name))},
	})
	if err != nil {
		return soil.SeriesRecord{}, err
	}

	var payload struct {
		Series string `json:"series"`
		OSD    string `json:"osd"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return soil.SeriesRecord{}, fmt.Errorf("decode soilweb response: %w", err)
	}
	if payload.OSD == "" {
		return soil.SeriesRecord{}, fmt.Errorf("soilweb: no OSD text for series %q", name)
	}

	rec, err := soil.ParseOSD([]byte(payload.OSD))
	if err != nil {
		return soil.SeriesRecord{}, fmt.Errorf("soilweb series %q: %w", name, err)
	}
	return soil.EnrichSeriesRecord(rec), nil
}

// Extent fetches the series' geographic extent as a GeoJSON geometry in
// WGS-84.
func (c *Client) Extent(ctx context.Context, name string) (Extent, error) {
	body, err := c.get(ctx, url.Values{
		"q": {"extent"},
		"s": {strings.ToUpper(strings.TrimSpace(name))},
	})
	if err != nil {
		return Extent{}, err
	}

	g, err := geojson.Decode(body)
	if err != nil {
		return Extent{}, fmt.Errorf("decode soilweb extent: %w", err)
	}
	poly, ok := g.(geom.Polygonal)
	if !ok {
		return Extent{}, fmt.Errorf("soilweb extent: unexpected geometry %T", g)
	}
	return NewExtent(poly), nil
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	u := c.baseURL + "/soil-series.php?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create soilweb request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues("soilweb").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("soilweb", "error").Inc()
		return nil, fmt.Errorf("soilweb request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("soilweb", "error").Inc()
		return nil, fmt.Errorf("read soilweb response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues("soilweb", "error").Inc()
		return nil, fmt.Errorf("soilweb error: status %d: %s", resp.StatusCode, truncate(body, 120))
	}
	c.metrics.UpstreamRequests.WithLabelValues("soilweb", "success").Inc()
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// Extent is a series' mapped geographic footprint.
type Extent struct {
	polygon geom.Polygonal
}

// NewExtent wraps an already decoded WGS-84 polygonal footprint.
func NewExtent(polygon geom.Polygonal) Extent {
	return Extent{polygon: polygon}
}

// Contains reports whether a WGS-84 point falls inside the extent.
func (e Extent) Contains(lat, lon float64) bool {
	if e.polygon == nil {
		return false
	}
	return geom.Point{X: lon, Y: lat}.Within(e.polygon) == geom.Inside
}

// Centroid returns the extent's centroid.
func (e Extent) Centroid() soil.Geo {
	if e.polygon == nil {
		return soil.Geo{}
	}
	c := e.polygon.Centroid()
	return soil.Geo{Lat: c.Y, Lon: c.X}
}
