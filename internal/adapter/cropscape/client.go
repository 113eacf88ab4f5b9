// Package cropscape fetches per-point crop classifications from the USDA
// NASS CropScape CDL value service.
package cropscape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/geo"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/observability"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/soil"
)

var (
	// The GetCDLValue service wraps a JSON-ish Result string in an XML
	// envelope, with unquoted keys:
	//   <Result>{x: -10190.6, y: 1693550.9, value: 2, category: "Cotton", color: "#FF2626"}</Result>
	// The fields are pulled out with regexes rather than an XML+JSON parse.
	valueRe    = regexp.MustCompile(`value:\s*"?(\d+)"?`)
	categoryRe = regexp.MustCompile(`category:\s*"([^"]*)"`)
	colorRe    = regexp.MustCompile(`color:\s*"(#[0-9A-Fa-f]{6})"`)
)

// Client queries the CropScape CDLService for crop values at a point.
type Client struct {
	baseURL    string // e.g. https://nassgeodata.gmu.edu/axis2/services/CDLService
	httpClient *http.Client
	projector  *geo.Projector
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a CropScape client. The projector converts WGS-84 input
// to the EPSG:5070 Albers meters the service requires.
func NewClient(baseURL string, timeout time.Duration, projector *geo.Projector, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		projector:  projector,
		metrics:    metrics,
		logger:     logger,
	}
}

// CropAt returns the CDL classification for one year at a WGS-84 point.
// Category, color, and the cultivated flag come from the legend table when
// the code is known, falling back to whatever the service reported.
func (c *Client) CropAt(ctx context.Context, lat, lon float64, year int) (soil.CropObservation, error) {
	x, y, err := c.projector.ToAlbers(lat, lon)
	if err != nil {
		return soil.CropObservation{}, err
	}

	params := url.Values{
		"year": {strconv.Itoa(year)},
		"x":    {strconv.FormatFloat(x, 'f', 1, 64)},
		"y":    {strconv.FormatFloat(y, 'f', 1, 64)},
	}
	u := c.baseURL + "/GetCDLValue?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return soil.CropObservation{}, fmt.Errorf("create cropscape request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues("cropscape").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("cropscape", "error").Inc()
		return soil.CropObservation{}, fmt.Errorf("cropscape request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("cropscape", "error").Inc()
		return soil.CropObservation{}, fmt.Errorf("read cropscape response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues("cropscape", "error").Inc()
		return soil.CropObservation{}, fmt.Errorf("cropscape error: status %d: %s", resp.StatusCode, body)
	}

	obs, err := parseResult(string(body), year)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("cropscape", "empty").Inc()
		return soil.CropObservation{}, err
	}
	c.metrics.UpstreamRequests.WithLabelValues("cropscape", "success").Inc()
	return obs, nil
}

// History fetches the classification for each of the given years. Years that
// fail (the CDL does not cover every state every year) are logged and
// skipped; an error is returned only when no year succeeds.
func (c *Client) History(ctx context.Context, lat, lon float64, years []int) ([]soil.CropObservation, error) {
	var observations []soil.CropObservation
	var lastErr error
	for _, year := range years {
		obs, err := c.CropAt(ctx, lat, lon, year)
		if err != nil {
			c.logger.Warn("cdl year lookup failed", "year", year, "lat", lat, "lon", lon, "error", err)
			lastErr = err
			continue
		}
		observations = append(observations, obs)
	}
	if len(observations) == 0 && lastErr != nil {
		return nil, fmt.Errorf("cdl history: %w", lastErr)
	}
	return observations, nil
}

// parseResult extracts the pixel value from the service's pseudo-JSON Result
// payload and resolves it against the legend.
func parseResult(body string, year int) (soil.CropObservation, error) {
	m := valueRe.FindStringSubmatch(body)
	if m == nil {
		return soil.CropObservation{}, fmt.Errorf("cropscape: no value in response: %s", truncate(body, 120))
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return soil.CropObservation{}, fmt.Errorf("cropscape: bad value %q", m[1])
	}

	obs := soil.CropObservation{Year: year, Code: code}
	if entry, ok := LookupCode(code); ok {
		obs.Category = entry.Category
		obs.Color = entry.Color
		obs.Cultivated = entry.Cultivated
		return obs, nil
	}
	if m := categoryRe.FindStringSubmatch(body); m != nil {
		obs.Category = m[1]
	}
	if m := colorRe.FindStringSubmatch(body); m != nil {
		obs.Color = m[1]
	}
	return obs, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
