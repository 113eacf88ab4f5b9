// Package sda queries SSURGO map unit and component attributes from the USDA
// Soil Data Access tabular service.
package sda

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/observability"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/soil"
)

// ErrNoMapUnit is returned when the point does not intersect a mapped survey area.
var ErrNoMapUnit = errors.New("no map unit at location")

// componentQuery joins mapunit and component rows for the map unit
// intersecting a WGS-84 point. SDA_Get_Mukey_from_intersection_with_WktWgs84
// is a helper function SDA exposes server-side.
const componentQuery = `SELECT mu.mukey, mu.musym, mu.muname,
 c.cokey, c.compname, c.comppct_r, c.majcompflag, c.drainagecl, c.taxclname,
 c.nirrcapcl, c.nirrcapscl, c.irrcapcl, c.irrcapscl, ce.ecoclassid
FROM mapunit mu
INNER JOIN component c ON c.mukey = mu.mukey
LEFT JOIN coecoclass ce ON ce.cokey = c.cokey AND ce.ecoclasstypename LIKE 'NRCS%%'
WHERE mu.mukey IN (SELECT * FROM SDA_Get_Mukey_from_intersection_with_WktWgs84('point(%.6f %.6f)'))
ORDER BY c.comppct_r DESC`

// Client fetches SSURGO attributes from the Soil Data Access POST endpoint.
type Client struct {
	url        string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Soil Data Access client.
func NewClient(url string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// MapUnitAt returns the SSURGO map unit and its components at a WGS-84 point.
// Returns ErrNoMapUnit when the point is outside all mapped survey areas.
func (c *Client) MapUnitAt(ctx context.Context, lat, lon float64) (soil.MapUnit, error) {
	// WKT uses lon lat order.
	query := fmt.Sprintf(componentQuery, lon, lat)

	rows, err := c.runQuery(ctx, query)
	if err != nil {
		return soil.MapUnit{}, err
	}
	if len(rows) < 2 {
		c.metrics.UpstreamRequests.WithLabelValues("sda", "empty").Inc()
		return soil.MapUnit{}, ErrNoMapUnit
	}

	return buildMapUnit(rows)
}

// runQuery posts a tabular query and returns the raw row set. With format
// JSON+COLUMNNAME the first row holds the column names.
func (c *Client) runQuery(ctx context.Context, query string) ([][]string, error) {
	payload, err := json.Marshal(map[string]string{
		"query":  query,
		"format": "JSON+COLUMNNAME",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal sda request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create sda request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues("sda").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("sda", "error").Inc()
		return nil, fmt.Errorf("sda request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues("sda", "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sda error: status %d: %s", resp.StatusCode, body)
	}

	var out struct {
		Table [][]string `json:"Table"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("sda", "error").Inc()
		return nil, fmt.Errorf("decode sda response: %w", err)
	}
	c.metrics.UpstreamRequests.WithLabelValues("sda", "success").Inc()
	return out.Table, nil
}

// buildMapUnit converts the header+data rows into a MapUnit. Capability
// fields that fail to parse are dropped rather than failing the request;
// SSURGO leaves them blank for unrated components.
func buildMapUnit(rows [][]string) (soil.MapUnit, error) {
	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.ToLower(name)] = i
	}
	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	mu := soil.MapUnit{}
	for _, row := range rows[1:] {
		if mu.Key == "" {
			mu.Key = field(row, "mukey")
			mu.Symbol = field(row, "musym")
			mu.Name = field(row, "muname")
		}

		pct, _ := strconv.Atoi(field(row, "comppct_r"))
		comp := soil.Component{
			Key:            field(row, "cokey"),
			Name:           field(row, "compname"),
			Percent:        pct,
			Major:          strings.EqualFold(field(row, "majcompflag"), "Yes"),
			DrainageClass:  field(row, "drainagecl"),
			TaxonomicClass: field(row, "taxclname"),
			EcoClassID:     field(row, "ecoclassid"),
		}
		if lcc, err := soil.ParseCapability(field(row, "nirrcapcl"), field(row, "nirrcapscl")); err == nil {
			comp.Capability = &lcc
		}
		if lcc, err := soil.ParseCapability(field(row, "irrcapcl"), field(row, "irrcapscl")); err == nil {
			comp.CapabilityIrr = &lcc
		}
		mu.Components = append(mu.Components, comp)
	}

	if mu.Key == "" {
		return soil.MapUnit{}, ErrNoMapUnit
	}
	return mu, nil
}
