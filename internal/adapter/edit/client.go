// Package edit fetches Ecological Site Descriptions from the USDA Ecological
// Dynamics Interpretive Tool (EDIT) JSON API and normalizes them into
// farmer-facing records.
package edit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/observability"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/soil"
)

// ErrNotFound is returned when EDIT has no description for the requested
// ecological site class.
var ErrNotFound = errors.New("no description for ecological site")

// Fetcher retrieves ecological site descriptions. Implemented by Client and
// the CachedFetcher decorator.
type Fetcher interface {
	// EcoSite fetches the description for an ecological site class within a
	// Major Land Resource Area, e.g. ("077C", "R077CY022TX").
	EcoSite(ctx context.Context, mlra, ecoclassID string) (soil.EcoSite, error)
}

// Client implements Fetcher against the EDIT descriptions API.
type Client struct {
	baseURL    string // e.g. https://edit.jornada.nmsu.edu/services/descriptions/esd
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an EDIT API client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// EcoSite fetches and normalizes the overview document for an ecological site.
func (c *Client) EcoSite(ctx context.Context, mlra, ecoclassID string) (soil.EcoSite, error) {
	u := fmt.Sprintf("%s/%s/%s/overview.json",
		c.baseURL, url.PathEscape(mlra), url.PathEscape(ecoclassID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return soil.EcoSite{}, fmt.Errorf("create edit request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues("edit").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("edit", "error").Inc()
		return soil.EcoSite{}, fmt.Errorf("edit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.metrics.UpstreamRequests.WithLabelValues("edit", "empty").Inc()
		return soil.EcoSite{}, fmt.Errorf("edit: %w %s/%s", ErrNotFound, mlra, ecoclassID)
	}
	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues("edit", "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return soil.EcoSite{}, fmt.Errorf("edit error: status %d: %s", resp.StatusCode, body)
	}

	var doc overview
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("edit", "error").Inc()
		return soil.EcoSite{}, fmt.Errorf("decode edit response: %w", err)
	}
	c.metrics.UpstreamRequests.WithLabelValues("edit", "success").Inc()

	return normalize(mlra, ecoclassID, doc), nil
}

// normalize reshapes the EDIT overview document into the domain record.
// Missing blocks simply leave fields empty; EDIT documents vary widely in
// completeness.
func normalize(mlra, ecoclassID string, doc overview) soil.EcoSite {
	site := soil.EcoSite{
		ID:   ecoclassID,
		MLRA: mlra,
	}
	if doc.GeneralInformation.EcologicalSite.ID != "" {
		site.ID = doc.GeneralInformation.EcologicalSite.ID
	}
	site.Name = doc.GeneralInformation.EcologicalSite.Name
	site.Physiography = collapse(doc.PhysiographicFeatures.Narratives.Physiography)
	site.Climate = collapse(doc.ClimaticFeatures.Narratives.Climate)

	for _, st := range doc.EcologicalDynamics.States {
		site.States = append(site.States, soil.EcoState{
			Number:    st.Number,
			Name:      st.Name,
			Narrative: collapse(st.Narratives.Description),
		})
	}
	return site
}

// collapse strips the HTML paragraph markup EDIT embeds in narrative fields
// and folds the text to single-spaced plain prose.
func collapse(s string) string {
	for _, tag := range []string{"<p>", "</p>", "<em>", "</em>", "<strong>", "</strong>"} {
		s = strings.ReplaceAll(s, tag, " ")
	}
	return strings.Join(strings.Fields(s), " ")
}

// EDIT API response types (overview.json).

type overview struct {
	GeneralInformation struct {
		EcologicalSite struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"ecologicalSite"`
	} `json:"generalInformation"`
	PhysiographicFeatures struct {
		Narratives struct {
			Physiography string `json:"physiography"`
		} `json:"narratives"`
	} `json:"physiographicFeatures"`
	ClimaticFeatures struct {
		Narratives struct {
			Climate string `json:"climaticFeatures"`
		} `json:"narratives"`
	} `json:"climaticFeatures"`
	EcologicalDynamics struct {
		States []struct {
			Number     int    `json:"number"`
			Name       string `json:"name"`
			Narratives struct {
				Description string `json:"description"`
			} `json:"narratives"`
		} `json:"states"`
	} `json:"ecologicalDynamics"`
}
