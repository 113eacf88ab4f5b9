// Package httpapi exposes the soil survey lookup service over HTTP, along
// with health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/adapter/cropscape"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/adapter/edit"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/adapter/sda"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/adapter/soilweb"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/geo"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/observability"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/soil"
)

// clock is a package-level time source so tests can freeze time via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// MapUnitFinder resolves the SSURGO map unit at a point.
type MapUnitFinder interface {
	MapUnitAt(ctx context.Context, lat, lon float64) (soil.MapUnit, error)
}

// SeriesTable is the local lookup table built by the converter.
type SeriesTable interface {
	Lookup(name string) (soil.SeriesRecord, bool)
}

// SeriesSource fetches a series description live when the local table
// has no entry.
type SeriesSource interface {
	SeriesRecord(ctx context.Context, name string) (soil.SeriesRecord, error)
}

// ExtentSource fetches a series' mapped geographic footprint.
type ExtentSource interface {
	Extent(ctx context.Context, name string) (soilweb.Extent, error)
}

// CropSource answers cropland data layer lookups.
type CropSource interface {
	CropAt(ctx context.Context, lat, lon float64, year int) (soil.CropObservation, error)
	History(ctx context.Context, lat, lon float64, years []int) ([]soil.CropObservation, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Deps bundles the upstream adapters the API composes. Series and EcoSites
// may be nil; the survey endpoint then degrades to map unit data alone.
type Deps struct {
	MapUnits MapUnitFinder
	Table    SeriesTable
	Series   SeriesSource
	Extents  ExtentSource
	EcoSites edit.Fetcher
	Crops    CropSource

	// CDLYears is how many years of crop history the survey endpoint
	// requests, counting back from the most recent published layer.
	CDLYears int
}

// Server is the HTTP front end for soil survey lookups.
type Server struct {
	httpServer *http.Server
	deps       Deps
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer wires the lookup routes plus /healthz, /readyz, and /metrics.
func NewServer(addr string, deps Deps, ready ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:    deps,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, _ *http.Request) {
		if ready != nil && !ready.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/survey", s.handleSurvey)
	mux.HandleFunc("GET /v1/series/{name}", s.handleSeries)
	mux.HandleFunc("GET /v1/series/{name}/extent", s.handleSeriesExtent)
	mux.HandleFunc("GET /v1/ecosite/{mlra}/{id}", s.handleEcoSite)
	mux.HandleFunc("GET /v1/cdl", s.handleCDL)
	mux.HandleFunc("GET /v1/legend/cdl", s.handleLegend)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleSurvey composes map unit, series, ecological site, and crop history
// data into one farmer-facing summary for a point. Upstream gaps beyond the
// map unit itself degrade the summary rather than failing the request.
func (s *Server) handleSurvey(w http.ResponseWriter, r *http.Request) {
	const endpoint = "survey"
	ctx := r.Context()

	lat, lon, ok := s.pointParams(w, r, endpoint)
	if !ok {
		return
	}

	mu, err := s.deps.MapUnits.MapUnitAt(ctx, lat, lon)
	if err != nil {
		if errors.Is(err, sda.ErrNoMapUnit) {
			s.writeError(w, endpoint, http.StatusNotFound, "no soil survey data at this location")
			return
		}
		s.logger.Error("map unit lookup failed", "lat", lat, "lon", lon, "error", err)
		s.writeError(w, endpoint, http.StatusBadGateway, "soil data access unavailable")
		return
	}

	var rec *soil.SeriesRecord
	var eco *soil.EcoSite
	if dominant, found := mu.DominantComponent(); found {
		rec = s.lookupSeries(ctx, dominant.Name)
		if mlra := soil.EcoClassMLRA(dominant.EcoClassID); mlra != "" && s.deps.EcoSites != nil {
			site, err := s.deps.EcoSites.EcoSite(ctx, mlra, dominant.EcoClassID)
			if err != nil {
				s.logger.Warn("ecological site lookup failed", "ecoclass", dominant.EcoClassID, "error", err)
			} else {
				eco = &site
			}
		}
	}

	var crops []soil.CropObservation
	if s.deps.Crops != nil {
		crops, err = s.deps.Crops.History(ctx, lat, lon, s.historyYears(r))
		if err != nil {
			s.logger.Warn("crop history lookup failed", "lat", lat, "lon", lon, "error", err)
		}
	}

	summary := soil.BuildFieldSummary(soil.Geo{Lat: lat, Lon: lon}, mu, rec, eco, crops)
	s.writeJSON(w, endpoint, http.StatusOK, summary)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	const endpoint = "series"
	name := r.PathValue("name")

	if rec := s.lookupSeries(r.Context(), name); rec != nil {
		s.writeJSON(w, endpoint, http.StatusOK, rec)
		return
	}
	s.writeError(w, endpoint, http.StatusNotFound, "unknown soil series: "+name)
}

// extentResponse summarizes a series' mapped footprint.
type extentResponse struct {
	Series   string   `json:"series"`
	Centroid soil.Geo `json:"centroid"`
	Contains *bool    `json:"contains,omitempty"`
}

// handleSeriesExtent returns the centroid of a series' mapped footprint.
// When lat/lon query parameters are given it also reports whether that
// point falls inside the extent.
func (s *Server) handleSeriesExtent(w http.ResponseWriter, r *http.Request) {
	const endpoint = "extent"
	name := r.PathValue("name")

	if s.deps.Extents == nil {
		s.writeError(w, endpoint, http.StatusNotFound, "series extent lookups disabled")
		return
	}
	ext, err := s.deps.Extents.Extent(r.Context(), name)
	if err != nil {
		s.logger.Error("series extent lookup failed", "series", name, "error", err)
		s.writeError(w, endpoint, http.StatusBadGateway, "series extent unavailable")
		return
	}

	resp := extentResponse{
		Series:   strings.ToUpper(strings.TrimSpace(name)),
		Centroid: ext.Centroid(),
	}
	q := r.URL.Query()
	if q.Get("lat") != "" || q.Get("lon") != "" {
		lat, lon, ok := s.pointParams(w, r, endpoint)
		if !ok {
			return
		}
		inside := ext.Contains(lat, lon)
		resp.Contains = &inside
	}
	s.writeJSON(w, endpoint, http.StatusOK, resp)
}

func (s *Server) handleEcoSite(w http.ResponseWriter, r *http.Request) {
	const endpoint = "ecosite"
	mlra, id := r.PathValue("mlra"), r.PathValue("id")

	if s.deps.EcoSites == nil {
		s.writeError(w, endpoint, http.StatusNotFound, "ecological site lookups disabled")
		return
	}
	site, err := s.deps.EcoSites.EcoSite(r.Context(), mlra, id)
	if err != nil {
		if errors.Is(err, edit.ErrNotFound) {
			s.writeError(w, endpoint, http.StatusNotFound, "no ecological site description for "+id)
			return
		}
		s.logger.Error("ecological site lookup failed", "mlra", mlra, "id", id, "error", err)
		s.writeError(w, endpoint, http.StatusBadGateway, "EDIT service unavailable")
		return
	}
	s.writeJSON(w, endpoint, http.StatusOK, site)
}

// handleCDL returns a single year's crop observation when ?year= is given,
// otherwise the recent multi-year history.
func (s *Server) handleCDL(w http.ResponseWriter, r *http.Request) {
	const endpoint = "cdl"

	lat, lon, ok := s.pointParams(w, r, endpoint)
	if !ok {
		return
	}
	if s.deps.Crops == nil {
		s.writeError(w, endpoint, http.StatusNotFound, "cropland data lookups disabled")
		return
	}

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		// A growing season's layer is published early the following year, so
		// the current calendar year has no data yet.
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 1997 || year > clock.Now().Year()-1 {
			s.writeError(w, endpoint, http.StatusBadRequest, "invalid year")
			return
		}
		obs, err := s.deps.Crops.CropAt(r.Context(), lat, lon, year)
		if err != nil {
			s.logger.Warn("cdl lookup failed", "year", year, "error", err)
			s.writeError(w, endpoint, http.StatusBadGateway, "cropland data layer unavailable")
			return
		}
		s.writeJSON(w, endpoint, http.StatusOK, obs)
		return
	}

	history, err := s.deps.Crops.History(r.Context(), lat, lon, s.historyYears(r))
	if err != nil {
		s.logger.Warn("cdl history failed", "lat", lat, "lon", lon, "error", err)
		s.writeError(w, endpoint, http.StatusBadGateway, "cropland data layer unavailable")
		return
	}
	s.writeJSON(w, endpoint, http.StatusOK, history)
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, "legend", http.StatusOK, cropscape.Legend())
}

// lookupSeries consults the local table first and falls back to the live
// SoilWeb OSD endpoint. Returns nil when neither source has the series.
func (s *Server) lookupSeries(ctx context.Context, name string) *soil.SeriesRecord {
	if name == "" {
		return nil
	}
	if s.deps.Table != nil {
		if rec, ok := s.deps.Table.Lookup(name); ok {
			return &rec
		}
	}
	if s.deps.Series != nil {
		rec, err := s.deps.Series.SeriesRecord(ctx, name)
		if err != nil {
			s.logger.Warn("live series lookup failed", "series", name, "error", err)
			return nil
		}
		return &rec
	}
	return nil
}

// historyYears counts back from the requested (or most recent published)
// cropland data layer year. CDL for a growing season is released early the
// following year, so the default latest year is last calendar year.
func (s *Server) historyYears(r *http.Request) []int {
	latest := clock.Now().Year() - 1
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		// Requested years are clamped into [1997, latest].
		if y, err := strconv.Atoi(yearStr); err == nil {
			switch {
			case y < 1997:
				latest = 1997
			case y < latest:
				latest = y
			}
		}
	}
	count := s.deps.CDLYears
	if count < 1 {
		count = 1
	}
	years := make([]int, 0, count)
	for y := latest; y > latest-count && y >= 1997; y-- {
		years = append(years, y)
	}
	return years
}

// pointParams parses and validates the lat/lon query pair. Writes the error
// response itself and returns ok=false on failure.
func (s *Server) pointParams(w http.ResponseWriter, r *http.Request, endpoint string) (lat, lon float64, ok bool) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	if errLat != nil || errLon != nil {
		s.writeError(w, endpoint, http.StatusBadRequest, "lat and lon query parameters are required")
		return 0, 0, false
	}
	if !geo.InCONUS(lat, lon) {
		s.writeError(w, endpoint, http.StatusBadRequest, "location is outside the conterminous United States")
		return 0, 0, false
	}
	return lat, lon, true
}

func (s *Server) writeJSON(w http.ResponseWriter, endpoint string, status int, v any) {
	s.metrics.APIRequests.WithLabelValues(endpoint, "ok").Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", "endpoint", endpoint, "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, endpoint string, status int, msg string) {
	outcome := "upstream_error"
	if status < http.StatusInternalServerError {
		outcome = "client_error"
	}
	s.metrics.APIRequests.WithLabelValues(endpoint, outcome).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
