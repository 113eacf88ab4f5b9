package soil

import "time"

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Horizon is one described layer from an OSD typical pedon.
type Horizon struct {
	Designation string  `json:"designation"`
	TopCm       float64 `json:"top_cm"`
	BottomCm    float64 `json:"bottom_cm"`
	ColorName   string  `json:"color_name,omitempty"` // e.g. "brown"
	Munsell     string  `json:"munsell,omitempty"`    // e.g. "7.5YR 5/4"
	Texture     string  `json:"texture,omitempty"`    // USDA texture class
	Narrative   string  `json:"narrative,omitempty"`
}

// SeriesRecord is the normalized form of an Official Series Description.
type SeriesRecord struct {
	ID       string   `json:"id"`
	Series   string   `json:"series"`
	States   []string `json:"states,omitempty"`
	Status   string   `json:"status,omitempty"` // established, tentative, inactive
	Revision string   `json:"revision,omitempty"`

	// RevisionDate is the MM/YYYY line under the reviser initials, e.g. "02/2003".
	RevisionDate string `json:"revision_date,omitempty"`

	TaxonomicClass string    `json:"taxonomic_class,omitempty"`
	TypeLocation   string    `json:"type_location,omitempty"`
	DrainageClass  string    `json:"drainage_class,omitempty"`
	Permeability   string    `json:"permeability,omitempty"`
	Horizons       []Horizon `json:"horizons,omitempty"`

	// Derived during enrichment.
	SurfaceTexture string  `json:"surface_texture,omitempty"`
	DepthClass     string  `json:"depth_class,omitempty"`
	DepthCm        float64 `json:"depth_cm,omitempty"`

	// Remaining narrative sections keyed by their OSD header, e.g.
	// "USE AND VEGETATION".
	Sections map[string]string `json:"sections,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}

// Component is one SSURGO map unit component.
type Component struct {
	Key            string      `json:"cokey"`
	Name           string      `json:"name"`
	Percent        int         `json:"percent"`
	Major          bool        `json:"major"`
	DrainageClass  string      `json:"drainage_class,omitempty"`
	TaxonomicClass string      `json:"taxonomic_class,omitempty"`
	EcoClassID     string      `json:"ecoclass_id,omitempty"`          // e.g. "R077CY022TX"
	Capability     *Capability `json:"capability,omitempty"`           // non-irrigated
	CapabilityIrr  *Capability `json:"capability_irrigated,omitempty"` // irrigated, where rated
}

// MapUnit is a SSURGO map unit with its component breakdown.
type MapUnit struct {
	Key        string      `json:"mukey"`
	Symbol     string      `json:"musym"`
	Name       string      `json:"name"`
	Components []Component `json:"components,omitempty"`
}

// DominantComponent returns the major component with the largest percent
// share, falling back to the largest component of any kind. Returns false
// when the map unit has no components.
func (m MapUnit) DominantComponent() (Component, bool) {
	var best Component
	found := false
	for _, c := range m.Components {
		switch {
		case !found:
			best, found = c, true
		case c.Major && !best.Major:
			best = c
		case c.Major == best.Major && c.Percent > best.Percent:
			best = c
		}
	}
	return best, found
}

// EcoClassMLRA extracts the MLRA code from an NRCS ecological site class
// ID. IDs follow the pattern <kind><mlra><unit><state>, e.g. "R077CY022TX"
// belongs to MLRA 077C. Returns "" when the ID is too short to carry one.
func EcoClassMLRA(ecoclassID string) string {
	if len(ecoclassID) < 5 {
		return ""
	}
	return ecoclassID[1:5]
}

// EcoState is one state of an ecological site's state-and-transition model.
type EcoState struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Narrative string `json:"narrative,omitempty"`
}

// EcoSite is a normalized Ecological Site Description from EDIT.
type EcoSite struct {
	ID           string     `json:"id"` // ecoclass ID, e.g. "R077CY022TX"
	Name         string     `json:"name"`
	MLRA         string     `json:"mlra,omitempty"`
	Physiography string     `json:"physiography,omitempty"`
	Climate      string     `json:"climate,omitempty"`
	States       []EcoState `json:"states,omitempty"`
}

// CropObservation is one year's CDL classification at a point.
type CropObservation struct {
	Year       int    `json:"year"`
	Code       int    `json:"code"`
	Category   string `json:"category"`
	Color      string `json:"color,omitempty"` // hex, from the CDL legend
	Cultivated bool   `json:"cultivated"`
}

// FieldSummary is the composed farmer-facing record for a point.
type FieldSummary struct {
	Point     Geo               `json:"point"`
	MapUnit   MapUnit           `json:"map_unit"`
	Dominant  *Component        `json:"dominant_component,omitempty"`
	Series    *SeriesRecord     `json:"series,omitempty"`
	EcoSite   *EcoSite          `json:"eco_site,omitempty"`
	Crops     []CropObservation `json:"crops,omitempty"`
	Narrative []string          `json:"narrative"`

	GeneratedAt time.Time `json:"generated_at"`
}
