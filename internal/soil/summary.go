package soil

import (
	"fmt"
	"sort"
	"strings"
)

// BuildFieldSummary composes the per-point data gathered from the upstream
// services into a farmer-facing record with plain-language narrative
// paragraphs. Any of series, eco, and crops may be absent; the narrative
// covers whatever is available (graceful degradation).
func BuildFieldSummary(point Geo, mu MapUnit, series *SeriesRecord, eco *EcoSite, crops []CropObservation) FieldSummary {
	summary := FieldSummary{
		Point:       point,
		MapUnit:     mu,
		Series:      series,
		EcoSite:     eco,
		Crops:       crops,
		GeneratedAt: clock.Now(),
	}

	if dom, ok := mu.DominantComponent(); ok {
		summary.Dominant = &dom
		summary.Narrative = append(summary.Narrative, describeComponent(mu, dom))
		if dom.Capability != nil {
			summary.Narrative = append(summary.Narrative, describeCapability(dom))
		}
	}
	if series != nil {
		if p := describeSeries(*series); p != "" {
			summary.Narrative = append(summary.Narrative, p)
		}
	}
	if eco != nil {
		summary.Narrative = append(summary.Narrative, describeEcoSite(*eco))
	}
	if len(crops) > 0 {
		summary.Narrative = append(summary.Narrative, describeCropHistory(crops))
	}
	return summary
}

// describeComponent summarizes the dominant soil within the map unit.
func describeComponent(mu MapUnit, c Component) string {
	s := fmt.Sprintf("The dominant soil here is %s, making up about %d%% of map unit %s (%s).",
		c.Name, c.Percent, mu.Symbol, mu.Name)
	if c.DrainageClass != "" {
		s += fmt.Sprintf(" It is %s.", strings.ToLower(c.DrainageClass))
	}
	return s
}

// describeCapability renders the LCC rating with its headline suitability.
func describeCapability(c Component) string {
	s := c.Capability.Describe()
	if c.Capability.Arable() {
		s += " This land is suited to cultivated crops with appropriate management."
	} else {
		s += " This land is generally not suited to cultivated crops."
	}
	if c.CapabilityIrr != nil && c.CapabilityIrr.Class < c.Capability.Class {
		s += fmt.Sprintf(" Under irrigation the rating improves to class %s.", c.CapabilityIrr)
	}
	return s
}

// describeSeries gives the soil profile headline from the OSD record.
func describeSeries(rec SeriesRecord) string {
	var parts []string
	if rec.DepthClass != "" {
		parts = append(parts, rec.DepthClass)
	}
	if rec.DrainageClass != "" {
		parts = append(parts, rec.DrainageClass)
	}
	if len(parts) == 0 && rec.SurfaceTexture == "" {
		return ""
	}

	s := fmt.Sprintf("The %s series", titleCase(rec.Series))
	if len(parts) > 0 {
		s += fmt.Sprintf(" consists of %s soils", strings.Join(parts, ", "))
	}
	if rec.SurfaceTexture != "" {
		s += fmt.Sprintf(" with a %s surface layer", rec.SurfaceTexture)
	}
	s += "."
	if rec.Permeability != "" {
		s += fmt.Sprintf(" Permeability is %s.", rec.Permeability)
	}
	return s
}

// describeEcoSite summarizes the ecological site and its reference state.
func describeEcoSite(eco EcoSite) string {
	s := fmt.Sprintf("This area falls within ecological site %s (%s).", eco.Name, eco.ID)
	for _, st := range eco.States {
		if st.Number == 1 {
			s += fmt.Sprintf(" The reference plant community is the %s state.", st.Name)
			break
		}
	}
	return s
}

// describeCropHistory renders the CDL year-by-year history plus the most
// frequent cultivated crop across the requested years.
func describeCropHistory(crops []CropObservation) string {
	sorted := make([]CropObservation, len(crops))
	copy(sorted, crops)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	entries := make([]string, len(sorted))
	counts := make(map[string]int)
	top, topCount := "", 0
	for i, c := range sorted {
		entries[i] = fmt.Sprintf("%d %s", c.Year, c.Category)
		if c.Cultivated {
			counts[c.Category]++
			if counts[c.Category] > topCount {
				top, topCount = c.Category, counts[c.Category]
			}
		}
	}

	s := "Recent cropland data layer history: " + strings.Join(entries, ", ") + "."
	if topCount > 1 {
		s += fmt.Sprintf(" The most frequent crop is %s (%d of %d years).", top, topCount, len(sorted))
	}
	return s
}

// titleCase converts an all-caps series name to display form ("EL PASO" ->
// "El Paso").
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
