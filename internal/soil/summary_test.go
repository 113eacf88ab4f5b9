package soil

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMapUnit() MapUnit {
	return MapUnit{
		Key:    "374212",
		Symbol: "AmB",
		Name:   "Amarillo fine sandy loam, 1 to 3 percent slopes",
		Components: []Component{
			{
				Key:           "23456789",
				Name:          "Amarillo",
				Percent:       85,
				Major:         true,
				DrainageClass: "Well drained",
				Capability:    &Capability{Class: 3, Subclass: "e"},
				CapabilityIrr: &Capability{Class: 2, Subclass: "e"},
			},
			{Key: "23456790", Name: "Acuff", Percent: 10, Major: false},
		},
	}
}

func TestDominantComponent(t *testing.T) {
	t.Run("prefers major component", func(t *testing.T) {
		mu := MapUnit{Components: []Component{
			{Name: "Minor", Percent: 90, Major: false},
			{Name: "Major", Percent: 60, Major: true},
		}}
		dom, ok := mu.DominantComponent()
		require.True(t, ok)
		assert.Equal(t, "Major", dom.Name)
	})

	t.Run("largest percent among majors", func(t *testing.T) {
		mu := MapUnit{Components: []Component{
			{Name: "A", Percent: 40, Major: true},
			{Name: "B", Percent: 55, Major: true},
		}}
		dom, ok := mu.DominantComponent()
		require.True(t, ok)
		assert.Equal(t, "B", dom.Name)
	})

	t.Run("empty map unit", func(t *testing.T) {
		_, ok := MapUnit{}.DominantComponent()
		assert.False(t, ok)
	})
}

func TestBuildFieldSummary(t *testing.T) {
	frozen := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	point := Geo{Lat: 33.58, Lon: -101.85}
	series := &SeriesRecord{
		Series:         "AMARILLO",
		DrainageClass:  "well drained",
		Permeability:   "moderate",
		SurfaceTexture: "fine sandy loam",
		DepthClass:     "very deep",
	}
	eco := &EcoSite{
		ID:   "R077CY022TX",
		Name: "Sandy Loam",
		MLRA: "077C",
		States: []EcoState{
			{Number: 1, Name: "Grassland", Narrative: "Midgrass prairie."},
			{Number: 2, Name: "Shrubland"},
		},
	}
	crops := []CropObservation{
		{Year: 2023, Code: 2, Category: "Cotton", Cultivated: true},
		{Year: 2021, Code: 2, Category: "Cotton", Cultivated: true},
		{Year: 2022, Code: 61, Category: "Fallow/Idle Cropland", Cultivated: false},
	}

	summary := BuildFieldSummary(point, testMapUnit(), series, eco, crops)

	assert.Equal(t, point, summary.Point)
	assert.Equal(t, frozen, summary.GeneratedAt)
	require.NotNil(t, summary.Dominant)
	assert.Equal(t, "Amarillo", summary.Dominant.Name)

	require.Len(t, summary.Narrative, 5)
	assert.Contains(t, summary.Narrative[0], "dominant soil here is Amarillo")
	assert.Contains(t, summary.Narrative[0], "85%")
	assert.Contains(t, summary.Narrative[0], "map unit AmB")
	assert.Contains(t, summary.Narrative[0], "well drained")

	assert.Contains(t, summary.Narrative[1], "Land capability class IIIe")
	assert.Contains(t, summary.Narrative[1], "suited to cultivated crops")
	assert.Contains(t, summary.Narrative[1], "improves to class IIe")

	assert.Contains(t, summary.Narrative[2], "The Amarillo series")
	assert.Contains(t, summary.Narrative[2], "very deep, well drained soils")
	assert.Contains(t, summary.Narrative[2], "fine sandy loam surface layer")

	assert.Contains(t, summary.Narrative[3], "ecological site Sandy Loam (R077CY022TX)")
	assert.Contains(t, summary.Narrative[3], "Grassland state")

	// Crop history is rendered in year order with the dominant crop called out.
	assert.Contains(t, summary.Narrative[4], "2021 Cotton, 2022 Fallow/Idle Cropland, 2023 Cotton")
	assert.Contains(t, summary.Narrative[4], "most frequent crop is Cotton (2 of 3 years)")
}

func TestBuildFieldSummaryPartialData(t *testing.T) {
	t.Run("map unit only", func(t *testing.T) {
		summary := BuildFieldSummary(Geo{}, testMapUnit(), nil, nil, nil)
		require.Len(t, summary.Narrative, 2)
		assert.Nil(t, summary.Series)
		assert.Nil(t, summary.EcoSite)
	})

	t.Run("no components", func(t *testing.T) {
		summary := BuildFieldSummary(Geo{}, MapUnit{Key: "1"}, nil, nil, nil)
		assert.Nil(t, summary.Dominant)
		assert.Empty(t, summary.Narrative)
	})

	t.Run("unenriched series adds nothing", func(t *testing.T) {
		summary := BuildFieldSummary(Geo{}, MapUnit{Key: "1"}, &SeriesRecord{Series: "BLAND"}, nil, nil)
		assert.Empty(t, summary.Narrative)
	})

	t.Run("non-arable capability", func(t *testing.T) {
		mu := MapUnit{
			Symbol: "RkF",
			Name:   "Rock outcrop complex",
			Components: []Component{
				{Name: "Rock outcrop", Percent: 60, Major: true, Capability: &Capability{Class: 8, Subclass: "s"}},
			},
		}
		summary := BuildFieldSummary(Geo{}, mu, nil, nil, nil)
		require.Len(t, summary.Narrative, 2)
		assert.Contains(t, summary.Narrative[1], "generally not suited to cultivated crops")
	})
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Amarillo", titleCase("AMARILLO"))
	assert.Equal(t, "El Paso", titleCase("EL PASO"))
	assert.Equal(t, "", titleCase(""))
}
