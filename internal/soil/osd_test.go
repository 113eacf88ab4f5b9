package soil

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const amarilloOSD = `LOCATION AMARILLO           TX+NM
Established Series
Rev. ARS-CLG
02/2003

AMARILLO SERIES

The Amarillo series consists of very deep, well drained, moderately permeable soils that formed in eolian deposits.

TAXONOMIC CLASS: Fine-loamy, mixed, superactive, thermic Aridic Paleustalfs

TYPICAL PEDON: Amarillo fine sandy loam--cropland. (Colors are for dry soil unless otherwise stated.)

    Ap--0 to 10 inches; brown (7.5YR 5/4) fine sandy loam, dark brown (7.5YR 4/4) moist; weak fine granular structure; slightly hard, very friable; neutral; abrupt smooth boundary.

    Bt1--10 to 24 inches; reddish brown (5YR 5/4) sandy clay loam, reddish brown (5YR 4/4) moist; moderate medium prismatic structure; slightly alkaline; gradual smooth boundary.

    Btk--24 to 50 inches; red (2.5YR 5/6) sandy clay loam; few films and threads of calcium carbonate;
moderately alkaline; diffuse wavy boundary.

    Bk--50 to 80 inches; pink (5YR 7/4) sandy clay loam; about 5 percent calcium carbonate; moderately alkaline.

TYPE LOCATION: Lubbock County, Texas; 2 miles north of Lubbock on Farm Road 1729.

RANGE IN CHARACTERISTICS: Solum thickness is more than 80 inches.

DRAINAGE AND PERMEABILITY: Well drained; moderate permeability. Runoff is negligible to low.

USE AND VEGETATION: Mainly cultivated to cotton and grain sorghum.

DISTRIBUTION AND EXTENT: Southern High Plains of western Texas and eastern New Mexico. The series is extensive.

SERIES ESTABLISHED: Potter County, Texas; 1913.

REMARKS: Diagnostic horizons are an ochric epipedon and an argillic horizon.
`

func TestParseOSD(t *testing.T) {
	t.Run("header block", func(t *testing.T) {
		rec, err := ParseOSD([]byte(amarilloOSD))
		require.NoError(t, err)

		assert.Equal(t, "AMARILLO", rec.Series)
		assert.Equal(t, []string{"TX", "NM"}, rec.States)
		assert.Equal(t, "established", rec.Status)
		assert.Equal(t, "ARS-CLG", rec.Revision)
		assert.Equal(t, "02/2003", rec.RevisionDate)
		assert.Equal(t, "Fine-loamy, mixed, superactive, thermic Aridic Paleustalfs", rec.TaxonomicClass)
		assert.Equal(t, "Lubbock County, Texas; 2 miles north of Lubbock on Farm Road 1729.", rec.TypeLocation)
		assert.True(t, strings.HasPrefix(rec.ID, "amarillo-"))
	})

	t.Run("horizons", func(t *testing.T) {
		rec, err := ParseOSD([]byte(amarilloOSD))
		require.NoError(t, err)
		require.Len(t, rec.Horizons, 4)

		ap := rec.Horizons[0]
		assert.Equal(t, "Ap", ap.Designation)
		assert.Equal(t, 0.0, ap.TopCm)
		assert.Equal(t, 25.4, ap.BottomCm)
		assert.Equal(t, "brown", ap.ColorName)
		assert.Equal(t, "7.5YR 5/4", ap.Munsell)
		assert.Equal(t, "fine sandy loam", ap.Texture)

		bt1 := rec.Horizons[1]
		assert.Equal(t, "Bt1", bt1.Designation)
		assert.Equal(t, 25.4, bt1.TopCm)
		assert.Equal(t, 61.0, bt1.BottomCm)
		assert.Equal(t, "reddish brown", bt1.ColorName)
		assert.Equal(t, "sandy clay loam", bt1.Texture)

		// Wrapped narrative lines are folded into the preceding horizon.
		assert.Contains(t, rec.Horizons[2].Narrative, "moderately alkaline")

		assert.Equal(t, 203.2, rec.Horizons[3].BottomCm)
	})

	t.Run("drainage and permeability", func(t *testing.T) {
		rec, err := ParseOSD([]byte(amarilloOSD))
		require.NoError(t, err)

		assert.Equal(t, "well drained", rec.DrainageClass)
		assert.Equal(t, "moderate", rec.Permeability)
	})

	t.Run("remaining sections preserved", func(t *testing.T) {
		rec, err := ParseOSD([]byte(amarilloOSD))
		require.NoError(t, err)

		assert.Equal(t, "Mainly cultivated to cotton and grain sorghum.", rec.Sections["USE AND VEGETATION"])
		assert.Contains(t, rec.Sections["REMARKS"], "ochric epipedon")
		// Typed sections are not duplicated in the generic map.
		assert.NotContains(t, rec.Sections, "TAXONOMIC CLASS")
		assert.NotContains(t, rec.Sections, "TYPICAL PEDON")
	})

	t.Run("metric depths with inch parenthetical", func(t *testing.T) {
		osd := "LOCATION HOLDREGE          NE\nEstablished Series\n\nHOLDREGE SERIES\n\n" +
			"TYPICAL PEDON: Holdrege silt loam--cropland.\n\n" +
			"    Ap--0 to 18 cm (0 to 7 in); dark grayish brown (10YR 4/2) silt loam; weak fine granular structure.\n"
		rec, err := ParseOSD([]byte(osd))
		require.NoError(t, err)
		require.Len(t, rec.Horizons, 1)

		h := rec.Horizons[0]
		assert.Equal(t, 0.0, h.TopCm)
		assert.Equal(t, 18.0, h.BottomCm)
		assert.Equal(t, "dark grayish brown", h.ColorName)
		assert.Equal(t, "10YR 4/2", h.Munsell)
		assert.Equal(t, "silt loam", h.Texture)
		assert.True(t, strings.HasPrefix(h.Narrative, "dark grayish brown"))
	})

	t.Run("single state", func(t *testing.T) {
		rec, err := ParseOSD([]byte("LOCATION DRUMMER           IL\nEstablished Series\n"))
		require.NoError(t, err)
		assert.Equal(t, "DRUMMER", rec.Series)
		assert.Equal(t, []string{"IL"}, rec.States)
	})

	t.Run("multi-word series name", func(t *testing.T) {
		rec, err := ParseOSD([]byte("LOCATION EL PASO           TX\nTentative Series\n"))
		require.NoError(t, err)
		assert.Equal(t, "EL PASO", rec.Series)
		assert.Equal(t, "tentative", rec.Status)
		assert.True(t, strings.HasPrefix(rec.ID, "el-paso-"))
	})

	t.Run("punctuated series name", func(t *testing.T) {
		rec, err := ParseOSD([]byte("LOCATION ST. CLAIR          MI\nEstablished Series\n"))
		require.NoError(t, err)
		assert.Equal(t, "ST. CLAIR", rec.Series)
		assert.Regexp(t, `^st-clair-[0-9a-f]{16}$`, rec.ID)
	})

	t.Run("revision without date line", func(t *testing.T) {
		rec, err := ParseOSD([]byte("LOCATION DRUMMER           IL\nEstablished Series\nRev. AAC\n"))
		require.NoError(t, err)
		assert.Equal(t, "AAC", rec.Revision)
		assert.Empty(t, rec.RevisionDate)
	})

	t.Run("missing LOCATION line", func(t *testing.T) {
		_, err := ParseOSD([]byte("some unrelated text\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no LOCATION header")
	})

	t.Run("deterministic ID", func(t *testing.T) {
		rec1, err := ParseOSD([]byte(amarilloOSD))
		require.NoError(t, err)
		rec2, err := ParseOSD([]byte(amarilloOSD))
		require.NoError(t, err)
		assert.Equal(t, rec1.ID, rec2.ID)
	})
}

func TestEnrichSeriesRecord(t *testing.T) {
	frozen := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	rec, err := ParseOSD([]byte(amarilloOSD))
	require.NoError(t, err)

	rec = EnrichSeriesRecord(rec)
	assert.Equal(t, "fine sandy loam", rec.SurfaceTexture)
	assert.Equal(t, 203.2, rec.DepthCm)
	assert.Equal(t, "very deep", rec.DepthClass)
	assert.Equal(t, frozen, rec.ProcessedAt)
}

func TestDepthClass(t *testing.T) {
	tests := []struct {
		name     string
		cm       float64
		expected string
	}{
		{"undescribed", 0, ""},
		{"very shallow", 20, "very shallow"},
		{"shallow", 40, "shallow"},
		{"moderately deep", 75, "moderately deep"},
		{"deep", 120, "deep"},
		{"very deep", 200, "very deep"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, depthClass(tt.cm))
		})
	}
}

func TestFindTexture(t *testing.T) {
	tests := []struct {
		name      string
		narrative string
		expected  string
	}{
		{"compound class wins over substring", "brown (7.5YR 5/4) fine sandy loam, dark brown moist", "fine sandy loam"},
		{"plain loam", "gray (10YR 5/1) loam; friable", "loam"},
		{"clay not claimed by clay loam", "red (2.5YR 4/6) clay, firm", "clay"},
		{"only first clause considered", "pale brown silt; layers of clay loam below", "silt"},
		{"no texture", "weak fine granular structure", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, findTexture(tt.narrative))
		})
	}
}

func TestFindDrainageClass(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"compound class", "Somewhat poorly drained; slow runoff.", "somewhat poorly drained"},
		{"simple class", "Well drained; medium runoff.", "well drained"},
		{"excessive", "Somewhat excessively drained.", "somewhat excessively drained"},
		{"none", "Runoff is rapid.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, findDrainageClass(tt.body))
		})
	}
}

func TestFindPermeability(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"noun form", "Well drained; moderate permeability.", "moderate"},
		{"adverb form", "moderately permeable soils", "moderate"},
		{"compound rate", "moderately slow permeability", "moderately slow"},
		{"slowly permeable", "These are slowly permeable soils.", "slow"},
		{"absent", "Well drained; medium runoff.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, findPermeability(tt.body))
		})
	}
}
