package soil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// locationRe matches the OSD header line: "LOCATION AMARILLO           TX+NM"
	// -> series name "AMARILLO", states "TX+NM". The series name may contain
	// spaces ("EL PASO"), so the state field is anchored at the end.
	locationRe = regexp.MustCompile(`^LOCATION\s+(.*\S)\s+([A-Z]{2}(?:\+[A-Z]{2})*)\s*$`)

	// sectionRe matches an all-caps section header terminated by a colon,
	// e.g. "TAXONOMIC CLASS: Fine-loamy, mixed, ...". Lowercase letters are
	// excluded so horizon narrative never matches.
	sectionRe = regexp.MustCompile(`^([A-Z][A-Z0-9 &()/,.'-]*[A-Z)])\s*:\s*(.*)$`)

	// horizonRe matches a typical pedon layer line:
	// "Bt1--10 to 24 inches; brown (7.5YR 5/4) sandy clay loam, ..."
	horizonRe = regexp.MustCompile(`^\s*([A-Za-z0-9@'/^]+)--(\d+(?:\.\d+)?) to (\d+(?:\.\d+)?) (inches|in\.?|centimeters|cm)\b[;:.,]?\s*(.*)$`)

	// munsellRe matches a parenthesized Munsell color notation, e.g. "(7.5YR 5/4)".
	munsellRe = regexp.MustCompile(`\((\d+(?:\.\d+)?(?:YR|GY|BG|PB|RP|Y|R|G|B|P)\s*\d+(?:\.\d+)?/\d+|N\s*\d+(?:\.\d+)?/?)\)`)

	// colorNameRe captures the color words immediately preceding a Munsell
	// notation, e.g. "dark grayish brown".
	colorNameRe = regexp.MustCompile(`([a-z][a-z ]*?)\s*$`)

	// revisionRe matches the reviser initials line: "Rev. ARS-CLG".
	revisionRe = regexp.MustCompile(`^Rev\.?\s+(\S.*)$`)

	// revisionDateRe matches the MM/YYYY revision date line: "02/2003".
	revisionDateRe = regexp.MustCompile(`^(\d{2}/\d{4})$`)

	// slugRe collapses runs of anything outside [a-z0-9] when building ID slugs.
	slugRe = regexp.MustCompile(`[^a-z0-9]+`)

	// parentheticalDepthRe matches the redundant inch range that follows a
	// metric depth in newer OSDs: "A--0 to 18 cm (0 to 7 in); ...".
	parentheticalDepthRe = regexp.MustCompile(`^\((?:about )?\d+(?:\.\d+)? to \d+(?:\.\d+)? (?:inches|in\.?)\)[;:.,]?\s*`)

	// permeabilityRe pulls the rate word out of phrases like "moderate
	// permeability" or "slowly permeable". Longer alternatives first.
	permeabilityRe = regexp.MustCompile(`(?i)\b(very slow|moderately slow|moderately rapid|very rapid|slow|rapid|moderate)(?:ly)?\s+permeab`)
)

// drainageClasses are the seven canonical NRCS soil drainage classes,
// compound classes first so "somewhat poorly drained" is not claimed by
// "poorly drained".
var drainageClasses = []string{
	"somewhat excessively drained",
	"excessively drained",
	"moderately well drained",
	"somewhat poorly drained",
	"very poorly drained",
	"poorly drained",
	"well drained",
}

// textureClasses are the USDA soil texture classes, longest first so
// "fine sandy loam" is not claimed by "sandy loam".
var textureClasses = []string{
	"loamy very fine sand",
	"very fine sandy loam",
	"loamy coarse sand",
	"coarse sandy loam",
	"loamy fine sand",
	"fine sandy loam",
	"silty clay loam",
	"sandy clay loam",
	"very fine sand",
	"coarse sand",
	"loamy sand",
	"sandy loam",
	"sandy clay",
	"silty clay",
	"clay loam",
	"fine sand",
	"silt loam",
	"sand",
	"silt",
	"loam",
	"clay",
}

// Well-known section headers consumed into dedicated fields rather than the
// generic Sections map.
const (
	sectionTaxonomicClass = "TAXONOMIC CLASS"
	sectionTypicalPedon   = "TYPICAL PEDON"
	sectionTypeLocation   = "TYPE LOCATION"
	sectionDrainage       = "DRAINAGE AND PERMEABILITY"
)

// ParseOSD converts an Official Series Description flat-text file into a
// SeriesRecord. The header block (LOCATION line, status, revision) and the
// well-known sections are lifted into typed fields; all other sections are
// preserved verbatim in Sections.
func ParseOSD(text []byte) (SeriesRecord, error) {
	lines := strings.Split(strings.ReplaceAll(string(text), "\r\n", "\n"), "\n")

	rec := SeriesRecord{}
	headerFound := false

	// Ordered accumulation: header -> lines.
	var order []string
	sections := make(map[string][]string)
	current := ""

	for _, line := range lines {
		if !headerFound {
			if m := locationRe.FindStringSubmatch(line); m != nil {
				rec.Series = strings.TrimSpace(m[1])
				rec.States = strings.Split(m[2], "+")
				headerFound = true
			}
			continue
		}

		if current == "" {
			// Still in the prelude between LOCATION and the first section.
			trimmed := strings.TrimSpace(line)
			switch {
			case strings.HasSuffix(trimmed, "Series"):
				rec.Status = strings.ToLower(strings.TrimSuffix(trimmed, " Series"))
			case revisionRe.MatchString(trimmed):
				rec.Revision = revisionRe.FindStringSubmatch(trimmed)[1]
			case revisionDateRe.MatchString(trimmed):
				rec.RevisionDate = trimmed
			}
		}

		if m := sectionRe.FindStringSubmatch(line); m != nil {
			current = strings.TrimSpace(m[1])
			if _, seen := sections[current]; !seen {
				order = append(order, current)
			}
			if rest := strings.TrimSpace(m[2]); rest != "" {
				sections[current] = append(sections[current], rest)
			}
			continue
		}
		if current != "" {
			sections[current] = append(sections[current], line)
		}
	}

	if !headerFound {
		return SeriesRecord{}, fmt.Errorf("parse osd: no LOCATION header line")
	}

	rec.Sections = make(map[string]string)
	for _, name := range order {
		body := strings.TrimSpace(strings.Join(sections[name], "\n"))
		switch name {
		case sectionTaxonomicClass:
			rec.TaxonomicClass = collapseWhitespace(body)
		case sectionTypicalPedon:
			rec.Horizons = parseHorizons(sections[name])
		case sectionTypeLocation:
			rec.TypeLocation = collapseWhitespace(body)
		case sectionDrainage:
			rec.DrainageClass = findDrainageClass(body)
			rec.Permeability = findPermeability(body)
			rec.Sections[name] = body
		default:
			if body != "" {
				rec.Sections[name] = body
			}
		}
	}
	if len(rec.Sections) == 0 {
		rec.Sections = nil
	}

	rec.ID = generateID(rec.Series, rec.States, rec.TaxonomicClass)
	return rec, nil
}

// parseHorizons extracts layer descriptions from the TYPICAL PEDON section.
// A horizon's narrative continues until the next horizon line; non-horizon
// text before the first layer (the pedon identification line) is dropped.
func parseHorizons(lines []string) []Horizon {
	var horizons []Horizon
	for _, line := range lines {
		m := horizonRe.FindStringSubmatch(line)
		if m == nil {
			// Continuation of the previous horizon's narrative.
			if n := len(horizons); n > 0 {
				if t := strings.TrimSpace(line); t != "" {
					horizons[n-1].Narrative += " " + t
				}
			}
			continue
		}

		top := parseFloatOrZero(m[2])
		bottom := parseFloatOrZero(m[3])
		if strings.HasPrefix(m[4], "in") {
			top = inchesToCm(top)
			bottom = inchesToCm(bottom)
		}

		narrative := parentheticalDepthRe.ReplaceAllString(m[5], "")
		h := Horizon{
			Designation: m[1],
			TopCm:       top,
			BottomCm:    bottom,
			Narrative:   strings.TrimSpace(narrative),
		}
		h.ColorName, h.Munsell = findColor(h.Narrative)
		h.Texture = findTexture(h.Narrative)
		horizons = append(horizons, h)
	}
	return horizons
}

// findColor returns the first dry-color name and Munsell notation in a
// horizon narrative, e.g. "brown (7.5YR 5/4) fine sandy loam" ->
// ("brown", "7.5YR 5/4").
func findColor(narrative string) (name, munsell string) {
	loc := munsellRe.FindStringSubmatchIndex(narrative)
	if loc == nil {
		return "", ""
	}
	munsell = narrative[loc[2]:loc[3]]

	prefix := narrative[:loc[0]]
	if m := colorNameRe.FindStringSubmatch(prefix); m != nil {
		name = strings.TrimSpace(m[1])
	}
	return name, munsell
}

// findTexture returns the USDA texture class named in the first clause of a
// horizon narrative, or "" if none matches.
func findTexture(narrative string) string {
	clause := narrative
	if i := strings.IndexAny(clause, ",;"); i >= 0 {
		clause = clause[:i]
	}
	clause = strings.ToLower(clause)
	for _, t := range textureClasses {
		if containsWord(clause, t) {
			return t
		}
	}
	return ""
}

// findDrainageClass returns the canonical NRCS drainage class named in the
// DRAINAGE AND PERMEABILITY section, or "".
func findDrainageClass(body string) string {
	lower := strings.ToLower(body)
	for _, c := range drainageClasses {
		if strings.Contains(lower, c) {
			return c
		}
	}
	return ""
}

// findPermeability returns the permeability rate word, normalized to its
// adjective form ("moderately permeable" -> "moderate").
func findPermeability(body string) string {
	m := permeabilityRe.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// EnrichSeriesRecord derives summary attributes from a parsed record: the
// surface texture (first described horizon), the total described depth, and
// the NRCS depth class. It also stamps ProcessedAt.
func EnrichSeriesRecord(rec SeriesRecord) SeriesRecord {
	if len(rec.Horizons) > 0 {
		rec.SurfaceTexture = rec.Horizons[0].Texture
		for _, h := range rec.Horizons {
			if h.BottomCm > rec.DepthCm {
				rec.DepthCm = h.BottomCm
			}
		}
		rec.DepthClass = depthClass(rec.DepthCm)
	}
	rec.ProcessedAt = clock.Now()
	return rec
}

// depthClass maps a described depth in centimeters to the NRCS soil depth class.
func depthClass(cm float64) string {
	switch {
	case cm <= 0:
		return ""
	case cm < 25:
		return "very shallow"
	case cm < 50:
		return "shallow"
	case cm < 100:
		return "moderately deep"
	case cm < 150:
		return "deep"
	default:
		return "very deep"
	}
}

// generateID produces a deterministic ID from the record's identifying fields.
// Reprocessing the same OSD file yields the same ID, enabling idempotent
// upserts downstream.
func generateID(series string, states []string, taxClass string) string {
	input := fmt.Sprintf("%s|%s|%s", series, strings.Join(states, "+"), taxClass)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])

	// Punctuation in a series name ("ST. CLAIR") folds into the dash so the
	// slug stays plain lowercase alphanumerics and dashes.
	slug := strings.Trim(slugRe.ReplaceAllString(strings.ToLower(series), "-"), "-")
	if slug == "" {
		return short
	}
	return slug + "-" + short
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// inchesToCm converts inches to centimeters, rounded to one decimal place.
func inchesToCm(in float64) float64 {
	return math.Round(in*25.4) / 10
}

// containsWord reports whether s contains phrase bounded by non-letters.
func containsWord(s, phrase string) bool {
	for start := 0; ; {
		i := strings.Index(s[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(phrase)
		leftOK := i == 0 || !isLetter(s[i-1])
		rightOK := end == len(s) || !isLetter(s[end])
		if leftOK && rightOK {
			return true
		}
		start = i + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// collapseWhitespace joins wrapped lines into a single-spaced string.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
