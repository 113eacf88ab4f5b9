// Command validate runs integrity checks over a series lookup table produced
// by osdconvert: table shape, required record fields, horizon depth ordering,
// and consistency of the derived surface texture and depth class fields.
//
// Usage:
//
//	go run ./cmd/validate -table data/series-table.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/soil"
)

// idRe matches the converter's deterministic record IDs: a lowercased series
// slug followed by a 16-hex-digit hash, e.g. "amarillo-92b1c5d0a3f4e6b7".
var idRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*-[0-9a-f]{16}$`)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	tablePath := flag.String("table", "", "path to the series lookup table JSON")
	flag.Parse()

	if *tablePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*tablePath))
}

func run(tablePath string) int {
	fmt.Println("=== Series Table Integrity Validation ===")
	fmt.Println()

	data, err := os.ReadFile(tablePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read table: %v\n", err)
		return 1
	}
	var table map[string]soil.SeriesRecord
	if err := json.Unmarshal(data, &table); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: decode table: %v\n", err)
		return 1
	}

	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	phases := []*phase{
		validateTableShape(names, table),
		validateRecordFields(names, table),
		validateHorizons(names, table),
		validateDerivedFields(names, table),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d series\n", len(table))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateTableShape checks keys agree with the records they index.
func validateTableShape(names []string, table map[string]soil.SeriesRecord) *phase {
	p := &phase{name: "Phase 1: Table Shape (keys)"}
	for _, name := range names {
		rec := table[name]
		if strings.TrimSpace(name) == "" {
			p.errorf("empty series name key")
			continue
		}
		if rec.Series != name {
			p.errorf("key %q does not match record series %q", name, rec.Series)
		}
	}
	return p
}

// validateRecordFields checks the fields every converted record must carry.
func validateRecordFields(names []string, table map[string]soil.SeriesRecord) *phase {
	p := &phase{name: "Phase 2: Record Fields"}
	for _, name := range names {
		rec := table[name]
		if rec.ID == "" {
			p.errorf("%s: missing ID", name)
		} else if !idRe.MatchString(rec.ID) {
			p.errorf("%s: ID %q is not a slug plus 16-hex-digit hash", name, rec.ID)
		}
		if rec.ProcessedAt.IsZero() {
			p.errorf("%s: processed_at is zero", name)
		}
		if len(rec.States) == 0 {
			p.errorf("%s: no states", name)
		}
		for _, st := range rec.States {
			if len(st) != 2 || st != strings.ToUpper(st) {
				p.errorf("%s: state %q is not a 2-letter code", name, st)
			}
		}
	}
	return p
}

// validateHorizons checks depth ordering within each typical pedon.
func validateHorizons(names []string, table map[string]soil.SeriesRecord) *phase {
	p := &phase{name: "Phase 3: Horizon Depths"}
	for _, name := range names {
		rec := table[name]
		prevBottom := 0.0
		for i, h := range rec.Horizons {
			if h.Designation == "" {
				p.errorf("%s: horizon %d has no designation", name, i)
			}
			if h.TopCm < 0 || h.BottomCm < 0 {
				p.errorf("%s: horizon %s has negative depth", name, h.Designation)
			}
			if h.BottomCm <= h.TopCm {
				p.errorf("%s: horizon %s bottom %.1f not below top %.1f", name, h.Designation, h.BottomCm, h.TopCm)
			}
			if i > 0 && h.TopCm < prevBottom {
				p.errorf("%s: horizon %s top %.1f overlaps previous bottom %.1f", name, h.Designation, h.TopCm, prevBottom)
			}
			prevBottom = h.BottomCm
		}
	}
	return p
}

// validateDerivedFields re-derives enrichment outputs and compares.
func validateDerivedFields(names []string, table map[string]soil.SeriesRecord) *phase {
	p := &phase{name: "Phase 4: Derived Fields (enrichment)"}
	for _, name := range names {
		rec := table[name]
		if len(rec.Horizons) == 0 {
			continue
		}

		if first := rec.Horizons[0]; first.Texture != "" && rec.SurfaceTexture != first.Texture {
			p.errorf("%s: surface texture %q does not match first horizon %q", name, rec.SurfaceTexture, first.Texture)
		}

		maxBottom := 0.0
		for _, h := range rec.Horizons {
			if h.BottomCm > maxBottom {
				maxBottom = h.BottomCm
			}
		}
		if rec.DepthCm != maxBottom {
			p.errorf("%s: depth %.1f does not match deepest horizon %.1f", name, rec.DepthCm, maxBottom)
		}

		if want := depthClassFor(maxBottom); rec.DepthClass != want {
			p.errorf("%s: depth class %q, expected %q for %.1f cm", name, rec.DepthClass, want, maxBottom)
		}
	}
	return p
}

// depthClassFor mirrors the NRCS soil depth class breaks used by enrichment.
func depthClassFor(depthCm float64) string {
	switch {
	case depthCm < 25:
		return "very shallow"
	case depthCm < 50:
		return "shallow"
	case depthCm < 100:
		return "moderately deep"
	case depthCm < 150:
		return "deep"
	default:
		return "very deep"
	}
}
