package soil

import (
	"fmt"
	"strconv"
	"strings"
)

// Capability is a USDA Land Capability Classification rating: a class 1-8
// plus an optional subclass letter naming the dominant limitation.
type Capability struct {
	Class    int    `json:"class"`              // 1-8
	Subclass string `json:"subclass,omitempty"` // e, w, s, or c
}

var romanNumerals = [...]string{"", "I", "II", "III", "IV", "V", "VI", "VII", "VIII"}

// classNarratives give the farmer-facing meaning of each capability class,
// following the NRCS Land Capability Classification handbook (AH-210).
var classNarratives = map[int]string{
	1: "few limitations that restrict use; suited to a wide range of crops",
	2: "moderate limitations that reduce the choice of crops or require moderate conservation practices",
	3: "severe limitations that reduce the choice of crops or require special conservation practices",
	4: "very severe limitations that restrict the choice of crops and require very careful management",
	5: "little or no erosion hazard, but other limitations that make it generally unsuited to cultivation",
	6: "severe limitations that make it generally unsuited to cultivation; best suited to pasture, range, or woodland",
	7: "very severe limitations that restrict use largely to grazing, woodland, or wildlife",
	8: "limitations that preclude commercial plant production; suited to recreation, wildlife, or water supply",
}

// subclassNarratives name the dominant limitation for each subclass letter.
var subclassNarratives = map[string]string{
	"e": "risk of erosion",
	"w": "excess water",
	"s": "shallow, droughty, or stony soil in the rooting zone",
	"c": "a climate limitation (too cold or too dry)",
}

// ParseCapability builds a Capability from the SSURGO class and subclass
// fields (e.g. nirrcapcl "3", nirrcapscl "e"). The class may also arrive as
// a combined string ("3e") or a Roman numeral ("IIIe"); the subclass
// argument wins when both carry a letter. Returns an error for anything
// outside classes 1-8 or subclasses e/w/s/c.
func ParseCapability(class, subclass string) (Capability, error) {
	class = strings.TrimSpace(class)
	subclass = strings.ToLower(strings.TrimSpace(subclass))
	if class == "" {
		return Capability{}, fmt.Errorf("parse capability: empty class")
	}

	// Split a trailing subclass letter off a combined form like "3e" or "IVw".
	if tail := class[len(class)-1]; tail >= 'a' && tail <= 'z' {
		if subclass == "" {
			subclass = string(tail)
		}
		class = class[:len(class)-1]
	}

	n, err := strconv.Atoi(class)
	if err != nil {
		n = fromRoman(strings.ToUpper(class))
	}
	if n < 1 || n > 8 {
		return Capability{}, fmt.Errorf("parse capability: class %q out of range", class)
	}

	if subclass != "" {
		if _, ok := subclassNarratives[subclass]; !ok {
			return Capability{}, fmt.Errorf("parse capability: unknown subclass %q", subclass)
		}
	}
	// Class 1 has no dominant limitation by definition.
	if n == 1 {
		subclass = ""
	}

	return Capability{Class: n, Subclass: subclass}, nil
}

// fromRoman converts a Roman numeral I-VIII to its integer value, or 0.
func fromRoman(s string) int {
	for i, r := range romanNumerals {
		if i > 0 && r == s {
			return i
		}
	}
	return 0
}

// String renders the conventional display form, e.g. "IIIe".
func (c Capability) String() string {
	if c.Class < 1 || c.Class > 8 {
		return ""
	}
	return romanNumerals[c.Class] + c.Subclass
}

// Arable reports whether the class is suited to cultivated crops (classes 1-4).
func (c Capability) Arable() bool {
	return c.Class >= 1 && c.Class <= 4
}

// Describe returns a plain-language sentence for the rating, e.g.
//
//	"Land capability class IIIe: severe limitations that reduce the choice
//	of crops or require special conservation practices; the main limitation
//	is risk of erosion."
func (c Capability) Describe() string {
	narrative, ok := classNarratives[c.Class]
	if !ok {
		return ""
	}
	s := fmt.Sprintf("Land capability class %s: %s", c.String(), narrative)
	if limitation, ok := subclassNarratives[c.Subclass]; ok {
		s += "; the main limitation is " + limitation
	}
	return s + "."
}
