// Package soil models USDA soil-survey data for conservation planning.
//
// # Data Sources
//
// Soil series narratives originate from USDA-NRCS Official Series Description
// (OSD) flat-text files, published at https://soilseries.sc.egov.usda.gov/.
// Map unit and component attributes come from the SSURGO database via the
// Soil Data Access tabular service. Ecological site narratives come from the
// NRCS Ecological Dynamics Interpretive Tool (EDIT) JSON API, and per-pixel
// crop history from the USDA NASS Cropland Data Layer (CDL).
//
// # OSD Conventions
//
// Header block:
//
//	LOCATION AMARILLO           TX+NM
//	Established Series
//	Rev. ARS-CLG
//	02/2003
//
//	AMARILLO SERIES
//
// The first field after LOCATION is the series name; the trailing field
// lists two-letter state codes joined by "+". The status line is one of
// "Established Series", "Tentative Series", or "Inactive Series".
//
// Section headers:
//
//	All-caps labels terminated by a colon split the body into sections, e.g.
//	TAXONOMIC CLASS, TYPICAL PEDON, TYPE LOCATION, RANGE IN CHARACTERISTICS,
//	DRAINAGE AND PERMEABILITY, USE AND VEGETATION, DISTRIBUTION AND EXTENT,
//	SERIES ESTABLISHED, REMARKS. A section runs until the next header.
//
// Horizon lines (inside TYPICAL PEDON):
//
//	"Bt1--10 to 24 inches; brown (7.5YR 5/4) sandy clay loam, dark brown
//	(7.5YR 4/4) moist; ..."
//	→ designation "Bt1", depths 10-24 in, dry Munsell color 7.5YR 5/4,
//	texture "sandy clay loam". Older OSDs report depths in inches, newer
//	ones in centimeters (with inches in parentheses); both are normalized
//	to centimeters.
//
// Drainage and permeability:
//
//	The drainage class is one of the seven canonical NRCS classes, from
//	"excessively drained" through "very poorly drained". Permeability is a
//	rate word ("very slow" .. "very rapid"), frequently written as an
//	adverb ("moderately permeable").
//
// # Land Capability Classification (LCC)
//
// SSURGO stores capability as a class digit 1-8 (nirrcapcl / irrcapcl) plus
// an optional lowercase subclass letter (nirrcapscl / irrcapscl):
//
//	Classes 1-4: arable, with an increasingly restricted choice of crops.
//	Classes 5-8: generally unsuited to cultivation.
//	Subclass e: erosion risk, w: excess water, s: shallow/droughty/stony
//	root zone, c: climate limitation.
//
// Classes are conventionally displayed as Roman numerals (I-VIII) with the
// subclass appended, e.g. "IIIe". Class 1 carries no subclass.
//
// # Depth Classes
//
// Derived from the deepest described horizon bottom, per the NRCS soil depth
// class breaks: very shallow <25 cm, shallow 25-50 cm, moderately deep
// 50-100 cm, deep 100-150 cm, very deep >150 cm.
//
// # ID Generation
//
// Series record IDs are deterministic SHA-256 hashes of the series name,
// state list, and taxonomic class. Re-converting the same OSD file yields
// the same ID, so downstream consumers can upsert idempotently. See
// [generateID].
package soil
