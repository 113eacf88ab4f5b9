// Package geo handles coordinate reprojection between WGS-84 and the CONUS
// Albers Equal Area grid (EPSG:5070) used by the NASS Cropland Data Layer
// services.
package geo

import (
	"fmt"

	"github.com/ctessum/geom/proj"
)

const (
	// conusAlbers is EPSG:5070, the projection the CDL rasters are published in.
	conusAlbers = "+proj=aea +lat_1=29.5 +lat_2=45.5 +lat_0=23 +lon_0=-96 " +
		"+x_0=0 +y_0=0 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs"
	wgs84 = "+proj=longlat +datum=WGS84 +no_defs"
)

// Rough CONUS bounding box; the CDL covers only the conterminous states.
const (
	conusMinLat = 24.0
	conusMaxLat = 50.0
	conusMinLon = -125.0
	conusMaxLon = -66.0
)

// Projector converts WGS-84 coordinates to and from EPSG:5070 Albers meters.
type Projector struct {
	toAlbers   proj.Transformer
	fromAlbers proj.Transformer
}

// NewProjector parses the projection definitions and prepares both transform
// directions.
func NewProjector() (*Projector, error) {
	src, err := proj.Parse(wgs84)
	if err != nil {
		return nil, fmt.Errorf("parse wgs84: %w", err)
	}
	dst, err := proj.Parse(conusAlbers)
	if err != nil {
		return nil, fmt.Errorf("parse conus albers: %w", err)
	}

	forward, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("wgs84 to albers transform: %w", err)
	}
	inverse, err := dst.NewTransform(src)
	if err != nil {
		return nil, fmt.Errorf("albers to wgs84 transform: %w", err)
	}
	return &Projector{toAlbers: forward, fromAlbers: inverse}, nil
}

// ToAlbers converts a WGS-84 coordinate to EPSG:5070 meters.
func (p *Projector) ToAlbers(lat, lon float64) (x, y float64, err error) {
	x, y, err = p.toAlbers(lon, lat)
	if err != nil {
		return 0, 0, fmt.Errorf("project to albers: %w", err)
	}
	return x, y, nil
}

// FromAlbers converts EPSG:5070 meters back to a WGS-84 coordinate.
func (p *Projector) FromAlbers(x, y float64) (lat, lon float64, err error) {
	lonOut, latOut, err := p.fromAlbers(x, y)
	if err != nil {
		return 0, 0, fmt.Errorf("project from albers: %w", err)
	}
	return latOut, lonOut, nil
}

// InCONUS reports whether a coordinate falls within the rough conterminous
// United States bounding box. Points outside it have no CDL or SSURGO
// coverage worth querying.
func InCONUS(lat, lon float64) bool {
	return lat >= conusMinLat && lat <= conusMaxLat &&
		lon >= conusMinLon && lon <= conusMaxLon
}
