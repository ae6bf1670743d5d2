package model

import (
	"fmt"

	"github.com/venicegeo/geojson-go/geojson"
)

// Bounds is an axis-aligned bounding box in the canonical geographic frame
type Bounds struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// Valid reports whether the bounds satisfy the geographic validity
// invariant: -180 < xmin < xmax < 180 and -90 < ymin < ymax < 90.
// Extents violating this are excluded from the catalog, never clamped.
func (b Bounds) Valid() bool {
	return b.XMin > -180 && b.XMin < b.XMax && b.XMax < 180 &&
		b.YMin > -90 && b.YMin < b.YMax && b.YMax < 90
}

// Centroid returns the center point of the bounds
func (b Bounds) Centroid() (lon, lat float64) {
	return (b.XMin + b.XMax) / 2, (b.YMin + b.YMax) / 2
}

// Union returns the smallest bounds covering both inputs
func (b Bounds) Union(other Bounds) Bounds {
	out := b
	if other.XMin < out.XMin {
		out.XMin = other.XMin
	}
	if other.YMin < out.YMin {
		out.YMin = other.YMin
	}
	if other.XMax > out.XMax {
		out.XMax = other.XMax
	}
	if other.YMax > out.YMax {
		out.YMax = other.YMax
	}
	return out
}

// Intersects reports whether the two bounds share any area or edge
func (b Bounds) Intersects(other Bounds) bool {
	return b.XMin <= other.XMax && other.XMin <= b.XMax &&
		b.YMin <= other.YMax && other.YMin <= b.YMax
}

// Polygon returns the closed corner rectangle
// [left,bottom]-[left,top]-[right,top]-[right,bottom]-[left,bottom]
func (b Bounds) Polygon() *geojson.Polygon {
	return geojson.NewPolygon([][][]float64{{
		{b.XMin, b.YMin},
		{b.XMin, b.YMax},
		{b.XMax, b.YMax},
		{b.XMax, b.YMin},
		{b.XMin, b.YMin},
	}})
}

// BoundsFromPolygon computes the bounding box of a polygon's coordinates.
// Returns an error for empty geometry.
func BoundsFromPolygon(p *geojson.Polygon) (Bounds, error) {
	if p == nil || len(p.Coordinates) == 0 || len(p.Coordinates[0]) == 0 {
		return Bounds{}, fmt.Errorf("cannot compute bounds of empty polygon")
	}
	first := p.Coordinates[0][0]
	out := Bounds{XMin: first[0], YMin: first[1], XMax: first[0], YMax: first[1]}
	for _, ring := range p.Coordinates {
		for _, position := range ring {
			point := Bounds{XMin: position[0], YMin: position[1], XMax: position[0], YMax: position[1]}
			out = out.Union(point)
		}
	}
	return out, nil
}

// TileFootprint is one raster tile's footprint, reprojected into the
// canonical frame. Immutable once computed. Tiles without a defined
// reference frame never produce one.
type TileFootprint struct {
	FilePath    string
	NativeEPSG  int
	Bands       int
	Resolution  float64 // meters per pixel, after normalization
	Footprint   *geojson.Polygon
	Geohash     string
	Rows        int
	Cols        int
	CaptureDate string // YYYYMMDD, or the sentinel
}

// ArchiveExtent is the dissolved, canonical-frame extent of one archive
type ArchiveExtent struct {
	ArchivePath string
	NativeEPSG  int
	// Geometry is the dissolved union of the tiles' reprojected
	// footprints: *geojson.Polygon or *geojson.MultiPolygon
	Geometry      interface{}
	Bounds        Bounds
	MinResolution float64
	MaxResolution float64
	MinBands      int
	MaxBands      int
	MinDate       string
	MaxDate       string
	TileCount     int
}

// DatesResolved reports whether the capture-date range is free of sentinels
func (e ArchiveExtent) DatesResolved() bool {
	return e.MinDate != SentinelDate && e.MaxDate != SentinelDate &&
		e.MinDate != "" && e.MaxDate != ""
}

// GeoJSONFeature implements the GeoJSONFeatureCreator interface
func (e ArchiveExtent) GeoJSONFeature() (*geojson.Feature, error) {
	f := geojson.NewFeature(e.Geometry, e.ArchivePath, map[string]interface{}{
		"nativeEPSG":    e.NativeEPSG,
		"minResolution": e.MinResolution,
		"maxResolution": e.MaxResolution,
		"minBands":      e.MinBands,
		"maxBands":      e.MaxBands,
		"minDate":       e.MinDate,
		"maxDate":       e.MaxDate,
		"tileCount":     e.TileCount,
	})
	f.Bbox = geojson.BoundingBox{e.Bounds.XMin, e.Bounds.YMin, e.Bounds.XMax, e.Bounds.YMax}
	return f, nil
}
