package identity

import (
	"fmt"

	"github.com/venicegeo/geojson-go/geojson"

	"github.com/worldbank/ImageryStorage/model"
)

// Admin boundary property keys, as delivered in the global boundary dataset
const (
	countryNameProperty = "WB_ADM0_NA"
	iso3Property        = "ISO3"
)

// Country is one admin boundary feature's identification
type Country struct {
	Name string
	ISO3 string
}

type boundaryFeature struct {
	country Country
	bounds  model.Bounds
	rings   [][][]float64
}

// BoundarySet is the read-only admin boundary dataset, loaded once per run
type BoundarySet struct {
	features []boundaryFeature
}

// LoadBoundaries reads the admin boundary GeoJSON dataset. An unreadable
// dataset makes the whole run's configuration unusable, so errors here are
// fatal to the run and reported once at start.
func LoadBoundaries(path string) (*BoundarySet, error) {
	parsed, err := geojson.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read admin boundary dataset %s: %v", path, err)
	}

	collection, ok := parsed.(*geojson.FeatureCollection)
	if !ok {
		return nil, fmt.Errorf("admin boundary dataset %s is not a feature collection", path)
	}

	return NewBoundarySet(collection)
}

// NewBoundarySet indexes a boundary feature collection for spatial joins
func NewBoundarySet(collection *geojson.FeatureCollection) (*BoundarySet, error) {
	set := BoundarySet{}
	for i, feature := range collection.Features {
		rings := polygonRings(feature.Geometry)
		if len(rings) == 0 {
			continue
		}

		country := Country{
			Name: feature.PropertyString(countryNameProperty),
			ISO3: feature.PropertyString(iso3Property),
		}
		if country.ISO3 == "" {
			return nil, fmt.Errorf("admin boundary feature %d has no %s property", i, iso3Property)
		}

		set.features = append(set.features, boundaryFeature{
			country: country,
			bounds:  ringsBounds(rings),
			rings:   rings,
		})
	}

	if len(set.features) == 0 {
		return nil, fmt.Errorf("admin boundary dataset contains no usable polygon features")
	}
	return &set, nil
}

// Intersecting returns the countries whose boundary intersects the given
// extent bounds, in dataset order (kept stable for identity determinism)
func (s *BoundarySet) Intersecting(bounds model.Bounds) []Country {
	var out []Country
	seen := map[string]bool{}
	for _, feature := range s.features {
		if !feature.bounds.Intersects(bounds) {
			continue
		}
		if !ringsIntersectRect(feature.rings, bounds) {
			continue
		}
		if !seen[feature.country.ISO3] {
			seen[feature.country.ISO3] = true
			out = append(out, feature.country)
		}
	}
	return out
}

// polygonRings flattens a Polygon or MultiPolygon geometry into outer rings.
// Holes are ignored: an extent inside a hole is a cartographic corner case
// the catalog tolerates.
func polygonRings(geometry interface{}) [][][]float64 {
	switch geom := geometry.(type) {
	case *geojson.Polygon:
		if len(geom.Coordinates) > 0 {
			return [][][]float64{geom.Coordinates[0]}
		}
	case *geojson.MultiPolygon:
		var rings [][][]float64
		for _, polygon := range geom.Coordinates {
			if len(polygon) > 0 {
				rings = append(rings, polygon[0])
			}
		}
		return rings
	}
	return nil
}

func ringsBounds(rings [][][]float64) model.Bounds {
	first := rings[0][0]
	out := model.Bounds{XMin: first[0], YMin: first[1], XMax: first[0], YMax: first[1]}
	for _, ring := range rings {
		for _, position := range ring {
			out = out.Union(model.Bounds{XMin: position[0], YMin: position[1], XMax: position[0], YMax: position[1]})
		}
	}
	return out
}
