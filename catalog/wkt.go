package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/venicegeo/geojson-go/geojson"
)

// MarshalWKT renders a Polygon or MultiPolygon as well-known text for the
// persisted extent table. Coordinates keep full float precision so re-runs
// serialize identically.
func MarshalWKT(geometry interface{}) (string, error) {
	switch geom := geometry.(type) {
	case *geojson.Polygon:
		return "POLYGON " + wktPolygonBody(geom.Coordinates), nil
	case *geojson.MultiPolygon:
		bodies := make([]string, len(geom.Coordinates))
		for i, polygon := range geom.Coordinates {
			bodies[i] = wktPolygonBody(polygon)
		}
		return "MULTIPOLYGON (" + strings.Join(bodies, ", ") + ")", nil
	}
	return "", fmt.Errorf("cannot serialize geometry of type %T as WKT", geometry)
}

func wktPolygonBody(rings [][][]float64) string {
	ringTexts := make([]string, len(rings))
	for i, ring := range rings {
		positions := make([]string, len(ring))
		for j, position := range ring {
			positions[j] = strconv.FormatFloat(position[0], 'f', -1, 64) +
				" " + strconv.FormatFloat(position[1], 'f', -1, 64)
		}
		ringTexts[i] = "(" + strings.Join(positions, ", ") + ")"
	}
	return "(" + strings.Join(ringTexts, ", ") + ")"
}
