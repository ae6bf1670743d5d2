package extent

import (
	"sort"

	"github.com/venicegeo/geojson-go/geojson"

	"github.com/worldbank/ImageryStorage/model"
)

// Dissolve computes the set union of footprint rectangles: rectangles that
// touch or overlap are merged into their covering rectangle, repeatedly,
// until the remaining rectangles are disjoint. The result is deterministic
// regardless of input order.
func Dissolve(rects []model.Bounds) []model.Bounds {
	merged := make([]model.Bounds, len(rects))
	copy(merged, rects)

	for {
		changed := false
		for i := 0; i < len(merged) && !changed; i++ {
			for j := i + 1; j < len(merged); j++ {
				if merged[i].Intersects(merged[j]) {
					merged[i] = merged[i].Union(merged[j])
					merged = append(merged[:j], merged[j+1:]...)
					changed = true
					break
				}
			}
		}
		if !changed {
			break
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].XMin != merged[j].XMin {
			return merged[i].XMin < merged[j].XMin
		}
		return merged[i].YMin < merged[j].YMin
	})
	return merged
}

// DissolvedGeometry renders dissolved rectangles as a single polygon when
// one remains, or a multipolygon otherwise
func DissolvedGeometry(dissolved []model.Bounds) interface{} {
	if len(dissolved) == 1 {
		return dissolved[0].Polygon()
	}
	coordinates := make([][][][]float64, len(dissolved))
	for i, rect := range dissolved {
		coordinates[i] = rect.Polygon().Coordinates
	}
	return geojson.NewMultiPolygon(coordinates)
}

// CoveringBounds unions dissolved rectangles into the single archive-level
// bounding box
func CoveringBounds(dissolved []model.Bounds) model.Bounds {
	out := dissolved[0]
	for _, rect := range dissolved[1:] {
		out = out.Union(rect)
	}
	return out
}
