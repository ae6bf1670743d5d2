package identity

import "github.com/worldbank/ImageryStorage/model"

// Rectangle/polygon intersection used by the spatial join. The extent side
// is always an axis-aligned rectangle, which keeps the predicate exact
// without a general polygon clipper: the shapes intersect iff a ring vertex
// lies in the rectangle, a rectangle corner lies in the ring, or a ring
// edge crosses a rectangle edge.

func ringsIntersectRect(rings [][][]float64, rect model.Bounds) bool {
	for _, ring := range rings {
		if ringIntersectsRect(ring, rect) {
			return true
		}
	}
	return false
}

func ringIntersectsRect(ring [][]float64, rect model.Bounds) bool {
	for _, position := range ring {
		if pointInRect(position[0], position[1], rect) {
			return true
		}
	}

	corners := [][2]float64{
		{rect.XMin, rect.YMin},
		{rect.XMin, rect.YMax},
		{rect.XMax, rect.YMax},
		{rect.XMax, rect.YMin},
	}
	for _, corner := range corners {
		if pointInRing(corner[0], corner[1], ring) {
			return true
		}
	}

	rectEdges := [][4]float64{
		{rect.XMin, rect.YMin, rect.XMin, rect.YMax},
		{rect.XMin, rect.YMax, rect.XMax, rect.YMax},
		{rect.XMax, rect.YMax, rect.XMax, rect.YMin},
		{rect.XMax, rect.YMin, rect.XMin, rect.YMin},
	}
	for i := 0; i+1 < len(ring); i++ {
		for _, edge := range rectEdges {
			if segmentsIntersect(
				ring[i][0], ring[i][1], ring[i+1][0], ring[i+1][1],
				edge[0], edge[1], edge[2], edge[3]) {
				return true
			}
		}
	}
	return false
}

func pointInRect(x, y float64, rect model.Bounds) bool {
	return x >= rect.XMin && x <= rect.XMax && y >= rect.YMin && y <= rect.YMax
}

// pointInRing is the standard even-odd ray cast
func pointInRing(x, y float64, ring [][]float64) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > y) != (yj > y) &&
			x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

func segmentsIntersect(ax, ay, bx, by, cx, cy, dx, dy float64) bool {
	d1 := orientation(cx, cy, dx, dy, ax, ay)
	d2 := orientation(cx, cy, dx, dy, bx, by)
	d3 := orientation(ax, ay, bx, by, cx, cy)
	d4 := orientation(ax, ay, bx, by, dx, dy)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	return (d1 == 0 && onSegment(cx, cy, dx, dy, ax, ay)) ||
		(d2 == 0 && onSegment(cx, cy, dx, dy, bx, by)) ||
		(d3 == 0 && onSegment(ax, ay, bx, by, cx, cy)) ||
		(d4 == 0 && onSegment(ax, ay, bx, by, dx, dy))
}

func orientation(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func onSegment(ax, ay, bx, by, px, py float64) bool {
	return px >= minF(ax, bx) && px <= maxF(ax, bx) &&
		py >= minF(ay, by) && py <= maxF(ay, by)
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
