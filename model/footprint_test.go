package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundsValid(t *testing.T) {
	assert.True(t, Bounds{XMin: 30, YMin: 10, XMax: 31, YMax: 11}.Valid())

	// Edges of the valid range are excluded, not included.
	assert.False(t, Bounds{XMin: -180, YMin: 10, XMax: 31, YMax: 11}.Valid())
	assert.False(t, Bounds{XMin: 30, YMin: 10, XMax: 180, YMax: 11}.Valid())
	assert.False(t, Bounds{XMin: 30, YMin: -90, XMax: 31, YMax: 11}.Valid())
	assert.False(t, Bounds{XMin: 30, YMin: 10, XMax: 31, YMax: 90}.Valid())

	// Out-of-range coordinates from failed reprojection.
	assert.False(t, Bounds{XMin: 30, YMin: 10, XMax: 185, YMax: 11}.Valid())

	// Degenerate: min must be strictly below max.
	assert.False(t, Bounds{XMin: 30, YMin: 10, XMax: 30, YMax: 11}.Valid())
	assert.False(t, Bounds{XMin: 31, YMin: 10, XMax: 30, YMax: 11}.Valid())
}

func TestBoundsCentroid(t *testing.T) {
	lon, lat := Bounds{XMin: 30, YMin: 10, XMax: 32, YMax: 12}.Centroid()
	assert.Equal(t, 31.0, lon)
	assert.Equal(t, 11.0, lat)
}

func TestBoundsIntersects_TouchingEdgesCount(t *testing.T) {
	a := Bounds{XMin: 0, YMin: 0, XMax: 1, YMax: 1}
	b := Bounds{XMin: 1, YMin: 0, XMax: 2, YMax: 1}
	c := Bounds{XMin: 1.5, YMin: 0, XMax: 2, YMax: 1}
	assert.True(t, a.Intersects(b))
	assert.True(t, b.Intersects(a))
	assert.False(t, a.Intersects(c))
}

func TestBoundsFromPolygon(t *testing.T) {
	bounds, err := BoundsFromPolygon(Bounds{XMin: 30, YMin: 10, XMax: 31, YMax: 11}.Polygon())
	assert.NoError(t, err)
	assert.Equal(t, Bounds{XMin: 30, YMin: 10, XMax: 31, YMax: 11}, bounds)

	_, err = BoundsFromPolygon(nil)
	assert.Error(t, err)
}

func TestArchiveExtentDatesResolved(t *testing.T) {
	resolved := ArchiveExtent{MinDate: "20170108", MaxDate: "20170212"}
	assert.True(t, resolved.DatesResolved())

	// One sentinel anywhere in the range blocks cataloging.
	mixed := ArchiveExtent{MinDate: "20170108", MaxDate: SentinelDate}
	assert.False(t, mixed.DatesResolved())

	empty := ArchiveExtent{}
	assert.False(t, empty.DatesResolved())
}

func TestArchiveExtentGeoJSONFeature(t *testing.T) {
	extent := ArchiveExtent{
		ArchivePath: "/dist/WV02/delivery_1.zip",
		Geometry:    Bounds{XMin: 30, YMin: 10, XMax: 31, YMax: 11}.Polygon(),
		Bounds:      Bounds{XMin: 30, YMin: 10, XMax: 31, YMax: 11},
		TileCount:   4,
	}
	feature, err := extent.GeoJSONFeature()
	assert.NoError(t, err)
	assert.Equal(t, "/dist/WV02/delivery_1.zip", feature.IDStr())
	assert.Equal(t, 4, feature.Properties["tileCount"])
}
