package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"

	"github.com/worldbank/ImageryStorage/model"
)

func TestMarshalWKT_Polygon(t *testing.T) {
	wkt, err := MarshalWKT(model.Bounds{XMin: 30, YMin: 10, XMax: 31, YMax: 11}.Polygon())
	assert.NoError(t, err)
	assert.Equal(t, "POLYGON ((30 10, 30 11, 31 11, 31 10, 30 10))", wkt)
}

func TestMarshalWKT_MultiPolygon(t *testing.T) {
	multi := geojson.NewMultiPolygon([][][][]float64{
		model.Bounds{XMin: 0, YMin: 0, XMax: 1, YMax: 1}.Polygon().Coordinates,
		model.Bounds{XMin: 5, YMin: 5, XMax: 6, YMax: 6}.Polygon().Coordinates,
	})
	wkt, err := MarshalWKT(multi)
	assert.NoError(t, err)
	assert.Equal(t,
		"MULTIPOLYGON (((0 0, 0 1, 1 1, 1 0, 0 0)), ((5 5, 5 6, 6 6, 6 5, 5 5)))",
		wkt)
}

func TestMarshalWKT_FullPrecision(t *testing.T) {
	wkt, err := MarshalWKT(model.Bounds{XMin: 30.123456789, YMin: 10, XMax: 31, YMax: 11}.Polygon())
	assert.NoError(t, err)
	assert.Contains(t, wkt, "30.123456789 10")
}

func TestMarshalWKT_UnsupportedGeometry(t *testing.T) {
	_, err := MarshalWKT("not a geometry")
	assert.Error(t, err)
}
